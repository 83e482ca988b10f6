package config

import "fmt"

type Config interface {
	EnvConfig
	SessionConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
}

type mainConfig struct {
	EnvVars
	Session
	Cors
}

// New loads configuration from environment variables.
func New() (Config, error) {
	envVars, err := ParseEnvVars()
	if err != nil {
		return nil, fmt.Errorf("config.New: %w", err)
	}
	session, err := ParseSession()
	if err != nil {
		return nil, fmt.Errorf("config.New: %w", err)
	}
	return mainConfig{EnvVars: envVars, Session: session}, nil
}
