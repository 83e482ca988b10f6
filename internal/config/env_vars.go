package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvVars holds the process-level settings, parsed from the environment.
type EnvVars struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"Go OIDC Authorize"`
	Env     string `env:"ENV" envDefault:"DEV"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`
}

var _ EnvConfig = EnvVars{}

func ParseEnvVars() (EnvVars, error) {
	var e EnvVars
	if err := env.Parse(&e); err != nil {
		return EnvVars{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return e.Env
}

// GetBaseURL returns the base URL for the authorization server
// (e.g., "https://auth.example.com"). Used for login/consent redirects.
func (e EnvVars) GetBaseURL() string {
	return e.BaseURL
}
