package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type SessionConfig interface {
	GetLoginSessionCookieName() string
	GetSessionTokenCookieName() string
	GetSessionSigningKey() []byte
	GetLoginSessionTimeout() time.Duration
	GetSessionTokenTimeout() time.Duration
}

// Session holds the cookie and token settings for the authorization flow.
// Cookie names are base names; the server scopes them per tenant.
type Session struct {
	LoginSessionCookieName string        `env:"LOGIN_SESSION_COOKIE_NAME" envDefault:"login_session"`
	SessionTokenCookieName string        `env:"SESSION_TOKEN_COOKIE_NAME" envDefault:"user_session"`
	SigningKey             string        `env:"SESSION_SIGNING_KEY" envDefault:"dev-only-insecure-signing-key"`
	LoginSessionTimeout    time.Duration `env:"LOGIN_SESSION_TIMEOUT" envDefault:"30m"`
	SessionTokenTimeout    time.Duration `env:"SESSION_TOKEN_TIMEOUT" envDefault:"24h"`
}

var _ SessionConfig = Session{}

func ParseSession() (Session, error) {
	var s Session
	if err := env.Parse(&s); err != nil {
		return Session{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

func (s Session) GetLoginSessionCookieName() string {
	return s.LoginSessionCookieName
}

func (s Session) GetSessionTokenCookieName() string {
	return s.SessionTokenCookieName
}

func (s Session) GetSessionSigningKey() []byte {
	return []byte(s.SigningKey)
}

func (s Session) GetLoginSessionTimeout() time.Duration {
	return s.LoginSessionTimeout
}

func (s Session) GetSessionTokenTimeout() time.Duration {
	return s.SessionTokenTimeout
}
