package server

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"github.com/jrsteele09/go-oidc-authorize/clients"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
	"github.com/jrsteele09/go-oidc-authorize/users"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTenantID   = "default"
	DefaultTenantName = "Default"
	DemoClientID      = "demo-app"
	DemoClientName    = "Demo Application"
	DemoUserEmail     = "demo@example.com"
)

// InitialiseSystem seeds the default tenant, a demo client and a demo user so
// a fresh instance can run an authorization flow end to end. It is idempotent;
// existing records are left untouched. Returns the generated demo password on
// first creation (empty string if the user already existed).
func (s *Server) InitialiseSystem() (string, error) {
	tenant, err := s.initialiseDefaultTenant()
	if err != nil {
		return "", fmt.Errorf("[Server InitialiseSystem] failed to bootstrap default tenant: %w", err)
	}

	client, err := s.initialiseDemoClient(tenant.ID)
	if err != nil {
		return "", fmt.Errorf("[Server InitialiseSystem] failed to bootstrap demo client: %w", err)
	}

	password, err := s.initialiseDemoUser(tenant.ID)
	if err != nil {
		return "", fmt.Errorf("[Server InitialiseSystem] failed to bootstrap demo user: %w", err)
	}

	if password != "" {
		log.Info().
			Str("tenant", tenant.ID).
			Str("domain", tenant.Domain).
			Str("client_id", client.ID).
			Str("email", DemoUserEmail).
			Str("password", password).
			Msg("demo credentials created")
	}
	return password, nil
}

func (s *Server) initialiseDefaultTenant() (*tenants.Tenant, error) {
	domain := baseURLHost(s.config.GetBaseURL())

	if tenant, err := s.repos.Tenants.Get(DefaultTenantID); err == nil {
		return tenant, nil
	}

	tenant := &tenants.Tenant{
		ID:     DefaultTenantID,
		Name:   DefaultTenantName,
		Domain: domain,
	}
	if err := s.repos.Tenants.Upsert(tenant); err != nil {
		return nil, fmt.Errorf("[Server initialiseDefaultTenant] %w", err)
	}
	return tenant, nil
}

func (s *Server) initialiseDemoClient(tenantID string) (*clients.Client, error) {
	if client, err := s.repos.Clients.Get(DemoClientID); err == nil {
		return client, nil
	}

	client := &clients.Client{
		ID:          DemoClientID,
		TenantID:    tenantID,
		Name:        DemoClientName,
		Description: "Seeded client for trying out the authorization flow",
		RedirectURIs: []string{
			"http://localhost:3000/callback",
		},
		Scopes: []string{"openid", "profile", "email"},
	}
	if err := s.repos.Clients.Upsert(client); err != nil {
		return nil, fmt.Errorf("[Server initialiseDemoClient] %w", err)
	}
	return client, nil
}

func (s *Server) initialiseDemoUser(tenantID string) (string, error) {
	if _, err := s.repos.Users.GetByEmail(tenantID, DemoUserEmail); err == nil {
		return "", nil
	}

	password, err := generatePassword()
	if err != nil {
		return "", fmt.Errorf("[Server initialiseDemoUser] %w", err)
	}
	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("[Server initialiseDemoUser] %w", err)
	}
	if err := s.repos.Users.Upsert(&users.User{
		TenantID:     tenantID,
		Email:        DemoUserEmail,
		PasswordHash: passwordHash,
		DateJoined:   time.Now(),
	}); err != nil {
		return "", fmt.Errorf("[Server initialiseDemoUser] %w", err)
	}
	return password, nil
}

func generatePassword() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// baseURLHost extracts the host (without port) from the configured base URL,
// falling back to localhost when the URL cannot be parsed.
func baseURLHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return "localhost"
	}
	return u.Hostname()
}
