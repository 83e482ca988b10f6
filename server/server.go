package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-oidc-authorize/authorize"
	"github.com/jrsteele09/go-oidc-authorize/internal/config"
	"github.com/jrsteele09/go-oidc-authorize/loginsessions"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	auth   *authorize.AuthorizationService
	repos  authorize.Repos
}

func New(cfg config.Config, repos authorize.Repos, options ...authorize.AuthorizationServiceOption) (*Server, error) {
	signer := loginsessions.NewTokenSigner(cfg.GetSessionSigningKey())
	opts := append([]authorize.AuthorizationServiceOption{
		authorize.WithLoginSessionTimeout(cfg.GetLoginSessionTimeout()),
		authorize.WithSessionTokenTimeout(cfg.GetSessionTokenTimeout()),
	}, options...)
	authService, err := authorize.NewAuthorizationService(repos, signer, opts...)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create authorization service: %w", err)
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		auth:   authService,
		repos:  repos,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Str("method", method).Str("path", path).Msg("route registered")
}

// tenantFromHost resolves the tenant serving the request from the Host header.
func (s *Server) tenantFromHost(host string) (*tenants.Tenant, error) {
	// Strip any port before matching against tenant domains
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	tenant, err := s.repos.Tenants.GetByDomain(host)
	if err != nil {
		return nil, fmt.Errorf("[tenantFromHost] unknown tenant for host %q: %w", host, err)
	}
	return tenant, nil
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
