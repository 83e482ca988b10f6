package server

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/go-oidc-authorize/authorize"
	interrors "github.com/jrsteele09/go-oidc-authorize/internal/errors"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
	"github.com/jrsteele09/go-oidc-authorize/users"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login and register pages
type LoginPageData struct {
	TenantID   string
	TenantName string
	Error      string
	Email      string // Preserve email on error
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return s.interactionPageHandler("login.html")
}

// RegisterPageHandler displays the registration page (GET /register)
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return s.interactionPageHandler("register.html")
}

func (s *Server) interactionPageHandler(templateName string) http.HandlerFunc {
	tmpl, err := ParseTemplate(templateName)
	if err != nil {
		log.Err(err).Str("template", templateName).Msg("Failed to parse template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := s.tenantFromHost(r.Host)
		if err != nil {
			http.Error(w, "unknown tenant", http.StatusBadRequest)
			return
		}

		// A login/register page only makes sense inside an active flow.
		if _, err := s.resolveFlowSession(r, tenant); err != nil {
			s.handleLoginSessionError(w, tenant, err)
			return
		}

		data := LoginPageData{
			TenantID:   tenant.ID,
			TenantName: tenant.Name,
			Error:      r.URL.Query().Get("error"),
			Email:      r.URL.Query().Get("email"),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Str("template", templateName).Msg("Failed to render template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler processes the login form (POST /login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := s.tenantFromHost(r.Host)
		if err != nil {
			http.Error(w, "unknown tenant", http.StatusBadRequest)
			return
		}

		if _, err := s.resolveFlowSession(r, tenant); err != nil {
			s.handleLoginSessionError(w, tenant, err)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")
		password := r.FormValue("password")
		if email == "" || password == "" {
			s.redirectBackWithError(w, r, RouteLogin, "Email and password are required", email)
			return
		}

		_, token, err := s.auth.Login(tenant, email, password)
		if err != nil {
			if interrors.Is(err, interrors.ErrInvalidCredentials) {
				s.redirectBackWithError(w, r, RouteLogin, "Incorrect email or password", email)
				return
			}
			log.Err(err).Msg("login failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		s.setSessionTokenCookie(w, r, tenant, token)
		http.Redirect(w, r, RouteConsent, http.StatusSeeOther)
	}
}

// RegisterSubmissionHandler processes the registration form (POST /register)
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := s.tenantFromHost(r.Host)
		if err != nil {
			http.Error(w, "unknown tenant", http.StatusBadRequest)
			return
		}

		if _, err := s.resolveFlowSession(r, tenant); err != nil {
			s.handleLoginSessionError(w, tenant, err)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")
		password := r.FormValue("password")
		if email == "" || password == "" {
			s.redirectBackWithError(w, r, RouteRegister, "Email and password are required", email)
			return
		}

		if _, err := s.repos.Users.GetByEmail(tenant.ID, email); err == nil {
			s.redirectBackWithError(w, r, RouteRegister, "An account with this email already exists", email)
			return
		}

		passwordHash, err := users.HashPassword(password)
		if err != nil {
			log.Err(err).Msg("failed to hash password")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if err := s.repos.Users.Upsert(&users.User{
			TenantID:     tenant.ID,
			Email:        email,
			PasswordHash: passwordHash,
			DateJoined:   time.Now(),
		}); err != nil {
			log.Err(err).Msg("failed to create user")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		_, token, err := s.auth.Login(tenant, email, password)
		if err != nil {
			log.Err(err).Msg("login after registration failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		s.setSessionTokenCookie(w, r, tenant, token)
		http.Redirect(w, r, RouteConsent, http.StatusSeeOther)
	}
}

// resolveFlowSession recovers the active login session from the per-tenant cookie.
func (s *Server) resolveFlowSession(r *http.Request, tenant *tenants.Tenant) (*loginSessionResult, error) {
	token := cookieValue(r, s.loginSessionCookieName(tenant))
	session, err := s.auth.ResolveLoginSession(token, tenant)
	if err != nil {
		return nil, err
	}
	return &loginSessionResult{session: session, token: token}, nil
}

// handleLoginSessionError renders login-session failures, which are always
// fatal/local (a forged or missing flow cookie gives no redirect target).
func (s *Server) handleLoginSessionError(w http.ResponseWriter, tenant *tenants.Tenant, err error) {
	var fatal *authorize.FatalError
	if errors.As(err, &fatal) {
		s.renderFatalError(w, tenant, fatal)
		return
	}
	log.Err(err).Msg("unexpected login session error")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// redirectBackWithError sends the user back to an interaction page with an
// error banner and the email preserved.
func (s *Server) redirectBackWithError(w http.ResponseWriter, r *http.Request, route, message, email string) {
	params := url.Values{}
	params.Set("error", message)
	if email != "" {
		params.Set("email", email)
	}
	http.Redirect(w, r, route+"?"+params.Encode(), http.StatusSeeOther)
}
