package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/go-oidc-authorize/authorize"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
	"github.com/rs/zerolog/log"
)

// AuthorizeHandler serves the authorization endpoint (GET /authorize). It
// validates the raw request, creates the login session for the flow, and
// hands the user to the login, register or consent interaction.
func (s *Server) AuthorizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := s.tenantFromHost(r.Host)
		if err != nil {
			http.Error(w, "unknown tenant", http.StatusBadRequest)
			return
		}

		params := parseAuthorizationParameters(r)
		sessionToken := s.auth.CurrentSessionToken(cookieValue(r, s.sessionTokenCookieName(tenant)))

		req, err := s.auth.ValidateRequest(params, sessionToken)
		if err != nil {
			s.handleAuthorizationError(w, r, tenant, err)
			return
		}

		_, token, continuation, err := s.auth.BeginAuthorization(req)
		if err != nil {
			log.Err(err).Str("client_id", req.Client.ID).Msg("failed to begin authorization")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		s.setLoginSessionCookie(w, r, tenant, token)

		// An already-authenticated user goes straight to consent, unless the
		// request explicitly asked to re-authenticate.
		if sessionToken != nil && continuation.Prompt != authorize.PromptLogin {
			http.Redirect(w, r, RouteConsent, http.StatusSeeOther)
			return
		}

		if continuation.Screen == authorize.ScreenRegister {
			http.Redirect(w, r, RouteRegister, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// parseAuthorizationParameters reads the raw query parameters. Validation
// happens in the engine; this only transports values.
func parseAuthorizationParameters(r *http.Request) authorize.AuthorizationParameters {
	q := r.URL.Query()
	return authorize.AuthorizationParameters{
		ClientID:     q.Get("client_id"),
		RedirectURI:  q.Get("redirect_uri"),
		ResponseType: q.Get("response_type"),
		Scope:        q.Get("scope"),
		State:        q.Get("state"),
		Prompt:       q.Get("prompt"),
		Screen:       q.Get("screen"),
	}
}

// handleAuthorizationError dispatches the two terminal error shapes of the
// engine: fatal errors render locally, redirect errors go back to the client.
func (s *Server) handleAuthorizationError(w http.ResponseWriter, r *http.Request, tenant *tenants.Tenant, err error) {
	var fatal *authorize.FatalError
	if errors.As(err, &fatal) {
		s.renderFatalError(w, tenant, fatal)
		return
	}
	var redirectErr *authorize.RedirectError
	if errors.As(err, &redirectErr) {
		s.redirectWithError(w, r, redirectErr)
		return
	}
	log.Err(err).Msg("unexpected authorization error")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
