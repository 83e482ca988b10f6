package server

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/jrsteele09/go-oidc-authorize/authorize"
	"github.com/jrsteele09/go-oidc-authorize/loginsessions"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
	"github.com/rs/zerolog/log"
)

// loginSessionResult pairs a resolved login session with the cookie value it
// was resolved from.
type loginSessionResult struct {
	session *loginsessions.LoginSession
	token   string
}

// ConsentPageData contains data for rendering the consent page
type ConsentPageData struct {
	TenantName string
	ClientName string
	Scopes     []string
	Error      string
}

// ConsentGetHandler drives the consent step (GET /consent). It evaluates the
// consent requirement, applies the silent-flow rules, and either finishes the
// flow, bounces to login, or renders the consent screen.
func (s *Server) ConsentGetHandler() http.HandlerFunc {
	consentTmpl, err := ParseTemplate("consent.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse consent template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := s.tenantFromHost(r.Host)
		if err != nil {
			http.Error(w, "unknown tenant", http.StatusBadRequest)
			return
		}

		flow, err := s.resolveFlowSession(r, tenant)
		if err != nil {
			s.handleLoginSessionError(w, tenant, err)
			return
		}
		session := flow.session

		sessionToken := s.auth.CurrentSessionToken(cookieValue(r, s.sessionTokenCookieName(tenant)))
		needsConsent := s.auth.NeedsConsent(session, sessionToken)

		// Silent-flow rule: prompt=none with outstanding consent fails the
		// flow. The engine deletes the login session and clears the cookie
		// before the error exists, so a retried flow starts clean.
		prompt, err := s.auth.ConsentPrompt(session, needsConsent, func() {
			s.clearLoginSessionCookie(w, r, tenant)
		})
		if err != nil {
			var redirectErr *authorize.RedirectError
			if errors.As(err, &redirectErr) {
				s.redirectWithError(w, r, redirectErr)
				return
			}
			log.Err(err).Msg("consent prompt resolution failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		// Consent needs an authenticated user to decide it.
		if sessionToken == nil {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		// A covering grant skips the screen unless consent was explicitly requested.
		if !needsConsent && prompt != authorize.PromptConsent {
			s.finishAuthorization(w, r, tenant, session)
			return
		}

		s.renderConsentPage(w, consentTmpl, tenant.Name, session, "")
	}
}

// ConsentPostHandler processes the consent decision (POST /consent)
func (s *Server) ConsentPostHandler() http.HandlerFunc {
	consentTmpl, err := ParseTemplate("consent.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse consent template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := s.tenantFromHost(r.Host)
		if err != nil {
			http.Error(w, "unknown tenant", http.StatusBadRequest)
			return
		}

		flow, err := s.resolveFlowSession(r, tenant)
		if err != nil {
			s.handleLoginSessionError(w, tenant, err)
			return
		}
		session := flow.session

		sessionToken := s.auth.CurrentSessionToken(cookieValue(r, s.sessionTokenCookieName(tenant)))
		if sessionToken == nil {
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		action, err := s.auth.ValidateConsentAction(r.FormValue("action"), session, tenant)
		if err != nil {
			var consentErr *authorize.ConsentPageError
			if errors.As(err, &consentErr) {
				w.WriteHeader(http.StatusBadRequest)
				s.renderConsentPage(w, consentTmpl, tenant.Name, session, consentErr.Message)
				return
			}
			log.Err(err).Msg("unexpected consent action error")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if action == authorize.ConsentActionDeny {
			if err := s.auth.DiscardLoginSession(session); err != nil {
				log.Err(err).Msg("failed to discard login session")
			}
			s.clearLoginSessionCookie(w, r, tenant)
			s.redirectWithError(w, r, authorize.NewRedirectError(
				session.RedirectURI,
				session.State,
				authorize.ErrorCodeAccessDenied,
				"The user denied access to their data",
			))
			return
		}

		if err := s.auth.SaveGrant(sessionToken.UserID, session.Client, session.Scope); err != nil {
			log.Err(err).Msg("failed to save grant")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		s.finishAuthorization(w, r, tenant, session)
	}
}

// finishAuthorization ends a successful flow: the login session is deleted,
// its cookie cleared, and the authorization code delivered to the client.
func (s *Server) finishAuthorization(w http.ResponseWriter, r *http.Request, tenant *tenants.Tenant, session *loginsessions.LoginSession) {
	code, err := s.auth.CompleteAuthorization(session)
	if err != nil {
		log.Err(err).Msg("failed to complete authorization")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.clearLoginSessionCookie(w, r, tenant)
	s.redirectWithCode(w, r, session.RedirectURI, code, session.State)
}

func (s *Server) renderConsentPage(w http.ResponseWriter, tmpl *template.Template, tenantName string, session *loginsessions.LoginSession, errorMsg string) {
	clientName := session.Client.Name
	if clientName == "" {
		clientName = session.Client.ID
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, ConsentPageData{
		TenantName: tenantName,
		ClientName: clientName,
		Scopes:     session.Scope,
		Error:      errorMsg,
	}); err != nil {
		log.Err(err).Msg("Failed to render consent template")
	}
}
