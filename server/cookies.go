package server

import (
	"net/http"

	"github.com/jrsteele09/go-oidc-authorize/tenants"
)

// loginSessionCookieName returns the login session cookie name scoped to the
// tenant, so two tenants sharing a parent domain never read each other's flows.
func (s *Server) loginSessionCookieName(tenant *tenants.Tenant) string {
	return s.config.GetLoginSessionCookieName() + "_" + tenant.ID
}

func (s *Server) sessionTokenCookieName(tenant *tenants.Tenant) string {
	return s.config.GetSessionTokenCookieName() + "_" + tenant.ID
}

func (s *Server) setLoginSessionCookie(w http.ResponseWriter, r *http.Request, tenant *tenants.Tenant, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.loginSessionCookieName(tenant),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetLoginSessionTimeout().Seconds()),
	})
}

func (s *Server) clearLoginSessionCookie(w http.ResponseWriter, r *http.Request, tenant *tenants.Tenant) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.loginSessionCookieName(tenant),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (s *Server) setSessionTokenCookie(w http.ResponseWriter, r *http.Request, tenant *tenants.Tenant, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.sessionTokenCookieName(tenant),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetSessionTokenTimeout().Seconds()),
	})
}

// cookieValue reads a cookie, returning "" when absent.
func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
