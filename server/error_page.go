package server

import (
	"net/http"

	"github.com/jrsteele09/go-oidc-authorize/authorize"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
	"github.com/rs/zerolog/log"
)

// ErrorPageData contains data for rendering the local error page
type ErrorPageData struct {
	TenantName string
	Code       string
	Message    string
}

// renderFatalError renders a fatal/local error directly to the user. Used
// whenever no trustworthy redirect target exists.
func (s *Server) renderFatalError(w http.ResponseWriter, tenant *tenants.Tenant, fatal *authorize.FatalError) {
	errorTmpl, err := ParseTemplate("error.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse error template")
		http.Error(w, fatal.Message, http.StatusBadRequest)
		return
	}

	tenantName := ""
	if tenant != nil {
		tenantName = tenant.Name
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusBadRequest)
	if err := errorTmpl.Execute(w, ErrorPageData{
		TenantName: tenantName,
		Code:       string(fatal.Code),
		Message:    fatal.Message,
	}); err != nil {
		log.Err(err).Msg("Failed to render error template")
	}
}

const (
	contentTypeHTML = "text/html; charset=utf-8"
)
