package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-oidc-authorize/authorize"
	"github.com/rs/zerolog/log"
)

// redirectWithError sends a protocol error back to the client's validated
// redirect URI. The code flow always delivers parameters in the query string;
// state is echoed verbatim and omitted when it was not supplied.
func (s *Server) redirectWithError(w http.ResponseWriter, r *http.Request, redirectErr *authorize.RedirectError) {
	target, err := url.Parse(redirectErr.RedirectURI)
	if err != nil {
		log.Err(err).Str("redirect_uri", redirectErr.RedirectURI).Msg("failed to parse validated redirect URI")
		http.Error(w, "Invalid redirect URI", http.StatusInternalServerError)
		return
	}

	query := target.Query()
	query.Set("error", string(redirectErr.Code))
	query.Set("error_description", redirectErr.Description)
	if redirectErr.State != "" {
		query.Set("state", redirectErr.State)
	}
	target.RawQuery = query.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}

// redirectWithCode sends the success response carrying the authorization code.
func (s *Server) redirectWithCode(w http.ResponseWriter, r *http.Request, redirectURI, code, state string) {
	target, err := url.Parse(redirectURI)
	if err != nil {
		log.Err(err).Str("redirect_uri", redirectURI).Msg("failed to parse validated redirect URI")
		http.Error(w, "Invalid redirect URI", http.StatusInternalServerError)
		return
	}

	query := target.Query()
	query.Set("code", code)
	if state != "" {
		query.Set("state", state)
	}
	target.RawQuery = query.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}
