package authorize

import (
	"fmt"

	"github.com/jrsteele09/go-oidc-authorize/clients"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
)

// ErrorCode identifies a protocol or flow error.
type ErrorCode string

const (
	ErrorCodeInvalidRequest     ErrorCode = "invalid_request"
	ErrorCodeInvalidScope       ErrorCode = "invalid_scope"
	ErrorCodeInvalidClient      ErrorCode = "invalid_client"
	ErrorCodeInvalidRedirectURI ErrorCode = "invalid_redirect_uri"
	ErrorCodeLoginRequired      ErrorCode = "login_required"
	ErrorCodeConsentRequired    ErrorCode = "consent_required"
	ErrorCodeAccessDenied       ErrorCode = "access_denied"

	// Local codes, rendered to the user directly and never sent to a
	// client redirect target.
	ErrorCodeInvalidSession ErrorCode = "invalid_session"
	ErrorCodeInvalidAction  ErrorCode = "invalid_action"
)

// FatalError is a failure with no trustworthy redirect target: the response is
// rendered locally to the end user and the request terminates. Raised for a
// missing/unknown client, a missing or unregistered redirect_uri, and an
// invalid login session.
type FatalError struct {
	Code    ErrorCode
	Message string
}

func NewFatalError(code ErrorCode, message string) *FatalError {
	return &FatalError{Code: code, Message: message}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RedirectError is a protocol error delivered to the client's redirect_uri.
// It must only be constructed once the redirect URI has been validated; State
// is echoed verbatim, or omitted from the redirect when empty. The code flow
// always delivers these as query parameters.
type RedirectError struct {
	RedirectURI string
	State       string
	Code        ErrorCode
	Description string
}

func NewRedirectError(redirectURI, state string, code ErrorCode, description string) *RedirectError {
	return &RedirectError{
		RedirectURI: redirectURI,
		State:       state,
		Code:        code,
		Description: description,
	}
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// ConsentPageError signals an invalid consent submission. It carries the
// client, scope and tenant so the consent screen can be re-rendered with an
// error banner instead of failing the whole flow.
type ConsentPageError struct {
	Code    ErrorCode
	Message string
	Client  *clients.Client
	Scope   []string
	Tenant  *tenants.Tenant
}

func NewConsentPageError(code ErrorCode, message string, client *clients.Client, scope []string, tenant *tenants.Tenant) *ConsentPageError {
	return &ConsentPageError{
		Code:    code,
		Message: message,
		Client:  client,
		Scope:   scope,
		Tenant:  tenant,
	}
}

func (e *ConsentPageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
