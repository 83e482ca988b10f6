package authorize

import (
	"github.com/jrsteele09/go-oidc-authorize/clients"
)

// ResponseTypeCode is the only supported response type (authorization-code flow).
const ResponseTypeCode = "code"

// Prompt values accepted on the authorization request.
const (
	PromptNone    = "none"
	PromptLogin   = "login"
	PromptConsent = "consent"
)

// Screen values selecting the first interaction page.
const (
	ScreenLogin    = "login"
	ScreenRegister = "register"
)

// AuthorizationParameters holds the raw query parameters of an authorization
// request, before any validation. Empty string means the parameter was absent.
type AuthorizationParameters struct {
	ClientID     string // client_id
	RedirectURI  string // redirect_uri
	ResponseType string // response_type, must be "code"
	Scope        string // scope, whitespace-separated, must contain "openid"
	State        string // state, opaque, echoed back and never interpreted
	Prompt       string // prompt, one of "none", "login", "consent" or absent
	Screen       string // screen, "login" or "register", defaults to "login"
}

// Request is the accumulated, validated request context. Each validation stage
// fills in the fields it is responsible for; later stages rely on earlier
// fields being trustworthy (in particular RedirectURI and State, which every
// redirect-carrying error is built from).
type Request struct {
	Client       *clients.Client
	RedirectURI  string
	State        string
	ResponseType string
	Scope        []string
	Prompt       string
	Screen       string
}
