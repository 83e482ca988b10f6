package authorize

import (
	"slices"
	"strings"

	"github.com/jrsteele09/go-oidc-authorize/clients"
	"github.com/jrsteele09/go-oidc-authorize/sessiontokens"
)

// RequestValidator validates a raw authorization request as an ordered
// pipeline of stages, each depending only on fields validated by earlier
// stages. Ordering is a security property: until the client and redirect_uri
// have been established, failures must be fatal/local because redirecting to
// an unverified target is an open-redirect hazard. From the response_type
// stage onward, errors are delivered to the validated redirect_uri.
type RequestValidator struct {
	clients clients.Repo
}

// NewRequestValidator creates a RequestValidator backed by the client lookup.
func NewRequestValidator(clientRepo clients.Repo) *RequestValidator {
	return &RequestValidator{clients: clientRepo}
}

type validationStage func(*Request, AuthorizationParameters, *sessiontokens.SessionToken) error

// Validate runs every stage in order and returns the accumulated request
// context, or the first terminal error. sessionToken is the user's current
// authenticated session, nil when the user is not logged in.
func (v *RequestValidator) Validate(params AuthorizationParameters, sessionToken *sessiontokens.SessionToken) (*Request, error) {
	req := &Request{}
	stages := []validationStage{
		v.validateClient,
		v.validateRedirectURI,
		v.validateResponseType,
		v.validateScope,
		v.validatePrompt,
		v.validateScreen,
	}
	for _, stage := range stages {
		if err := stage(req, params, sessionToken); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Stage 1: client. No redirect target exists yet, so failures are fatal.
func (v *RequestValidator) validateClient(req *Request, params AuthorizationParameters, _ *sessiontokens.SessionToken) error {
	if params.ClientID == "" {
		return NewFatalError(ErrorCodeInvalidClient, "client_id is missing")
	}
	client, err := v.clients.Get(params.ClientID)
	if err != nil || client == nil {
		return NewFatalError(ErrorCodeInvalidClient, "Unknown client")
	}
	req.Client = client
	return nil
}

// Stage 2: redirect_uri. Still fatal on failure: a missing or unregistered
// target can never be redirected to. State becomes trustworthy to echo only
// alongside a validated redirect_uri.
func (v *RequestValidator) validateRedirectURI(req *Request, params AuthorizationParameters, _ *sessiontokens.SessionToken) error {
	if params.RedirectURI == "" {
		return NewFatalError(ErrorCodeInvalidRedirectURI, "redirect_uri is missing")
	}
	if len(req.Client.RedirectURIs) > 0 && !req.Client.HasRedirectURI(params.RedirectURI) {
		return NewFatalError(ErrorCodeInvalidRedirectURI, "redirect_uri is not registered for this client")
	}
	req.RedirectURI = params.RedirectURI
	req.State = params.State
	return nil
}

// Stage 3: response_type. From here on errors redirect to the client.
func (v *RequestValidator) validateResponseType(req *Request, params AuthorizationParameters, _ *sessiontokens.SessionToken) error {
	if params.ResponseType == "" {
		return NewRedirectError(req.RedirectURI, req.State, ErrorCodeInvalidRequest, "response_type is missing")
	}
	if params.ResponseType != ResponseTypeCode {
		return NewRedirectError(req.RedirectURI, req.State, ErrorCodeInvalidRequest, `response_type should be "code"`)
	}
	req.ResponseType = params.ResponseType
	return nil
}

// Stage 4: scope. Whitespace-split; "openid" is mandatory.
func (v *RequestValidator) validateScope(req *Request, params AuthorizationParameters, _ *sessiontokens.SessionToken) error {
	if params.Scope == "" {
		return NewRedirectError(req.RedirectURI, req.State, ErrorCodeInvalidRequest, "scope is missing")
	}
	scope := strings.Fields(params.Scope)
	if !slices.Contains(scope, "openid") {
		return NewRedirectError(req.RedirectURI, req.State, ErrorCodeInvalidScope, `scope should contain "openid"`)
	}
	req.Scope = scope
	return nil
}

// Stage 5: prompt. "none" and "consent" cannot be satisfied silently without
// an authenticated session.
func (v *RequestValidator) validatePrompt(req *Request, params AuthorizationParameters, sessionToken *sessiontokens.SessionToken) error {
	if params.Prompt != "" {
		switch params.Prompt {
		case PromptNone, PromptLogin, PromptConsent:
		default:
			return NewRedirectError(req.RedirectURI, req.State, ErrorCodeInvalidRequest, `prompt should either be "none", "login" or "consent"`)
		}
	}
	if (params.Prompt == PromptNone || params.Prompt == PromptConsent) && sessionToken == nil {
		return NewRedirectError(req.RedirectURI, req.State, ErrorCodeLoginRequired, "User is not logged in")
	}
	req.Prompt = params.Prompt
	return nil
}

// Stage 6: screen, defaulting to "login".
func (v *RequestValidator) validateScreen(req *Request, params AuthorizationParameters, _ *sessiontokens.SessionToken) error {
	screen := params.Screen
	if screen == "" {
		screen = ScreenLogin
	}
	if screen != ScreenLogin && screen != ScreenRegister {
		return NewRedirectError(req.RedirectURI, req.State, ErrorCodeInvalidRequest, `screen should either be "login" or "register"`)
	}
	req.Screen = screen
	return nil
}
