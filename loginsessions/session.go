package loginsessions

import (
	"time"

	"github.com/jrsteele09/go-oidc-authorize/clients"
)

// LoginSession tracks one authorization flow from the /authorize request until
// the user finishes (or abandons) login and consent. It is created when a
// validated authorization request arrives, read on every subsequent step, and
// deleted when the flow completes, is abandoned, or a silent flow fails.
type LoginSession struct {
	ID           string          // Unique session identifier (UUID)
	ResponseType string          // Always "code" once validated
	RedirectURI  string          // Validated redirect target for the originating client
	Scope        []string        // Requested scope, whitespace-split, "openid" included
	State        string          // Opaque client state, echoed back verbatim
	Prompt       string          // Requested prompt ("none", "login", "consent" or empty)
	Screen       string          // Requested first screen ("login" or "register")
	Client       *clients.Client // Originating client, loaded with the session
	CreatedAt    time.Time       // When the session was created
	ExpiresAt    time.Time       // When the session expires
}

// Expired reports whether the login session is past its expiry at the given time.
func (ls *LoginSession) Expired(now time.Time) bool {
	return !ls.ExpiresAt.IsZero() && now.After(ls.ExpiresAt)
}
