package authorize

import (
	"github.com/jrsteele09/go-oidc-authorize/loginsessions"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
)

// LoginSessionResolver recovers the login session referenced by the signed
// token read from the client-side cookie. Every failure here is fatal/local:
// an absent, forged or cross-tenant token gives no trustworthy redirect
// target, so nothing may be sent back to a client callback.
type LoginSessionResolver struct {
	sessions loginsessions.Repo
	signer   *loginsessions.TokenSigner
}

func NewLoginSessionResolver(sessionRepo loginsessions.Repo, signer *loginsessions.TokenSigner) *LoginSessionResolver {
	return &LoginSessionResolver{sessions: sessionRepo, signer: signer}
}

// Resolve returns the login session for the token within the given tenant.
// A session created by a client of another tenant is rejected the same way as
// an unknown token. Resolving is a pure read: calling it twice with the same
// valid token yields the same session content.
func (r *LoginSessionResolver) Resolve(token string, tenant *tenants.Tenant) (*loginsessions.LoginSession, error) {
	invalidSession := NewFatalError(ErrorCodeInvalidSession, "Invalid login session")

	if token == "" {
		return nil, invalidSession
	}

	sessionID, err := r.signer.Verify(token)
	if err != nil {
		return nil, invalidSession
	}

	session, err := r.sessions.Get(sessionID)
	if err != nil || session == nil {
		return nil, invalidSession
	}

	if session.Client == nil || session.Client.TenantID != tenant.ID {
		return nil, invalidSession
	}

	return session, nil
}
