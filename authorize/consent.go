package authorize

import (
	"github.com/jrsteele09/go-oidc-authorize/grants"
	"github.com/jrsteele09/go-oidc-authorize/loginsessions"
	"github.com/jrsteele09/go-oidc-authorize/sessiontokens"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
)

// ConsentEvaluator decides whether consent must be (re)collected for a login
// session, by comparing the requested scope against the user's stored grant.
type ConsentEvaluator struct {
	grants grants.Repo
}

func NewConsentEvaluator(grantRepo grants.Repo) *ConsentEvaluator {
	return &ConsentEvaluator{grants: grantRepo}
}

// NeedsConsent reports whether the consent screen must be shown. With no
// authenticated session there is no identity to check grants against, so
// consent is trivially required. Otherwise the stored grant must cover the
// requested scope (set inclusion: a superset grant satisfies the request).
// The single grant lookup is the only collaborator read.
func (ce *ConsentEvaluator) NeedsConsent(session *loginsessions.LoginSession, sessionToken *sessiontokens.SessionToken) bool {
	if sessionToken == nil {
		return true
	}

	grant, err := ce.grants.GetByUserAndClient(sessionToken.UserID, session.Client.ID)
	if err != nil || grant == nil {
		return true
	}

	return !grant.Covers(session.Scope)
}

// ValidateConsentAction validates the end-user's decision submitted from the
// consent screen. "allow" and "deny" pass through unchanged; anything else,
// including an absent value, yields a ConsentPageError carrying the session's
// client, scope and tenant so the screen can be re-rendered.
func ValidateConsentAction(action string, session *loginsessions.LoginSession, tenant *tenants.Tenant) (string, error) {
	if action != ConsentActionAllow && action != ConsentActionDeny {
		return "", NewConsentPageError(
			ErrorCodeInvalidAction,
			`action should either be "allow" or "deny"`,
			session.Client,
			session.Scope,
			tenant,
		)
	}
	return action, nil
}

// Consent decision values.
const (
	ConsentActionAllow = "allow"
	ConsentActionDeny  = "deny"
)
