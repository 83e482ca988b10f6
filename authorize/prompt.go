package authorize

import (
	interrors "github.com/jrsteele09/go-oidc-authorize/internal/errors"
	"github.com/jrsteele09/go-oidc-authorize/loginsessions"
)

// PromptResolver applies the OIDC silent-flow rules to a resolved login
// session once the consent requirement is known.
type PromptResolver struct {
	sessions loginsessions.Repo
}

func NewPromptResolver(sessionRepo loginsessions.Repo) *PromptResolver {
	return &PromptResolver{sessions: sessionRepo}
}

// ResolvePrompt picks the next interaction state. When consent is required and
// the request asked for prompt=none, the silent flow has failed: the login
// session is deleted and the client-side token cleared via clearToken, both
// before the consent_required error is constructed, so a retried flow starts
// clean. Deletion of an already-deleted session is treated as done. In every
// other case the prompt value is returned unchanged (possibly empty) for the
// surrounding login/consent UI to interpret.
func (pr *PromptResolver) ResolvePrompt(session *loginsessions.LoginSession, needsConsent bool, clearToken func()) (string, error) {
	if needsConsent && session.Prompt == PromptNone {
		if err := pr.sessions.Delete(session.ID); err != nil && !interrors.Is(err, interrors.ErrSessionNotFound) {
			return "", interrors.Wrapf(err, "[PromptResolver.ResolvePrompt] delete login session")
		}
		if clearToken != nil {
			clearToken()
		}
		return "", NewRedirectError(
			session.RedirectURI,
			session.State,
			ErrorCodeConsentRequired,
			"User consent is required for this scope",
		)
	}
	return session.Prompt, nil
}
