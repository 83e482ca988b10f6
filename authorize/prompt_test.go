package authorize_test

import (
	"testing"

	"github.com/jrsteele09/go-oidc-authorize/authorize"
	"github.com/jrsteele09/go-oidc-authorize/sessiontokens"
	"github.com/stretchr/testify/require"
)

func TestPromptResolver(t *testing.T) {
	liveToken := &sessiontokens.SessionToken{ID: "st-1", UserID: testUserID}

	beginWithPrompt := func(t *testing.T, f *testFixture, prompt string) *sessionWithToken {
		t.Helper()
		params := f.validParams()
		params.Prompt = prompt
		req, err := f.service.ValidateRequest(params, liveToken)
		require.NoError(t, err)
		session, token, _, err := f.service.BeginAuthorization(req)
		require.NoError(t, err)
		return &sessionWithToken{session: session, token: token}
	}

	t.Run("prompt none with consent outstanding fails the silent flow", func(t *testing.T) {
		f := setupTestFixture(t)
		f.createTestClient(t)
		sw := beginWithPrompt(t, f, authorize.PromptNone)

		cleared := false
		_, err := f.service.ConsentPrompt(sw.session, true, func() {
			cleared = true
			// The session must already be gone when the cookie is cleared.
			require.Equal(t, 0, f.loginSessionRepo.Len())
		})
		require.Error(t, err)
		require.True(t, cleared)

		var redirectErr *authorize.RedirectError
		require.ErrorAs(t, err, &redirectErr)
		require.Equal(t, authorize.ErrorCodeConsentRequired, redirectErr.Code)
		require.Equal(t, "User consent is required for this scope", redirectErr.Description)
		require.Equal(t, testRedirectURI, redirectErr.RedirectURI)
		require.Equal(t, testState, redirectErr.State)
		require.Equal(t, 0, f.loginSessionRepo.Len())
	})

	t.Run("failing the silent flow twice is safe", func(t *testing.T) {
		f := setupTestFixture(t)
		f.createTestClient(t)
		sw := beginWithPrompt(t, f, authorize.PromptNone)

		_, err := f.service.ConsentPrompt(sw.session, true, nil)
		require.Error(t, err)

		// Session is already deleted; the second resolution still yields the
		// same redirect error rather than a storage failure.
		_, err = f.service.ConsentPrompt(sw.session, true, nil)
		var redirectErr *authorize.RedirectError
		require.ErrorAs(t, err, &redirectErr)
		require.Equal(t, authorize.ErrorCodeConsentRequired, redirectErr.Code)
	})

	t.Run("prompt none with consent satisfied passes through", func(t *testing.T) {
		f := setupTestFixture(t)
		f.createTestClient(t)
		sw := beginWithPrompt(t, f, authorize.PromptNone)

		prompt, err := f.service.ConsentPrompt(sw.session, false, nil)
		require.NoError(t, err)
		require.Equal(t, authorize.PromptNone, prompt)
		require.Equal(t, 1, f.loginSessionRepo.Len())
	})

	t.Run("other prompts pass through with consent outstanding", func(t *testing.T) {
		f := setupTestFixture(t)
		f.createTestClient(t)

		for _, promptValue := range []string{"", authorize.PromptLogin, authorize.PromptConsent} {
			sw := beginWithPrompt(t, f, promptValue)
			prompt, err := f.service.ConsentPrompt(sw.session, true, nil)
			require.NoError(t, err)
			require.Equal(t, promptValue, prompt)
		}
	})
}
