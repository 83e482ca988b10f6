package authorize_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-oidc-authorize/authorize"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
	"github.com/stretchr/testify/require"
)

func TestLoginSessionResolver(t *testing.T) {
	f := setupTestFixture(t)
	tenant := f.createTestTenant(t)
	f.createTestClient(t)

	session, token, _, err := f.service.BeginAuthorization(f.validatedRequest(t))
	require.NoError(t, err)

	requireInvalidSession := func(t *testing.T, err error) {
		t.Helper()
		var fatal *authorize.FatalError
		require.ErrorAs(t, err, &fatal)
		require.Equal(t, authorize.ErrorCodeInvalidSession, fatal.Code)
		require.Equal(t, "Invalid login session", fatal.Message)
	}

	t.Run("resolves a valid token", func(t *testing.T) {
		resolved, err := f.service.ResolveLoginSession(token, tenant)
		require.NoError(t, err)
		require.Equal(t, session.ID, resolved.ID)
		require.Equal(t, testRedirectURI, resolved.RedirectURI)
	})

	t.Run("resolving is a pure read", func(t *testing.T) {
		first, err := f.service.ResolveLoginSession(token, tenant)
		require.NoError(t, err)
		second, err := f.service.ResolveLoginSession(token, tenant)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := f.service.ResolveLoginSession("", tenant)
		requireInvalidSession(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.service.ResolveLoginSession("not-a-signed-token", tenant)
		requireInvalidSession(t, err)
	})

	t.Run("well signed token for a deleted session", func(t *testing.T) {
		orphan, err := f.signer.Sign("no-such-session", time.Now().Add(time.Hour))
		require.NoError(t, err)
		_, err = f.service.ResolveLoginSession(orphan, tenant)
		requireInvalidSession(t, err)
	})

	t.Run("session from another tenant", func(t *testing.T) {
		other := &tenants.Tenant{ID: "tenant-2", Name: "Other", Domain: "other.example.com"}
		require.NoError(t, f.tenantRepo.Upsert(other))

		_, err := f.service.ResolveLoginSession(token, other)
		requireInvalidSession(t, err)
	})
}
