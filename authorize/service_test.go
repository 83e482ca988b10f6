package authorize_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-oidc-authorize/authorize"
	"github.com/jrsteele09/go-oidc-authorize/clients"
	fakeclientrepo "github.com/jrsteele09/go-oidc-authorize/clients/fakerepo"
	"github.com/jrsteele09/go-oidc-authorize/grants"
	grantrepofakes "github.com/jrsteele09/go-oidc-authorize/grants/repofakes"
	interrors "github.com/jrsteele09/go-oidc-authorize/internal/errors"
	"github.com/jrsteele09/go-oidc-authorize/loginsessions"
	loginsessionrepofakes "github.com/jrsteele09/go-oidc-authorize/loginsessions/repofakes"
	"github.com/jrsteele09/go-oidc-authorize/sessiontokens"
	fakesessiontokenrepo "github.com/jrsteele09/go-oidc-authorize/sessiontokens/repofake"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
	tenantrepofakes "github.com/jrsteele09/go-oidc-authorize/tenants/repofakes"
	"github.com/jrsteele09/go-oidc-authorize/users"
	fakeuserrepo "github.com/jrsteele09/go-oidc-authorize/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testSigningKey   = "test-signing-key"
	testTenantID     = "tenant-1"
	testTenantDomain = "acme.auth.example.com"
	testClientID     = "test-client-1"
	testUserID       = "user-1"
	testUserEmail    = "john.doe@example.com"
	testUserPassword = "password123"
	testRedirectURI  = "http://localhost:3000/callback"
	testState        = "random-state-value"
)

// testFixture holds all test dependencies
type testFixture struct {
	clientRepo       clients.Repo
	tenantRepo       tenants.Repo
	grantRepo        grants.Repo
	loginSessionRepo *loginsessionrepofakes.FakeLoginSessionRepo
	sessionTokenRepo sessiontokens.Repo
	userRepo         users.Repo
	signer           *loginsessions.TokenSigner
	service          *authorize.AuthorizationService
}

// setupTestFixture creates a new test fixture with all dependencies
func setupTestFixture(t *testing.T, options ...authorize.AuthorizationServiceOption) *testFixture {
	t.Helper()

	cr := fakeclientrepo.NewFakeClientRepo()
	tr := tenantrepofakes.NewFakeTenantRepo()
	gr := grantrepofakes.NewFakeGrantRepo()
	lr := loginsessionrepofakes.NewFakeLoginSessionRepo()
	str := fakesessiontokenrepo.NewFakeSessionTokenRepo()
	ur := fakeuserrepo.NewFakeUserRepo()
	signer := loginsessions.NewTokenSigner([]byte(testSigningKey))

	repos := authorize.Repos{
		Clients:       cr,
		Tenants:       tr,
		Grants:        gr,
		LoginSessions: lr,
		SessionTokens: str,
		Users:         ur,
	}

	service, err := authorize.NewAuthorizationService(repos, signer, options...)
	require.NoError(t, err)

	return &testFixture{
		clientRepo:       cr,
		tenantRepo:       tr,
		grantRepo:        gr,
		loginSessionRepo: lr,
		sessionTokenRepo: str,
		userRepo:         ur,
		signer:           signer,
		service:          service,
	}
}

func (f *testFixture) createTestTenant(t *testing.T) *tenants.Tenant {
	t.Helper()
	tenant := &tenants.Tenant{ID: testTenantID, Name: "Acme", Domain: testTenantDomain}
	require.NoError(t, f.tenantRepo.Upsert(tenant))
	return tenant
}

func (f *testFixture) createTestClient(t *testing.T) *clients.Client {
	t.Helper()
	client := &clients.Client{
		ID:           testClientID,
		TenantID:     testTenantID,
		Name:         "Test Client",
		RedirectURIs: []string{testRedirectURI},
		Scopes:       []string{"openid", "profile", "email"},
	}
	require.NoError(t, f.clientRepo.Upsert(client))
	return client
}

func (f *testFixture) createTestUser(t *testing.T) *users.User {
	t.Helper()
	passwordHash, err := users.HashPassword(testUserPassword)
	require.NoError(t, err)
	user := &users.User{
		ID:           testUserID,
		TenantID:     testTenantID,
		Email:        testUserEmail,
		PasswordHash: passwordHash,
		DateJoined:   time.Now(),
	}
	require.NoError(t, f.userRepo.Upsert(user))
	return user
}

func (f *testFixture) validParams() authorize.AuthorizationParameters {
	return authorize.AuthorizationParameters{
		ClientID:     testClientID,
		RedirectURI:  testRedirectURI,
		ResponseType: "code",
		Scope:        "openid profile",
		State:        testState,
	}
}

func (f *testFixture) validatedRequest(t *testing.T) *authorize.Request {
	t.Helper()
	req, err := f.service.ValidateRequest(f.validParams(), nil)
	require.NoError(t, err)
	return req
}

func TestNewAuthorizationService(t *testing.T) {
	signer := loginsessions.NewTokenSigner([]byte(testSigningKey))

	fullRepos := func() authorize.Repos {
		return authorize.Repos{
			Clients:       fakeclientrepo.NewFakeClientRepo(),
			Tenants:       tenantrepofakes.NewFakeTenantRepo(),
			Grants:        grantrepofakes.NewFakeGrantRepo(),
			LoginSessions: loginsessionrepofakes.NewFakeLoginSessionRepo(),
			SessionTokens: fakesessiontokenrepo.NewFakeSessionTokenRepo(),
			Users:         fakeuserrepo.NewFakeUserRepo(),
		}
	}

	t.Run("all dependencies present", func(t *testing.T) {
		service, err := authorize.NewAuthorizationService(fullRepos(), signer)
		require.NoError(t, err)
		require.NotNil(t, service)
	})

	t.Run("missing clients repo", func(t *testing.T) {
		repos := fullRepos()
		repos.Clients = nil
		_, err := authorize.NewAuthorizationService(repos, signer)
		require.Error(t, err)
		require.Contains(t, err.Error(), "Clients repo is required")
	})

	t.Run("missing signer", func(t *testing.T) {
		_, err := authorize.NewAuthorizationService(fullRepos(), nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "signer is required")
	})
}

func TestAuthorizationService_BeginAuthorization(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := setupTestFixture(t, authorize.WithNowTime(func() time.Time { return now }))
	f.createTestClient(t)

	req := f.validatedRequest(t)
	session, token, continuation, err := f.service.BeginAuthorization(req)
	require.NoError(t, err)

	t.Run("persists the session", func(t *testing.T) {
		require.NotEmpty(t, session.ID)
		stored, err := f.loginSessionRepo.Get(session.ID)
		require.NoError(t, err)
		require.Equal(t, testRedirectURI, stored.RedirectURI)
		require.Equal(t, []string{"openid", "profile"}, stored.Scope)
		require.Equal(t, testState, stored.State)
		require.Equal(t, testClientID, stored.Client.ID)
		require.Equal(t, now, stored.CreatedAt)
		require.Equal(t, now.Add(30*time.Minute), stored.ExpiresAt)
	})

	t.Run("token round-trips through the signer", func(t *testing.T) {
		sessionID, err := f.signer.Verify(token)
		require.NoError(t, err)
		require.Equal(t, session.ID, sessionID)
	})

	t.Run("continuation carries prompt and screen", func(t *testing.T) {
		require.Equal(t, req.Prompt, continuation.Prompt)
		require.Equal(t, "login", continuation.Screen)
	})
}

func TestAuthorizationService_Login(t *testing.T) {
	f := setupTestFixture(t)
	tenant := f.createTestTenant(t)
	f.createTestUser(t)

	t.Run("valid credentials issue a session token", func(t *testing.T) {
		sessionToken, token, err := f.service.Login(tenant, testUserEmail, testUserPassword)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, testUserID, sessionToken.UserID)

		current := f.service.CurrentSessionToken(token)
		require.NotNil(t, current)
		require.Equal(t, testUserID, current.UserID)

		user, err := f.userRepo.GetByID(testUserID)
		require.NoError(t, err)
		require.NotNil(t, user.LastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := f.service.Login(tenant, testUserEmail, "wrong-password")
		require.ErrorIs(t, err, interrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := f.service.Login(tenant, "nobody@example.com", testUserPassword)
		require.ErrorIs(t, err, interrors.ErrInvalidCredentials)
	})

	t.Run("same email under another tenant", func(t *testing.T) {
		other := &tenants.Tenant{ID: "tenant-2", Name: "Other", Domain: "other.example.com"}
		require.NoError(t, f.tenantRepo.Upsert(other))
		_, _, err := f.service.Login(other, testUserEmail, testUserPassword)
		require.ErrorIs(t, err, interrors.ErrInvalidCredentials)
	})
}

func TestAuthorizationService_CurrentSessionToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := setupTestFixture(t, authorize.WithNowTime(func() time.Time { return now }))

	t.Run("empty token", func(t *testing.T) {
		require.Nil(t, f.service.CurrentSessionToken(""))
	})

	t.Run("unknown token", func(t *testing.T) {
		require.Nil(t, f.service.CurrentSessionToken("no-such-token"))
	})

	t.Run("expired token", func(t *testing.T) {
		require.NoError(t, f.sessionTokenRepo.Upsert("expired", &sessiontokens.SessionToken{
			ID:        "st-1",
			UserID:    testUserID,
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
		}))
		require.Nil(t, f.service.CurrentSessionToken("expired"))
	})

	t.Run("live token", func(t *testing.T) {
		require.NoError(t, f.sessionTokenRepo.Upsert("live", &sessiontokens.SessionToken{
			ID:        "st-2",
			UserID:    testUserID,
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}))
		current := f.service.CurrentSessionToken("live")
		require.NotNil(t, current)
		require.Equal(t, "st-2", current.ID)
	})
}

func TestAuthorizationService_SaveGrant(t *testing.T) {
	f := setupTestFixture(t)
	client := f.createTestClient(t)

	t.Run("creates a grant on first consent", func(t *testing.T) {
		require.NoError(t, f.service.SaveGrant(testUserID, client, []string{"openid", "profile"}))

		grant, err := f.grantRepo.GetByUserAndClient(testUserID, client.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"openid", "profile"}, grant.Scope)
	})

	t.Run("merges new scopes into an existing grant", func(t *testing.T) {
		require.NoError(t, f.service.SaveGrant(testUserID, client, []string{"openid", "email"}))

		grant, err := f.grantRepo.GetByUserAndClient(testUserID, client.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"openid", "profile", "email"}, grant.Scope)
	})

	t.Run("repeated consent for covered scopes keeps the grant unchanged", func(t *testing.T) {
		before, err := f.grantRepo.GetByUserAndClient(testUserID, client.ID)
		require.NoError(t, err)
		scopeBefore := append([]string(nil), before.Scope...)

		require.NoError(t, f.service.SaveGrant(testUserID, client, []string{"openid"}))

		after, err := f.grantRepo.GetByUserAndClient(testUserID, client.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, scopeBefore, after.Scope)
	})
}

func TestAuthorizationService_CompleteAuthorization(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestClient(t)

	session, _, _, err := f.service.BeginAuthorization(f.validatedRequest(t))
	require.NoError(t, err)

	t.Run("returns a code and deletes the session", func(t *testing.T) {
		code, err := f.service.CompleteAuthorization(session)
		require.NoError(t, err)
		require.NotEmpty(t, code)
		require.Equal(t, 0, f.loginSessionRepo.Len())
	})

	t.Run("completing an already-deleted session still succeeds", func(t *testing.T) {
		code, err := f.service.CompleteAuthorization(session)
		require.NoError(t, err)
		require.NotEmpty(t, code)
	})
}

func TestAuthorizationService_DiscardLoginSession(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestClient(t)

	session, _, _, err := f.service.BeginAuthorization(f.validatedRequest(t))
	require.NoError(t, err)

	require.NoError(t, f.service.DiscardLoginSession(session))
	require.Equal(t, 0, f.loginSessionRepo.Len())

	// Discarding twice is a no-op.
	require.NoError(t, f.service.DiscardLoginSession(session))
}
