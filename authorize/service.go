package authorize

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-oidc-authorize/clients"
	"github.com/jrsteele09/go-oidc-authorize/grants"
	interrors "github.com/jrsteele09/go-oidc-authorize/internal/errors"
	"github.com/jrsteele09/go-oidc-authorize/internal/utils"
	"github.com/jrsteele09/go-oidc-authorize/loginsessions"
	"github.com/jrsteele09/go-oidc-authorize/sessiontokens"
	"github.com/jrsteele09/go-oidc-authorize/tenants"
	"github.com/jrsteele09/go-oidc-authorize/users"
)

const (
	codeGenerationLength       = 32
	defaultLoginSessionTimeout = 30 * time.Minute
	defaultSessionTokenTimeout = 24 * time.Hour
)

// Continuation directs the next UI step after a successful authorization
// request: which screen to show first and the requested prompt behaviour.
type Continuation struct {
	Prompt string // "none", "login", "consent" or empty
	Screen string // "login" or "register"
}

// Repos holds all repository dependencies for the AuthorizationService
type Repos struct {
	Clients       clients.Repo       // Repository for OAuth2 client data
	Tenants       tenants.Repo       // Repository for tenant data
	Grants        grants.Repo        // Repository for recorded consent grants
	LoginSessions loginsessions.Repo // Repository for in-flight authorization flows
	SessionTokens sessiontokens.Repo // Repository for authenticated user sessions
	Users         users.Repo         // Repository for user data
}

// AuthorizationService drives the authorization-endpoint decision flow:
// request validation, login session lifecycle, consent evaluation and the
// prompt state machine.
type AuthorizationService struct {
	repos               Repos
	validator           *RequestValidator
	resolver            *LoginSessionResolver
	consent             *ConsentEvaluator
	prompt              *PromptResolver
	signer              *loginsessions.TokenSigner
	loginSessionTimeout time.Duration
	sessionTokenTimeout time.Duration
	nowTime             func() time.Time // nowTime function (injectable for testing)
}

// AuthorizationServiceOption defines a function type to modify the AuthorizationService instance.
type AuthorizationServiceOption func(*AuthorizationService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.nowTime = nowFunc
	}
}

// WithLoginSessionTimeout overrides how long a login session stays valid.
func WithLoginSessionTimeout(d time.Duration) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.loginSessionTimeout = d
	}
}

// WithSessionTokenTimeout overrides how long an authenticated session stays valid.
func WithSessionTokenTimeout(d time.Duration) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.sessionTokenTimeout = d
	}
}

// NewAuthorizationService initializes a new AuthorizationService with required dependencies.
// Optional configuration can be provided via options (e.g., WithNowTime for testing).
func NewAuthorizationService(repos Repos, signer *loginsessions.TokenSigner, options ...AuthorizationServiceOption) (*AuthorizationService, error) {
	if repos.Clients == nil {
		return nil, errors.New("[NewAuthorizationService] Clients repo is required")
	}
	if repos.Tenants == nil {
		return nil, errors.New("[NewAuthorizationService] Tenants repo is required")
	}
	if repos.Grants == nil {
		return nil, errors.New("[NewAuthorizationService] Grants repo is required")
	}
	if repos.LoginSessions == nil {
		return nil, errors.New("[NewAuthorizationService] LoginSessions repo is required")
	}
	if repos.SessionTokens == nil {
		return nil, errors.New("[NewAuthorizationService] SessionTokens repo is required")
	}
	if repos.Users == nil {
		return nil, errors.New("[NewAuthorizationService] Users repo is required")
	}
	if signer == nil {
		return nil, errors.New("[NewAuthorizationService] signer is required")
	}

	authService := &AuthorizationService{
		repos:               repos,
		validator:           NewRequestValidator(repos.Clients),
		resolver:            NewLoginSessionResolver(repos.LoginSessions, signer),
		consent:             NewConsentEvaluator(repos.Grants),
		prompt:              NewPromptResolver(repos.LoginSessions),
		signer:              signer,
		loginSessionTimeout: defaultLoginSessionTimeout,
		sessionTokenTimeout: defaultSessionTokenTimeout,
		nowTime:             time.Now,
	}

	for _, opt := range options {
		opt(authService)
	}

	return authService, nil
}

// ValidateRequest runs the ordered validation pipeline over the raw request.
// sessionToken is the user's current authenticated session, nil when absent.
func (as *AuthorizationService) ValidateRequest(params AuthorizationParameters, sessionToken *sessiontokens.SessionToken) (*Request, error) {
	return as.validator.Validate(params, sessionToken)
}

// BeginAuthorization persists a login session for a validated request and
// mints its signed client-side token. The continuation tells the caller which
// interaction screen comes next.
func (as *AuthorizationService) BeginAuthorization(req *Request) (*loginsessions.LoginSession, string, Continuation, error) {
	now := as.nowTime()
	session := &loginsessions.LoginSession{
		ID:           uuid.New().String(),
		ResponseType: req.ResponseType,
		RedirectURI:  req.RedirectURI,
		Scope:        req.Scope,
		State:        req.State,
		Prompt:       req.Prompt,
		Screen:       req.Screen,
		Client:       req.Client,
		CreatedAt:    now,
		ExpiresAt:    now.Add(as.loginSessionTimeout),
	}

	if err := as.repos.LoginSessions.Create(session); err != nil {
		return nil, "", Continuation{}, interrors.Wrapf(err, "[BeginAuthorization] create login session")
	}

	token, err := as.signer.Sign(session.ID, session.ExpiresAt)
	if err != nil {
		return nil, "", Continuation{}, interrors.Wrapf(err, "[BeginAuthorization] sign session token")
	}

	return session, token, Continuation{Prompt: req.Prompt, Screen: req.Screen}, nil
}

// ResolveLoginSession recovers the login session behind a signed token, scoped
// to the current tenant.
func (as *AuthorizationService) ResolveLoginSession(token string, tenant *tenants.Tenant) (*loginsessions.LoginSession, error) {
	return as.resolver.Resolve(token, tenant)
}

// CurrentSessionToken returns the authenticated session behind the session
// cookie value, or nil when the cookie is absent, unknown or expired. A nil
// result means the user is not logged in.
func (as *AuthorizationService) CurrentSessionToken(token string) *sessiontokens.SessionToken {
	if token == "" {
		return nil
	}
	sessionToken, err := as.repos.SessionTokens.Get(token)
	if err != nil || sessionToken == nil {
		return nil
	}
	if sessionToken.Expired(as.nowTime()) {
		return nil
	}
	return sessionToken
}

// NeedsConsent reports whether consent must be collected for the login session.
func (as *AuthorizationService) NeedsConsent(session *loginsessions.LoginSession, sessionToken *sessiontokens.SessionToken) bool {
	return as.consent.NeedsConsent(session, sessionToken)
}

// ConsentPrompt applies the silent-flow rules; see PromptResolver.ResolvePrompt.
func (as *AuthorizationService) ConsentPrompt(session *loginsessions.LoginSession, needsConsent bool, clearToken func()) (string, error) {
	return as.prompt.ResolvePrompt(session, needsConsent, clearToken)
}

// ValidateConsentAction validates the submitted consent decision.
func (as *AuthorizationService) ValidateConsentAction(action string, session *loginsessions.LoginSession, tenant *tenants.Tenant) (string, error) {
	return ValidateConsentAction(action, session, tenant)
}

// Login checks the credentials against the tenant's user store and, on
// success, issues an authenticated session token. Returns the opaque cookie
// value alongside the stored record.
func (as *AuthorizationService) Login(tenant *tenants.Tenant, email, password string) (*sessiontokens.SessionToken, string, error) {
	user, err := as.repos.Users.GetByEmail(tenant.ID, email)
	if err != nil || user == nil {
		return nil, "", interrors.ErrInvalidCredentials
	}
	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", interrors.ErrInvalidCredentials
	}

	now := as.nowTime()
	sessionToken := &sessiontokens.SessionToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(as.sessionTokenTimeout),
	}
	token := generateRandomString(codeGenerationLength)
	if err := as.repos.SessionTokens.Upsert(token, sessionToken); err != nil {
		return nil, "", interrors.Wrapf(err, "[Login] store session token")
	}

	user.LastLogin = utils.Ptr(now)
	if err := as.repos.Users.Upsert(user); err != nil {
		return nil, "", interrors.Wrapf(err, "[Login] update last login")
	}
	return sessionToken, token, nil
}

// SaveGrant records the user's consent for the client and scope, extending an
// existing grant rather than replacing it so previously granted scopes keep
// satisfying future requests.
func (as *AuthorizationService) SaveGrant(userID string, client *clients.Client, scope []string) error {
	now := as.nowTime()
	grant, err := as.repos.Grants.GetByUserAndClient(userID, client.ID)
	if err != nil || grant == nil {
		grant = &grants.Grant{
			UserID:    userID,
			ClientID:  client.ID,
			Scope:     append([]string(nil), scope...),
			GrantedAt: now,
			UpdatedAt: now,
		}
		return as.repos.Grants.Upsert(grant)
	}

	if grant.MergeScope(scope) {
		grant.UpdatedAt = now
		return as.repos.Grants.Upsert(grant)
	}
	return nil
}

// CompleteAuthorization ends a successful flow: it generates the opaque
// authorization code for the success redirect and deletes the login session.
// Deleting an already-deleted session is treated as done. The code exchange
// itself happens outside this engine.
func (as *AuthorizationService) CompleteAuthorization(session *loginsessions.LoginSession) (string, error) {
	code := generateRandomString(codeGenerationLength)
	if err := as.repos.LoginSessions.Delete(session.ID); err != nil && !interrors.Is(err, interrors.ErrSessionNotFound) {
		return "", interrors.Wrapf(err, "[CompleteAuthorization] delete login session")
	}
	return code, nil
}

// DiscardLoginSession removes an abandoned login session. Absent sessions are
// treated as already discarded.
func (as *AuthorizationService) DiscardLoginSession(session *loginsessions.LoginSession) error {
	if err := as.repos.LoginSessions.Delete(session.ID); err != nil && !interrors.Is(err, interrors.ErrSessionNotFound) {
		return interrors.Wrapf(err, "[DiscardLoginSession] delete login session")
	}
	return nil
}

// generateRandomString creates a random base64url string of n bytes of entropy.
func generateRandomString(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
