package loginsessions

// Repo defines the interface for login session storage operations.
// Sessions are temporary flow state and should be cleaned up regularly.
type Repo interface {
	// Create stores a new login session
	Create(session *LoginSession) error

	// Get retrieves a login session by ID. Returns ErrSessionNotFound when absent.
	Get(sessionID string) (*LoginSession, error)

	// Delete removes a login session by ID. Deleting an absent session returns
	// ErrSessionNotFound; callers driving the flow treat that as already done.
	Delete(sessionID string) error
}
