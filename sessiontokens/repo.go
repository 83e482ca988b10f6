package sessiontokens

type Repo interface {
	// Upsert creates or updates a session token record
	Upsert(token string, data *SessionToken) error

	// Get retrieves a session token by its opaque cookie value
	Get(token string) (*SessionToken, error)

	// Delete removes a session token by its opaque cookie value
	Delete(token string) error
}
