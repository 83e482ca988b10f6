package sessiontokens

import "time"

// SessionToken is the server-side record behind the user's authenticated
// session cookie. It is evidence that a user is currently authenticated,
// independent of any specific client or authorization flow.
type SessionToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session token is past its expiry at the given time.
func (st *SessionToken) Expired(now time.Time) bool {
	return !st.ExpiresAt.IsZero() && now.After(st.ExpiresAt)
}
