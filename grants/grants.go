package grants

import "time"

// Grant records that a user has consented to a (client, scope-set) pair. It
// persists across login sessions so a returning user is not asked to consent
// again for scopes already granted.
type Grant struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ClientID  string    `json:"clientId"`
	Scope     []string  `json:"scope"`
	GrantedAt time.Time `json:"grantedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Covers reports whether the grant satisfies the requested scope. The check is
// set inclusion, not equality: a grant covering a superset of the requested
// scope satisfies the request.
func (g *Grant) Covers(requested []string) bool {
	granted := make(map[string]struct{}, len(g.Scope))
	for _, s := range g.Scope {
		granted[s] = struct{}{}
	}
	for _, s := range requested {
		if _, ok := granted[s]; !ok {
			return false
		}
	}
	return true
}

// MergeScope extends the grant's scope with any requested scopes not already
// granted. Returns true if the scope changed.
func (g *Grant) MergeScope(requested []string) bool {
	changed := false
	for _, s := range requested {
		found := false
		for _, existing := range g.Scope {
			if existing == s {
				found = true
				break
			}
		}
		if !found {
			g.Scope = append(g.Scope, s)
			changed = true
		}
	}
	return changed
}
