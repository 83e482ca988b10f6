package clients

// Client is an OAuth2 client application. A client belongs to exactly one
// tenant and declares the redirect URIs it may receive authorization
// responses on.
type Client struct {
	ID           string   `json:"id"`
	TenantID     string   `json:"tenantId"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	RedirectURIs []string `json:"redirectURIs"`
	Scopes       []string `json:"scopes"` // Allowed scopes for this client
}

// HasRedirectURI checks if the URI is registered for this client.
// An exact match is required to prevent open redirects.
func (c *Client) HasRedirectURI(uri string) bool {
	for _, registered := range c.RedirectURIs {
		if uri == registered {
			return true
		}
	}
	return false
}

// HasScope checks if the client has permission for a specific scope
func (c *Client) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
