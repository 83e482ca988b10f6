package tenants

// Tenant is the isolation boundary of the system. Every client, grant, user and
// login session belongs to exactly one tenant, and a login session may only be
// used within the tenant of the client that created it.
type Tenant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"` // Host used to resolve the tenant (e.g. "acme.auth.example.com")
}
