package grants

type Repo interface {
	Upsert(grantData *Grant) error
	Delete(grantID string) error
	GetByUserAndClient(userID, clientID string) (*Grant, error)
	ListByUser(userID string) ([]*Grant, error)
}
