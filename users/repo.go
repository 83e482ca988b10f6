package users

type Repo interface {
	Upsert(userData *User) error
	Delete(userID string) error
	GetByID(userID string) (*User, error)
	GetByEmail(tenantID, email string) (*User, error)
}
