package fakeuserrepo

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-oidc-authorize/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users map[string]*users.User
	lock  sync.RWMutex
}

func NewFakeUserRepo() users.Repo {
	return &FakeUserRepo{
		users: make(map[string]*users.User),
	}
}

func (ur *FakeUserRepo) Upsert(userData *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()
	if userData.ID == "" {
		userData.ID = uuid.New().String()
	}
	ur.users[userData.ID] = userData
	return nil
}

func (ur *FakeUserRepo) Delete(userID string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()
	delete(ur.users, userID)
	return nil
}

func (ur *FakeUserRepo) GetByID(userID string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	user, ok := ur.users[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

func (ur *FakeUserRepo) GetByEmail(tenantID, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	for _, user := range ur.users {
		if user.TenantID == tenantID && user.Email == email {
			return user, nil
		}
	}
	return nil, errors.New("not found")
}
