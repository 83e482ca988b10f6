package grantrepofakes

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-oidc-authorize/grants"
)

var _ grants.Repo = (*FakeGrantRepo)(nil)

type FakeGrantRepo struct {
	grants map[string]*grants.Grant
	lock   sync.RWMutex
}

func NewFakeGrantRepo() grants.Repo {
	return &FakeGrantRepo{
		grants: make(map[string]*grants.Grant),
	}
}

func (gr *FakeGrantRepo) Upsert(grantData *grants.Grant) error {
	gr.lock.Lock()
	defer gr.lock.Unlock()
	if grantData.ID == "" {
		grantData.ID = uuid.New().String()
	}
	gr.grants[grantData.ID] = grantData
	return nil
}

func (gr *FakeGrantRepo) Delete(grantID string) error {
	gr.lock.Lock()
	defer gr.lock.Unlock()
	delete(gr.grants, grantID)
	return nil
}

func (gr *FakeGrantRepo) GetByUserAndClient(userID, clientID string) (*grants.Grant, error) {
	gr.lock.RLock()
	defer gr.lock.RUnlock()
	for _, grant := range gr.grants {
		if grant.UserID == userID && grant.ClientID == clientID {
			return grant, nil
		}
	}
	return nil, errors.New("not found")
}

func (gr *FakeGrantRepo) ListByUser(userID string) ([]*grants.Grant, error) {
	gr.lock.RLock()
	defer gr.lock.RUnlock()

	all := make([]*grants.Grant, 0)
	for _, grant := range gr.grants {
		if grant.UserID == userID {
			all = append(all, grant)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}
