package fakeclientrepo

import (
	"errors"
	"sort"
	"sync"

	"github.com/jrsteele09/go-oidc-authorize/clients"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

type FakeClientRepo struct {
	clients map[string]*clients.Client
	lock    sync.RWMutex
}

func NewFakeClientRepo() clients.Repo {
	return &FakeClientRepo{
		clients: make(map[string]*clients.Client),
	}
}

func (cr *FakeClientRepo) Upsert(clientData *clients.Client) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	if clientData.ID == "" {
		return errors.New("client ID is required")
	}
	cr.clients[clientData.ID] = clientData
	return nil
}

func (cr *FakeClientRepo) Delete(clientID string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	delete(cr.clients, clientID)
	return nil
}

func (cr *FakeClientRepo) Get(clientID string) (*clients.Client, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	client, ok := cr.clients[clientID]
	if !ok {
		return nil, errors.New("not found")
	}
	return client, nil
}

func (cr *FakeClientRepo) List(tenantID string, offset, limit int) ([]*clients.Client, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	all := make([]*clients.Client, 0)
	for _, c := range cr.clients {
		if tenantID == "" || c.TenantID == tenantID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []*clients.Client{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
