package fakesessiontokenrepo

import (
	"errors"
	"sync"

	"github.com/jrsteele09/go-oidc-authorize/sessiontokens"
)

var _ sessiontokens.Repo = (*FakeSessionTokenRepo)(nil)

type FakeSessionTokenRepo struct {
	tokens map[string]*sessiontokens.SessionToken
	lock   sync.RWMutex
}

func NewFakeSessionTokenRepo() sessiontokens.Repo {
	return &FakeSessionTokenRepo{
		tokens: make(map[string]*sessiontokens.SessionToken),
	}
}

func (str *FakeSessionTokenRepo) Upsert(token string, data *sessiontokens.SessionToken) error {
	str.lock.Lock()
	defer str.lock.Unlock()
	str.tokens[token] = data
	return nil
}

func (str *FakeSessionTokenRepo) Get(token string) (*sessiontokens.SessionToken, error) {
	str.lock.RLock()
	defer str.lock.RUnlock()
	data, ok := str.tokens[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (str *FakeSessionTokenRepo) Delete(token string) error {
	str.lock.Lock()
	defer str.lock.Unlock()
	delete(str.tokens, token)
	return nil
}
