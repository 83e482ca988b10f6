package loginsessionrepofakes

import (
	"sync"

	interrors "github.com/jrsteele09/go-oidc-authorize/internal/errors"
	"github.com/jrsteele09/go-oidc-authorize/loginsessions"
)

var _ loginsessions.Repo = (*FakeLoginSessionRepo)(nil)

type FakeLoginSessionRepo struct {
	sessions map[string]*loginsessions.LoginSession
	lock     sync.RWMutex
}

func NewFakeLoginSessionRepo() *FakeLoginSessionRepo {
	return &FakeLoginSessionRepo{
		sessions: make(map[string]*loginsessions.LoginSession),
	}
}

func (lr *FakeLoginSessionRepo) Create(session *loginsessions.LoginSession) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	lr.sessions[session.ID] = session
	return nil
}

func (lr *FakeLoginSessionRepo) Get(sessionID string) (*loginsessions.LoginSession, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()
	session, ok := lr.sessions[sessionID]
	if !ok {
		return nil, interrors.ErrSessionNotFound
	}
	return session, nil
}

func (lr *FakeLoginSessionRepo) Delete(sessionID string) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	if _, ok := lr.sessions[sessionID]; !ok {
		return interrors.ErrSessionNotFound
	}
	delete(lr.sessions, sessionID)
	return nil
}

// Len reports the number of stored sessions. Test helper.
func (lr *FakeLoginSessionRepo) Len() int {
	lr.lock.RLock()
	defer lr.lock.RUnlock()
	return len(lr.sessions)
}
