package client

import (
	"sync"

	"github.com/sahilmate/multi-agent-form-processing-system/model"
)

// Session is the holder shared by an auth context and the calls made on its
// behalf: the persisted token plus the in-memory user. Concurrent writers are
// serialized and the last write wins.
type Session struct {
	mu    sync.RWMutex
	scope Scope
	store TokenStore
	user  *model.User
}

func NewSession(scope Scope, store TokenStore) *Session {
	return &Session{scope: scope, store: store}
}

func (s *Session) Scope() Scope {
	return s.scope
}

// Token reads the persisted token. Callers read it per request so a logout
// elsewhere takes effect on the next call.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Load()
}

func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(token)
}

// User returns a copy of the current user, or nil.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) SetUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	copied := *u
	s.user = &copied
}

// Clear drops both token and user. The user is dropped even if the store fails.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return s.store.Clear()
}
