package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/consulting-service/internal/domain"
	"github.com/spec-kit/consulting-service/internal/repository"
)

// SessionStore keeps refresh sessions in process memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.RefreshSession
	now      func() time.Time
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.RefreshSession), now: time.Now}
}

var _ repository.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Save(_ context.Context, session domain.RefreshSession) error {
	if !session.ExpiresAt.After(s.now()) {
		return errors.New("refresh session already expired")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.TokenHash] = session
	return nil
}

func (s *SessionStore) Consume(_ context.Context, tokenHash string) (*domain.RefreshSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.sessions, tokenHash)
	if !session.ExpiresAt.After(s.now()) {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (s *SessionStore) RevokeUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for hash, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, hash)
		}
	}
	return nil
}
