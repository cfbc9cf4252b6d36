package session

import (
	"context"
	"sync"

	"github.com/mcc-event-hub/web-gateway/internal/models"
)

// MemoryStore is the default backend for local development and tests. No
// expiry: sessions live until cleared or the process exits.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.Session)}
}

func (s *MemoryStore) Set(_ context.Context, sid, token, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = models.Session{Token: token, Email: email}
	return nil
}

func (s *MemoryStore) Token(_ context.Context, sid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sid].Token, nil
}

func (s *MemoryStore) Email(_ context.Context, sid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sid].Email, nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}
