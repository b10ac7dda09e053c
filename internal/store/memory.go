package store

import (
	"context"
	"sync"

	"github.com/it-era/intake/internal/model"
)

// memoryStore keeps sessions in a mutex-guarded map. Records are copied on
// the way in and out so callers never share state with the store.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

func newMemory() *memoryStore {
	return &memoryStore{sessions: make(map[string]model.Session)}
}

func (s *memoryStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	out := sess
	return &out, nil
}

func (s *memoryStore) Put(_ context.Context, id string, sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = *sess
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}
