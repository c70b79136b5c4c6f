package settingsstore

import (
	"context"
	"sync"

	"github.com/gyiad-org/membership-api/internal/ports/out/settingsstore"
)

// Store is an in-memory implementation of settingsstore.Store.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewStore() *Store {
	return &Store{m: make(map[string]string)}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return "", settingsstore.ErrNotFound
	}
	return v, nil
}

func (s *Store) Upsert(ctx context.Context, key, value string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
