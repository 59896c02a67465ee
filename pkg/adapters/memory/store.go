package memory

import (
	"context"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Store implements ports.ContextStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Context
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Context),
	}
}

// Save stores a copy of value.
func (s *Store) Save(ctx context.Context, key string, value domain.Context) error {
	copied := value.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Load returns a copy so callers cannot mutate the stored context.
func (s *Store) Load(ctx context.Context, key string) (domain.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, domain.ErrContextNotFound
	}
	return value.Clone(), nil
}

// Delete removes the context.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}
