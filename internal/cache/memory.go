package cache

import (
	"context"
	"slices"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps blobs in process memory. It is used when no Redis URL is
// configured and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) GetItem(_ context.Context, name string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[name]
	return slices.Clone(value), ok, nil
}

func (s *MemoryStore) SetItem(_ context.Context, name string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[name] = slices.Clone(value)
	return nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, name)
	return nil
}
