package fingerprint

import (
	"context"
	"sync"
)

// MemoryStore keeps digests in memory. First write wins.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory fingerprint store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Lookup(ctx context.Context, digest string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[digest]
	if !ok {
		return nil, nil
	}
	cp := entry
	return &cp, nil
}

func (s *MemoryStore) Register(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.Digest]; exists {
		return nil
	}
	s.entries[entry.Digest] = entry
	return nil
}
