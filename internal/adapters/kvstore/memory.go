package kvstore

import (
	"context"
	"sync"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// MemoryStore keeps entries in a map. Contents are lost with the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

var _ portsrepo.KeyValueStore = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
