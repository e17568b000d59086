package storage

import (
	"encoding/json"
	"fmt"
	"sync"
)

// memStore implements Store in memory. Used in tests and for
// ephemeral sessions that should leave no state behind.
type memStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() Store {
	return &memStore{values: make(map[string][]byte)}
}

func (s *memStore) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	data, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode state for %s: %w", key, err)
	}
	return true, nil
}

func (s *memStore) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode state for %s: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = data
	s.mu.Unlock()
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}
