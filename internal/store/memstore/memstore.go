// Package memstore is an in-memory store.Backend for tests and throwaway
// sessions. Nothing survives the process.
package memstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Makepad-fr/tada/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func New() *Store {
	return &Store{values: map[string][]byte{}}
}

func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return clone(v), nil
}

func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	s.values[key] = clone(value)
	s.mu.Unlock()
	return nil
}

func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	s.values = map[string][]byte{}
	s.mu.Unlock()
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
