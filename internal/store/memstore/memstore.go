// Package memstore is an in-process Storage. Nothing survives the process.
package memstore

import (
	"sync"

	"github.com/Makepad-fr/localtodo/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	items    map[string]string
	size     int
	quota    int
	disabled bool
}

// New returns an empty store. quota <= 0 means unlimited.
func New(quota int) *Store {
	return &Store{items: make(map[string]string), quota: quota}
}

// SetDisabled makes every operation fail with store.ErrUnavailable, like a
// browser with storage turned off.
func (s *Store) SetDisabled(disabled bool) {
	s.mu.Lock()
	s.disabled = disabled
	s.mu.Unlock()
}

func (s *Store) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.disabled {
		return "", false, store.Unavailable("get", store.ErrUnavailable)
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return store.Unavailable("set", store.ErrUnavailable)
	}
	old := 0
	if v, ok := s.items[key]; ok {
		old = store.EntrySize(key, v)
	}
	if err := store.CheckQuota(s.quota, s.size, old, key, value); err != nil {
		return store.Unavailable("set", err)
	}
	s.items[key] = value
	s.size += store.EntrySize(key, value) - old
	return nil
}

func (s *Store) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return store.Unavailable("remove", store.ErrUnavailable)
	}
	if v, ok := s.items[key]; ok {
		s.size -= store.EntrySize(key, v)
		delete(s.items, key)
	}
	return nil
}

func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return store.Unavailable("reset", store.ErrUnavailable)
	}
	s.items = make(map[string]string)
	s.size = 0
	return nil
}
