package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Makepad-fr/localtodo/internal/store"
)

// JSON-backed storage. One file holds a flat object of key -> string value,
// human-readable and portable. The file is re-read on every call so edits
// made by hand between commands are picked up.

const DataFileName = "localstorage.json"

type Store struct {
	mu    sync.Mutex
	path  string
	quota int
}

// New stores data in dir/localstorage.json. The directory is created on first
// write. quota <= 0 means unlimited.
func New(dir string, quota int) *Store {
	return &Store{path: filepath.Join(dir, DataFileName), quota: quota}
}

// Path is the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.read()
	if err != nil {
		return "", false, store.Unavailable("get", err)
	}
	v, ok := items[key]
	return v, ok, nil
}

func (s *Store) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.read()
	if err != nil {
		return store.Unavailable("set", err)
	}
	total, old := 0, 0
	for k, v := range items {
		total += store.EntrySize(k, v)
	}
	if v, ok := items[key]; ok {
		old = store.EntrySize(key, v)
	}
	if err := store.CheckQuota(s.quota, total, old, key, value); err != nil {
		return store.Unavailable("set", err)
	}
	items[key] = value
	if err := s.write(items); err != nil {
		return store.Unavailable("set", err)
	}
	return nil
}

func (s *Store) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.read()
	if err != nil {
		return store.Unavailable("remove", err)
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	if err := s.write(items); err != nil {
		return store.Unavailable("remove", err)
	}
	return nil
}

// Reset deletes the backing file, whatever it contains.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return store.Unavailable("reset", err)
	}
	return nil
}

func (s *Store) read() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	items := map[string]string{}
	if len(b) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal %s: %w", store.ErrCorrupt, s.path, err)
	}
	return items, nil
}

// write replaces the file atomically: temp file in the same dir, then rename.
func (s *Store) write(items map[string]string) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".localstorage-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
