// Package sqlitestore keeps the key/value store in a SQLite database.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/localtodo/internal/store"
)

const DataFileName = "localstorage.db"

// Store implements store.Storage using SQLite.
type Store struct {
	db    *sql.DB
	mu    sync.RWMutex
	quota int
}

// Open opens (or creates) dir/localstorage.db.
func Open(dir string, quota int) (*Store, error) {
	return OpenPath(filepath.Join(dir, DataFileName), quota)
}

// OpenPath opens the database at dbPath. Use ":memory:" for a throwaway store.
func OpenPath(dbPath string, quota int) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, store.Unavailable("open sqlite database", err)
	}
	// :memory: databases are per-connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, quota: quota}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, store.Unavailable("initialize schema", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, store.Unavailable("get", err)
	}
	return v, true, nil
}

func (s *Store) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return store.Unavailable("set", err)
	}
	defer func() { _ = tx.Rollback() }()

	if s.quota > 0 {
		var total, old int
		if err := tx.QueryRow("SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0) FROM kv").Scan(&total); err != nil {
			return store.Unavailable("set", fmt.Errorf("measure: %w", err))
		}
		if err := tx.QueryRow("SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0) FROM kv WHERE key = ?", key).Scan(&old); err != nil {
			return store.Unavailable("set", fmt.Errorf("measure: %w", err))
		}
		if err := store.CheckQuota(s.quota, total, old, key, value); err != nil {
			return store.Unavailable("set", err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	); err != nil {
		return store.Unavailable("set", err)
	}
	if err := tx.Commit(); err != nil {
		return store.Unavailable("set", err)
	}
	return nil
}

func (s *Store) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return store.Unavailable("remove", err)
	}
	return nil
}

// Reset deletes every row.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM kv"); err != nil {
		return store.Unavailable("reset", err)
	}
	return nil
}
