// Package store defines the key/value medium todos are persisted to.
//
// A Storage plays the role of a browser's localStorage for one origin: string
// keys, string values, whole-value overwrite, last writer wins.
package store

import (
	"errors"
	"fmt"
)

// DefaultQuota mirrors the 5 MiB most browsers grant an origin.
const DefaultQuota = 5 << 20

var (
	// ErrUnavailable means the medium refused a read or write (disabled,
	// unreadable, read-only).
	ErrUnavailable = errors.New("storage unavailable")

	// ErrQuotaExceeded means a write would grow the store past its quota.
	// It wraps ErrUnavailable.
	ErrQuotaExceeded = fmt.Errorf("%w: quota exceeded", ErrUnavailable)

	// ErrCorrupt means the medium itself could not be decoded, so no key
	// can be read. It wraps ErrUnavailable.
	ErrCorrupt = fmt.Errorf("%w: corrupt contents", ErrUnavailable)
)

// Storage is a string key/value store. Implementations serialize access.
type Storage interface {
	// GetItem returns ok=false when key is absent.
	GetItem(key string) (value string, ok bool, err error)
	// SetItem overwrites key with value.
	SetItem(key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(key string) error
}

// Resetter is implemented by backends that can drop everything they hold,
// including contents too damaged to read item by item.
type Resetter interface {
	Reset() error
}

// Reset empties s. Backends without a Reset fail with ErrUnavailable.
func Reset(s Storage) error {
	r, ok := s.(Resetter)
	if !ok {
		return fmt.Errorf("reset: %w: %T cannot be reset", ErrUnavailable, s)
	}
	return r.Reset()
}

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// EntrySize is what one entry counts against the quota.
func EntrySize(key, value string) int { return len(key) + len(value) }

// CheckQuota reports ErrQuotaExceeded if replacing key's current entry
// (oldSize bytes, 0 if absent) with value pushes total past quota.
// quota <= 0 disables the check.
func CheckQuota(quota, total, oldSize int, key, value string) error {
	if quota <= 0 {
		return nil
	}
	if next := total - oldSize + EntrySize(key, value); next > quota {
		return fmt.Errorf("%w: %d bytes over a %d byte limit", ErrQuotaExceeded, next-quota, quota)
	}
	return nil
}
