// Package storetest holds behaviour checks shared by every store.Storage backend.
package storetest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/localtodo/internal/store"
)

// Factory builds a fresh, empty backend with the given quota.
type Factory func(t *testing.T, quota int) store.Storage

// Run exercises the Storage contract against backends built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("absent key", func(t *testing.T) {
		s := newStore(t, 0)
		v, ok, err := s.GetItem("todos")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t, 0)
		require.NoError(t, s.SetItem("todos", `[{"id":1}]`))
		v, ok, err := s.GetItem("todos")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":1}]`, v)
	})

	t.Run("keys are case sensitive", func(t *testing.T) {
		s := newStore(t, 0)
		require.NoError(t, s.SetItem("todos", "a"))
		_, ok, err := s.GetItem("Todos")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t, 0)
		require.NoError(t, s.SetItem("todos", "first"))
		require.NoError(t, s.SetItem("todos", "second"))
		v, _, err := s.GetItem("todos")
		require.NoError(t, err)
		assert.Equal(t, "second", v)
	})

	t.Run("empty value is present", func(t *testing.T) {
		s := newStore(t, 0)
		require.NoError(t, s.SetItem("todos", ""))
		_, ok, err := s.GetItem("todos")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("remove", func(t *testing.T) {
		s := newStore(t, 0)
		require.NoError(t, s.SetItem("todos", "x"))
		require.NoError(t, s.RemoveItem("todos"))
		_, ok, err := s.GetItem("todos")
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, s.RemoveItem("todos"), "removing an absent key")
	})

	t.Run("quota", func(t *testing.T) {
		s := newStore(t, 20)
		require.NoError(t, s.SetItem("a", "123"))

		err := s.SetItem("b", strings.Repeat("x", 20))
		require.ErrorIs(t, err, store.ErrQuotaExceeded)
		require.ErrorIs(t, err, store.ErrUnavailable)
		_, ok, err := s.GetItem("b")
		require.NoError(t, err)
		assert.False(t, ok, "a rejected write leaves the store unchanged")

		// Replacing an entry only counts the difference.
		require.NoError(t, s.SetItem("a", strings.Repeat("y", 19)))
		require.ErrorIs(t, s.SetItem("a", strings.Repeat("y", 20)), store.ErrQuotaExceeded)
		v, _, err := s.GetItem("a")
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("y", 19), v)
	})

	t.Run("reset", func(t *testing.T) {
		s := newStore(t, 20)
		require.NoError(t, s.SetItem("todos", strings.Repeat("x", 15)))
		require.NoError(t, s.SetItem("a", "1"))
		require.NoError(t, store.Reset(s))

		for _, k := range []string{"todos", "a"} {
			_, ok, err := s.GetItem(k)
			require.NoError(t, err)
			assert.False(t, ok, k)
		}
		require.NoError(t, s.SetItem("todos", strings.Repeat("y", 15)), "reset frees the quota")
		require.NoError(t, store.Reset(s), "reset twice")
	})
}
