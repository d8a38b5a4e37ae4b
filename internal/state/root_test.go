package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/localtodo/internal/store/memstore"
)

type namedModule string

func (n namedModule) Name() string { return string(n) }

func TestRootComposes(t *testing.T) {
	todo, err := NewTodoModule(memstore.New(0))
	require.NoError(t, err)

	r, err := NewRoot(todo, namedModule("prefs"))
	require.NoError(t, err)

	assert.Same(t, todo, r.Todo())
	assert.Equal(t, []string{"prefs", "todo"}, r.Names())

	m, ok := r.Module("prefs")
	require.True(t, ok)
	assert.Equal(t, namedModule("prefs"), m)

	_, ok = r.Module("missing")
	assert.False(t, ok)
}

func TestRootRejectsBadModules(t *testing.T) {
	_, err := NewRoot(namedModule("a"), namedModule("a"))
	assert.ErrorContains(t, err, "registered twice")

	_, err = NewRoot(namedModule(""))
	assert.Error(t, err)

	_, err = NewRoot(nil)
	assert.Error(t, err)
}

func TestRootWithoutTodo(t *testing.T) {
	r, err := NewRoot()
	require.NoError(t, err)
	assert.Nil(t, r.Todo())
}
