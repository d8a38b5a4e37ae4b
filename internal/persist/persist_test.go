package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/localtodo/internal/model"
	"github.com/Makepad-fr/localtodo/internal/store"
	"github.com/Makepad-fr/localtodo/internal/store/jsonstore"
	"github.com/Makepad-fr/localtodo/internal/store/memstore"
	"github.com/Makepad-fr/localtodo/internal/store/sqlitestore"
)

func backends(t *testing.T) map[string]store.Storage {
	t.Helper()
	sq, err := sqlitestore.OpenPath(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]store.Storage{
		"memory": memstore.New(0),
		"json":   jsonstore.New(t.TempDir(), 0),
		"sqlite": sq,
	}
}

func TestDefaultFallback(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			list, err := Load(s)
			require.NoError(t, err)
			assert.Equal(t, DefaultList(), list)

			_, ok, err := s.GetItem(StorageKey)
			require.NoError(t, err)
			assert.False(t, ok, "the seed list is never written back")
		})
	}
}

func TestDefaultListIsFresh(t *testing.T) {
	a := DefaultList()
	a[0].Text = "changed"
	assert.Equal(t, "The Vue Instance", DefaultList()[0].Text)
	assert.Len(t, DefaultList(), 9)
}

func TestRoundTrip(t *testing.T) {
	lists := []model.TodoList{
		{},
		{{ID: 0, Text: "x", Done: true}},
		{{ID: 9, Text: "z"}, {ID: 1, Text: "unicode ✔ “quotes”", Done: true}, {ID: 9, Text: "dup id"}},
		DefaultList(),
	}
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, l := range lists {
				require.NoError(t, Save(s, l))
				got, err := Load(s)
				require.NoError(t, err)
				assert.Equal(t, l, got)
			}
		})
	}
}

func TestSaveNilStoresEmptyArray(t *testing.T) {
	s := memstore.New(0)
	require.NoError(t, Save(s, nil))
	raw, ok, err := s.GetItem(StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)

	list, err := Load(s)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestIdempotentSave(t *testing.T) {
	s := memstore.New(0)
	l := model.TodoList{{ID: 3, Text: "once"}}
	require.NoError(t, Save(s, l))
	first, _, _ := s.GetItem(StorageKey)
	require.NoError(t, Save(s, l))
	second, _, _ := s.GetItem(StorageKey)
	assert.Equal(t, first, second)
}

func TestOverwriteNotMerge(t *testing.T) {
	s := memstore.New(0)
	require.NoError(t, Save(s, model.TodoList{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}))
	require.NoError(t, Save(s, model.TodoList{{ID: 3, Text: "c"}}))
	got, err := Load(s)
	require.NoError(t, err)
	assert.Equal(t, model.TodoList{{ID: 3, Text: "c"}}, got)
}

func TestWireFormat(t *testing.T) {
	s := memstore.New(0)
	require.NoError(t, Save(s, model.TodoList{{ID: 0, Text: "The Vue Instance", Done: true}}))
	raw, _, err := s.GetItem(StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":0,"text":"The Vue Instance","done":true}]`, raw)
}

func TestMalformedData(t *testing.T) {
	for _, raw := range []string{
		"not json",
		`{"id":1}`,
		`[{"id":"seven","text":"x","done":false}]`,
		`[{"id":1,"text":"x","done":"yes"}]`,
		"",
	} {
		t.Run(raw, func(t *testing.T) {
			s := memstore.New(0)
			require.NoError(t, s.SetItem(StorageKey, raw))
			list, err := Load(s)
			require.ErrorIs(t, err, ErrMalformedData)
			assert.Nil(t, list, "never substitutes the seed list")
		})
	}
}

func TestTrustsHandEditedData(t *testing.T) {
	s := memstore.New(0)
	require.NoError(t, s.SetItem(StorageKey, `[{"id":1,"text":"a"},{"id":1,"extra":true}]`))
	list, err := Load(s)
	require.NoError(t, err)
	assert.Equal(t, model.TodoList{{ID: 1, Text: "a"}, {ID: 1}}, list)
}

func TestStorageUnavailable(t *testing.T) {
	s := memstore.New(0)
	s.SetDisabled(true)

	_, err := Load(s)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrMalformedData)

	assert.ErrorIs(t, Save(s, DefaultList()), store.ErrUnavailable)
	assert.ErrorIs(t, Clear(s), store.ErrUnavailable)
}

func TestQuotaExceededSurfaces(t *testing.T) {
	s := memstore.New(32)
	err := Save(s, DefaultList())
	assert.ErrorIs(t, err, store.ErrQuotaExceeded)
}

func TestClear(t *testing.T) {
	s := memstore.New(0)
	require.NoError(t, Save(s, model.TodoList{{ID: 0, Text: "x", Done: true}}))
	require.NoError(t, Clear(s))
	list, err := Load(s)
	require.NoError(t, err)
	assert.Equal(t, DefaultList(), list)
}

func TestScenario(t *testing.T) {
	s := jsonstore.New(t.TempDir(), store.DefaultQuota)

	list, err := Load(s)
	require.NoError(t, err)
	require.Greater(t, len(list), 7)
	assert.Equal(t, model.Todo{ID: 7, Text: "Vuex", Done: false}, list[7])

	require.NoError(t, Save(s, model.TodoList{{ID: 0, Text: "x", Done: true}}))
	list, err = Load(s)
	require.NoError(t, err)
	assert.Equal(t, model.TodoList{{ID: 0, Text: "x", Done: true}}, list)
}
