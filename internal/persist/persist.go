// Package persist moves a todo list in and out of a store.Storage under a
// single fixed key.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Makepad-fr/localtodo/internal/model"
	"github.com/Makepad-fr/localtodo/internal/store"
)

// StorageKey is the slot the list lives in.
const StorageKey = "todos"

// ErrMalformedData means the stored value could not be decoded into a list.
var ErrMalformedData = errors.New("malformed todo data")

// DefaultList returns a fresh copy of the seed list used when nothing has
// been saved yet.
func DefaultList() model.TodoList {
	return model.TodoList{
		{ID: 0, Text: "The Vue Instance", Done: true},
		{ID: 1, Text: "Vue Directives", Done: true},
		{ID: 2, Text: "Data-binding", Done: true},
		{ID: 3, Text: "Events Handling", Done: false},
		{ID: 4, Text: "Components", Done: false},
		{ID: 5, Text: "Vue-cli", Done: false},
		{ID: 6, Text: "Vue-router", Done: false},
		{ID: 7, Text: "Vuex", Done: false},
		{ID: 8, Text: "Axios", Done: false},
	}
}

// Load reads the stored list. With nothing stored it returns DefaultList and
// does not write it back. Stored data is trusted: ids and values are not
// checked beyond decoding.
func Load(s store.Storage) (model.TodoList, error) {
	raw, ok, err := s.GetItem(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	if !ok {
		return DefaultList(), nil
	}
	return Decode(raw)
}

// Decode parses a stored value.
func Decode(raw string) (model.TodoList, error) {
	var list model.TodoList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}
	// "null" decodes without error; keep the slot's meaning as a list.
	if list == nil {
		list = model.TodoList{}
	}
	return list, nil
}

// Save overwrites the stored list with list.
func Save(s store.Storage, list model.TodoList) error {
	if list == nil {
		list = model.TodoList{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := s.SetItem(StorageKey, string(b)); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

// Clear drops the stored list; the next Load returns the seed list.
func Clear(s store.Storage) error {
	if err := s.RemoveItem(StorageKey); err != nil {
		return fmt.Errorf("clear todos: %w", err)
	}
	return nil
}
