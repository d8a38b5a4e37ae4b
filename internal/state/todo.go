package state

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/localtodo/internal/logging"
	"github.com/Makepad-fr/localtodo/internal/model"
	"github.com/Makepad-fr/localtodo/internal/persist"
	"github.com/Makepad-fr/localtodo/internal/store"
)

// TodoModuleName is the name the todo module registers under.
const TodoModuleName = "todo"

// TodoModule holds the current list for the UI layer and is the single
// write path back to storage.
type TodoModule struct {
	mu      sync.RWMutex
	todos   model.TodoList
	storage store.Storage
	logger  *log.Logger
}

// Option configures a TodoModule.
type Option func(*TodoModule)

// WithLogger sets the module's logger.
func WithLogger(l *log.Logger) Option {
	return func(m *TodoModule) { m.logger = l }
}

// NewTodoModule loads the list from s once, up front. A failed load fails
// construction; there is no half-initialized module.
func NewTodoModule(s store.Storage, opts ...Option) (*TodoModule, error) {
	m := &TodoModule{storage: s, logger: logging.Discard()}
	for _, o := range opts {
		o(m)
	}
	todos, err := persist.Load(s)
	if err != nil {
		return nil, err
	}
	m.todos = todos
	m.logger.Debug("todo module loaded", "items", len(todos))
	return m, nil
}

func (m *TodoModule) Name() string { return TodoModuleName }

// Todos returns a copy; edit it and hand it back through PersistTodos.
func (m *TodoModule) Todos() model.TodoList {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.todos.Clone()
}

// PersistTodos saves list as the full replacement list. When the save
// succeeds the in-memory list becomes a copy of list; when it fails memory
// is left as it was and the error is returned.
func (m *TodoModule) PersistTodos(list model.TodoList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := persist.Save(m.storage, list); err != nil {
		m.logger.Debug("persist todos failed", "err", err)
		return err
	}
	m.todos = list.Clone()
	if m.todos == nil {
		m.todos = model.TodoList{}
	}
	m.logger.Debug("todos persisted", "items", len(m.todos))
	return nil
}

// Reload re-reads storage, e.g. after it was cleared.
func (m *TodoModule) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	todos, err := persist.Load(m.storage)
	if err != nil {
		return err
	}
	m.todos = todos
	return nil
}

// Reset drops the stored list and reloads, leaving the seed list in memory.
func (m *TodoModule) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := persist.Clear(m.storage); err != nil {
		return err
	}
	m.todos = persist.DefaultList()
	m.logger.Debug("todos reset to seed list")
	return nil
}
