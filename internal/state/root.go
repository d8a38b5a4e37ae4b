// Package state holds the application's named state modules.
package state

import (
	"errors"
	"fmt"
	"sort"
)

// Module is a named unit of state.
type Module interface {
	Name() string
}

// Root composes modules that were constructed beforehand. It has no state
// or behaviour of its own.
type Root struct {
	modules map[string]Module
}

// NewRoot registers modules by name. Empty or repeated names are rejected.
func NewRoot(modules ...Module) (*Root, error) {
	r := &Root{modules: make(map[string]Module, len(modules))}
	for _, m := range modules {
		if m == nil {
			return nil, errors.New("nil module")
		}
		name := m.Name()
		if name == "" {
			return nil, fmt.Errorf("module %T has no name", m)
		}
		if _, dup := r.modules[name]; dup {
			return nil, fmt.Errorf("module %q registered twice", name)
		}
		r.modules[name] = m
	}
	return r, nil
}

// Module looks a module up by name.
func (r *Root) Module(name string) (Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// Names lists registered modules, sorted.
func (r *Root) Names() []string {
	out := make([]string, 0, len(r.modules))
	for n := range r.modules {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Todo returns the todo module, or nil if none was registered.
func (r *Root) Todo() *TodoModule {
	m, _ := r.modules[TodoModuleName].(*TodoModule)
	return m
}
