package model

import (
	"fmt"
	"strings"
)

// Filter selects which todos a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts the filter names case-insensitively. Empty means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, active or completed)", s)
	}
}

// Match reports whether t is shown under f.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Done
	case FilterCompleted:
		return t.Done
	}
	return true
}

// Apply returns the matching todos in their original order.
func (f Filter) Apply(l TodoList) TodoList {
	out := make(TodoList, 0, len(l))
	for _, t := range l {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
