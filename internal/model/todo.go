package model

// Todo is the domain model for a todo entry.
// ID uniqueness within a list is a convention; nothing enforces it.
type Todo struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// TodoList is ordered; position is display order and survives save/load.
type TodoList []Todo

// Clone returns an independent copy. A nil list clones to nil.
func (l TodoList) Clone() TodoList {
	if l == nil {
		return nil
	}
	out := make(TodoList, len(l))
	copy(out, l)
	return out
}

// NextID returns one past the highest id in the list, or 0 when empty.
func (l TodoList) NextID() int {
	next := 0
	for _, t := range l {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}

// Stats counts done and pending items.
func (l TodoList) Stats() (done, pending int) {
	for _, t := range l {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
