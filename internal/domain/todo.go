package domain

import "github.com/google/uuid"

type Todo struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Task      string    `json:"task" db:"task"`
	Completed bool      `json:"completed" db:"completed"`
}

// TodoPatch carries the optional fields of an update. Nil means "leave as is".
type TodoPatch struct {
	Task      *string
	Completed *bool
}

// Empty reports whether the patch would not touch any field.
func (p TodoPatch) Empty() bool {
	return p.Task == nil && p.Completed == nil
}

// Apply returns a copy of t with the patch fields applied.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Task != nil {
		t.Task = *p.Task
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// Todo event types broadcast on the change feed
const (
	EventTodoCreated = "todo.created"
	EventTodoUpdated = "todo.updated"
	EventTodoDeleted = "todo.deleted"
)

// TodoEvent is one change-feed message. Todo is the full record after a
// create or update and is omitted for deletes.
type TodoEvent struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
	Todo *Todo     `json:"todo,omitempty"`
}
