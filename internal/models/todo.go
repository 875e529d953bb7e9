package models

import "time"

// TodoState represents the progress of a todo item
type TodoState string

const (
	TodoStateTodo  TodoState = "todo"
	TodoStateDoing TodoState = "doing"
	TodoStateDone  TodoState = "done"
)

// Valid reports whether s is one of the known states
func (s TodoState) Valid() bool {
	switch s {
	case TodoStateTodo, TodoStateDoing, TodoStateDone:
		return true
	}
	return false
}

// Todo represents a task owned by a single user
type Todo struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       TodoState `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
