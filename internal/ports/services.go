package ports

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
)

// TodoService defines the service port for todo use cases.
// Implemented by the application layer; called by inbound adapters (handlers).
type TodoService interface {
	// CreateTodo assigns a new unique ID and stores the todo.
	// Returns domain.ErrInvalidDueDate if due is in the past.
	CreateTodo(ctx context.Context, description string, isComplete bool, due civil.Date) (*todo.Todo, error)

	// GetTodo returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	GetTodo(ctx context.Context, id string) (*todo.Todo, error)

	// ListTodos returns one page of todos. A nil filter lists everything.
	ListTodos(ctx context.Context, filter *todo.Filter) ([]todo.Todo, error)

	// UpdateTodo replaces the description, completion flag, and due date of
	// an existing todo. The ID never changes.
	// Returns domain.ErrInvalidDueDate if due is in the past,
	// domain.ErrNotFound if the todo does not exist, and domain.ErrConflict
	// if it was modified concurrently.
	UpdateTodo(ctx context.Context, id, description string, isComplete bool, due civil.Date) (*todo.Todo, error)

	// DeleteTodo deletes a todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	DeleteTodo(ctx context.Context, id string) error
}
