package ports

import (
	"context"
	"errors"

	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
)

// Storage conditions reported by TodoRepository implementations. Adapters
// map their engine-native failures onto these so the application layer can
// translate them without knowing which engine is behind the port.
var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrRecordExists     = errors.New("record already exists")
	ErrConcurrentUpdate = errors.New("record modified concurrently")
	ErrMalformedRecord  = errors.New("malformed record")
)

// TodoRepository defines the storage port for Todo entities. It is
// storage-agnostic: implementations own the engine connection and convert
// between the domain type and the engine's native record shape.
type TodoRepository interface {
	// Create persists a new record keyed by t.ID and returns the stored form.
	// Returns ErrRecordExists if the engine reports a duplicate ID.
	Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error)

	// Get returns the todo stored under id.
	// Returns ErrRecordNotFound if no record exists.
	Get(ctx context.Context, id string) (*todo.Todo, error)

	// List returns at most one page of stored todos matching filter. The
	// result is empty, not nil, when nothing matches. Which todos make up a
	// capped page is store-specific: memory keeps the earliest due, Redis the
	// first keys its SCAN visits.
	List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error)

	// Update overwrites the description, completion flag, and due date of
	// the record stored under id. The stored ID is kept; t.ID is ignored.
	// Returns ErrRecordNotFound if no record exists and ErrConcurrentUpdate
	// if the record changed between read and write.
	Update(ctx context.Context, id string, t *todo.Todo) (*todo.Todo, error)

	// Delete removes the record stored under id.
	// Returns ErrRecordNotFound if no record exists.
	Delete(ctx context.Context, id string) error
}
