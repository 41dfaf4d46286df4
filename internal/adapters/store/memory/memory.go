// Package memory provides an in-process TodoRepository backed by a map of
// native records. It is used by tests and by the "memory" store driver.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jsamuelsen11/todo-service/internal/adapters/store/record"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

// Compile-time interface check.
var _ ports.TodoRepository = (*Store)(nil)

// Store is a thread-safe, in-memory TodoRepository. Records are kept in
// their native form so conversion behaves exactly as it does for the
// networked adapters.
type Store struct {
	mu       sync.RWMutex
	records  map[string]record.Record
	pageSize int
}

// New creates an empty Store whose List returns at most pageSize items.
// A non-positive pageSize disables the cap.
func New(pageSize int) *Store {
	return &Store{
		records:  make(map[string]record.Record),
		pageSize: pageSize,
	}
}

// Put stores r as-is under id, bypassing conversion. Tests use it
// to plant records the domain could not produce.
func (s *Store) Put(id string, r record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = maps.Clone(r)
}

// Name identifies the store in health reports.
func (s *Store) Name() string {
	return "store-memory"
}

// HealthCheck always reports healthy.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Create stores a new record under t.ID.
func (s *Store) Create(_ context.Context, t *todo.Todo) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[t.ID]; ok {
		return nil, fmt.Errorf("create %s: %w", t.ID, ports.ErrRecordExists)
	}
	r := record.FromTodo(t)
	s.records[t.ID] = r
	return record.ToTodo(maps.Clone(r))
}

// Get returns the todo stored under id.
func (s *Store) Get(_ context.Context, id string) (*todo.Todo, error) {
	s.mu.RLock()
	r, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, ports.ErrRecordNotFound)
	}
	return record.ToTodo(r)
}

// List returns up to one page of todos matching filter, ordered by due date
// and then ID so pages are stable.
func (s *Store) List(_ context.Context, filter todo.Filter) ([]todo.Todo, error) {
	s.mu.RLock()
	snapshot := slices.Collect(maps.Values(s.records))
	s.mu.RUnlock()

	out := make([]todo.Todo, 0, len(snapshot))
	for _, r := range snapshot {
		t, err := record.ToTodo(r)
		if err != nil {
			return nil, err
		}
		if filter.Matches(t) {
			out = append(out, *t)
		}
	}

	slices.SortFunc(out, func(a, b todo.Todo) int {
		if c := todo.Compare(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if s.pageSize > 0 && len(out) > s.pageSize {
		out = out[:s.pageSize]
	}
	return out, nil
}

// Update overwrites the mutable fields of the record stored under id.
func (s *Store) Update(_ context.Context, id string, t *todo.Todo) (*todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", id, ports.ErrRecordNotFound)
	}

	updated := maps.Clone(existing)
	incoming := record.FromTodo(t)
	updated[record.FieldDescription] = incoming[record.FieldDescription]
	updated[record.FieldIsComplete] = incoming[record.FieldIsComplete]
	updated[record.FieldDue] = incoming[record.FieldDue]

	s.records[id] = updated
	return record.ToTodo(maps.Clone(updated))
}

// Delete removes the record stored under id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ports.ErrRecordNotFound)
	}
	delete(s.records, id)
	return nil
}
