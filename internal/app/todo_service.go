// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/jsamuelsen11/todo-service/internal/domain"
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/platform/logging"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

const resourceTodo = "todo"

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// Option configures a TodoService.
type Option func(*TodoService)

// WithIDGenerator replaces the default random UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *TodoService) {
		s.newID = newID
	}
}

// WithClock replaces time.Now as the source of the current date.
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) {
		s.now = now
	}
}

// TodoService implements ports.TodoService on top of a TodoRepository. It
// assigns identifiers, applies the due-date rule against the injected
// clock, and translates storage conditions into domain errors.
type TodoService struct {
	repo   ports.TodoRepository
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

// NewTodoService creates a TodoService. A nil logger discards output.
func NewTodoService(repo ports.TodoRepository, logger *slog.Logger, opts ...Option) *TodoService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &TodoService{
		repo:   repo,
		logger: logger,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log prefers the request logger carried in ctx so lines keep request_id.
func (s *TodoService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func (s *TodoService) today() civil.Date {
	return civil.DateOf(s.now())
}

// CreateTodo assigns a fresh ID, validates the due date, and stores the todo.
func (s *TodoService) CreateTodo(ctx context.Context, description string, isComplete bool, due civil.Date) (*todo.Todo, error) {
	id := s.newID()
	s.log(ctx).InfoContext(ctx, "creating todo", slog.String("id", id))

	td, err := todo.New(id, description, isComplete, due, s.today())
	if err != nil {
		s.log(ctx).WarnContext(ctx, "rejected todo",
			slog.String("operation", "CreateTodo"),
			slog.String("due", due.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	created, err := s.repo.Create(ctx, td)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to create todo",
			slog.String("operation", "CreateTodo"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return nil, translate(err, id)
	}

	return created, nil
}

// GetTodo returns the todo stored under id.
func (s *TodoService) GetTodo(ctx context.Context, id string) (*todo.Todo, error) {
	s.log(ctx).DebugContext(ctx, "fetching todo", slog.String("id", id))

	td, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logError(ctx, "failed to fetch todo", "GetTodo", id, err)
		return nil, translate(err, id)
	}

	return td, nil
}

// ListTodos returns one page of todos matching filter.
func (s *TodoService) ListTodos(ctx context.Context, filter *todo.Filter) ([]todo.Todo, error) {
	var f todo.Filter
	if filter != nil {
		f = *filter
	}
	s.log(ctx).DebugContext(ctx, "listing todos")

	todos, err := s.repo.List(ctx, f)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to list todos",
			slog.String("operation", "ListTodos"),
			slog.Any("error", err),
		)
		return nil, translate(err, "")
	}

	return todos, nil
}

// UpdateTodo validates the replacement values and overwrites the todo
// stored under id.
func (s *TodoService) UpdateTodo(ctx context.Context, id, description string, isComplete bool, due civil.Date) (*todo.Todo, error) {
	s.log(ctx).InfoContext(ctx, "updating todo", slog.String("id", id))

	td, err := todo.New(id, description, isComplete, due, s.today())
	if err != nil {
		s.log(ctx).WarnContext(ctx, "rejected todo update",
			slog.String("operation", "UpdateTodo"),
			slog.String("id", id),
			slog.String("due", due.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, td)
	if err != nil {
		s.logError(ctx, "failed to update todo", "UpdateTodo", id, err)
		return nil, translate(err, id)
	}

	return updated, nil
}

// DeleteTodo removes the todo stored under id.
func (s *TodoService) DeleteTodo(ctx context.Context, id string) error {
	s.log(ctx).InfoContext(ctx, "deleting todo", slog.String("id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logError(ctx, "failed to delete todo", "DeleteTodo", id, err)
		return translate(err, id)
	}

	return nil
}

// logError logs not-found at warn and everything else at error.
func (s *TodoService) logError(ctx context.Context, msg, operation, id string, err error) {
	level := slog.LevelError
	if errors.Is(err, ports.ErrRecordNotFound) {
		level = slog.LevelWarn
	}
	s.log(ctx).Log(ctx, level, msg,
		slog.String("operation", operation),
		slog.String("id", id),
		slog.Any("error", err),
	)
}

// translate maps storage conditions onto domain errors. Anything else,
// including ports.ErrMalformedRecord, passes through unchanged.
func translate(err error, id string) error {
	switch {
	case errors.Is(err, ports.ErrRecordNotFound):
		return &domain.NotFoundError{Resource: resourceTodo, ID: id}
	case errors.Is(err, ports.ErrRecordExists):
		return fmt.Errorf("%w: %s with id %s already exists", domain.ErrConflict, resourceTodo, id)
	case errors.Is(err, ports.ErrConcurrentUpdate):
		return fmt.Errorf("%w: %s with id %s was modified concurrently", domain.ErrConflict, resourceTodo, id)
	default:
		return err
	}
}
