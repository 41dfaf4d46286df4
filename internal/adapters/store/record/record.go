// Package record translates between the Todo entity and the native record
// shape shared by the document-store adapters: a flat map of string keys to
// primitive values with the due date serialized as an ISO-8601 date string.
package record

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

// Record field names.
const (
	FieldID          = "id"
	FieldDescription = "description"
	FieldIsComplete  = "is_complete"
	FieldDue         = "due"
)

// Record is the engine-neutral document form of a Todo.
type Record map[string]any

// FromTodo converts a domain Todo to its native record form.
func FromTodo(t *todo.Todo) Record {
	return Record{
		FieldID:          t.ID,
		FieldDescription: t.Description,
		FieldIsComplete:  t.IsComplete,
		FieldDue:         t.Due.String(),
	}
}

// ToTodo converts a native record back to a domain Todo. Keys other than the
// four record fields are ignored. A missing key, a value of the wrong type,
// or an unparsable date yields an error wrapping ports.ErrMalformedRecord.
//
// The due-date rule is not applied: a stored todo may be overdue.
func ToTodo(r Record) (*todo.Todo, error) {
	id, err := stringField(r, FieldID)
	if err != nil {
		return nil, err
	}
	description, err := stringField(r, FieldDescription)
	if err != nil {
		return nil, err
	}

	rawComplete, ok := r[FieldIsComplete]
	if !ok {
		return nil, missing(FieldIsComplete)
	}
	isComplete, ok := rawComplete.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: %s has type %T, want bool", ports.ErrMalformedRecord, FieldIsComplete, rawComplete)
	}

	rawDue, err := stringField(r, FieldDue)
	if err != nil {
		return nil, err
	}
	due, err := civil.ParseDate(rawDue)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %w", ports.ErrMalformedRecord, FieldDue, rawDue, err)
	}

	return &todo.Todo{
		ID:          id,
		Description: description,
		IsComplete:  isComplete,
		Due:         due,
	}, nil
}

func stringField(r Record, key string) (string, error) {
	raw, ok := r[key]
	if !ok {
		return "", missing(key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s has type %T, want string", ports.ErrMalformedRecord, key, raw)
	}
	return s, nil
}

func missing(key string) error {
	return fmt.Errorf("%w: missing key %q", ports.ErrMalformedRecord, key)
}
