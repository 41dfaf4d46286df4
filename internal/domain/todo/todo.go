// Package todo holds the Todo entity and the rules that govern it.
package todo

import (
	"slices"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/todo-service/internal/domain"
)

// Todo represents a single task with a description, a completion flag, and a
// calendar due date. Identity is the ID alone: two Todos with the same ID are
// the same entity regardless of their other fields.
type Todo struct {
	ID          string
	Description string
	IsComplete  bool
	Due         civil.Date
}

// New constructs a Todo. It returns domain.ErrInvalidDueDate when due is
// strictly before today.
func New(id, description string, isComplete bool, due, today civil.Date) (*Todo, error) {
	if err := checkDue(due, today); err != nil {
		return nil, err
	}
	return &Todo{
		ID:          id,
		Description: description,
		IsComplete:  isComplete,
		Due:         due,
	}, nil
}

// SetDue reassigns the due date, applying the same rule as New. On failure
// the todo is left unchanged.
func (t *Todo) SetDue(due, today civil.Date) error {
	if err := checkDue(due, today); err != nil {
		return err
	}
	t.Due = due
	return nil
}

// Replace overwrites every mutable field. The ID is never reassigned.
func (t *Todo) Replace(description string, isComplete bool, due, today civil.Date) error {
	if err := t.SetDue(due, today); err != nil {
		return err
	}
	t.Description = description
	t.IsComplete = isComplete
	return nil
}

// Equal reports whether t and other are the same entity.
func (t Todo) Equal(other Todo) bool {
	return t.ID == other.ID
}

// Key returns the identity of the todo, suitable as a map key.
func (t Todo) Key() string {
	return t.ID
}

// String implements fmt.Stringer.
func (t Todo) String() string {
	return "<Todo " + t.ID + ">"
}

// Compare orders todos by due date ascending. It returns a negative number
// when a is due before b, a positive number when after, and zero otherwise.
func Compare(a, b Todo) int {
	switch {
	case a.Due.Before(b.Due):
		return -1
	case a.Due.After(b.Due):
		return 1
	default:
		return 0
	}
}

// SortByDue sorts todos in place by ascending due date. Todos due on the
// same day keep their relative order.
func SortByDue(todos []Todo) {
	slices.SortStableFunc(todos, Compare)
}

func checkDue(due, today civil.Date) error {
	if due.Before(today) {
		return domain.ErrInvalidDueDate
	}
	return nil
}
