package todo

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/todo-service/internal/domain"
)

var today = civil.DateOf(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

func boolPtr(v bool) *bool { return &v }

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		due     civil.Date
		wantErr error
	}{
		{
			name:    "yesterday is rejected",
			due:     today.AddDays(-1),
			wantErr: domain.ErrInvalidDueDate,
		},
		{
			name:    "a year ago is rejected",
			due:     today.AddDays(-365),
			wantErr: domain.ErrInvalidDueDate,
		},
		{
			name: "today is accepted",
			due:  today,
		},
		{
			name: "tomorrow is accepted",
			due:  today.AddDays(1),
		},
		{
			name: "far future is accepted",
			due:  today.AddDays(3650),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := New("todo-1", "A Sample Todo", false, tt.due, today)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("errors.Is(err, ErrValidation) = false, want true")
				}
				if got != nil {
					t.Errorf("New() = %v, want nil on error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v, want nil", err)
			}
			if got.Due != tt.due {
				t.Errorf("Due = %v, want %v", got.Due, tt.due)
			}
			if got.ID != "todo-1" || got.Description != "A Sample Todo" || got.IsComplete {
				t.Errorf("New() = %+v, fields not preserved", got)
			}
		})
	}
}

func TestNew_ErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := New("todo-1", "A Sample Todo", false, today.AddDays(-1), today)
	if err == nil {
		t.Fatal("New() error = nil, want error")
	}
	want := "validation error: due date cannot be in the past"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTodo_SetDue(t *testing.T) {
	t.Parallel()

	t.Run("accepts future date", func(t *testing.T) {
		t.Parallel()
		td := &Todo{ID: "1", Due: today}

		if err := td.SetDue(today.AddDays(2), today); err != nil {
			t.Fatalf("SetDue() error = %v, want nil", err)
		}
		if td.Due != today.AddDays(2) {
			t.Errorf("Due = %v, want %v", td.Due, today.AddDays(2))
		}
	})

	t.Run("rejects past date and keeps old value", func(t *testing.T) {
		t.Parallel()
		td := &Todo{ID: "1", Due: today}

		err := td.SetDue(today.AddDays(-1), today)
		if !errors.Is(err, domain.ErrInvalidDueDate) {
			t.Fatalf("SetDue() error = %v, want ErrInvalidDueDate", err)
		}
		if td.Due != today {
			t.Errorf("Due = %v, want unchanged %v", td.Due, today)
		}
	})
}

func TestTodo_Replace(t *testing.T) {
	t.Parallel()

	t.Run("overwrites mutable fields and keeps id", func(t *testing.T) {
		t.Parallel()
		td := &Todo{ID: "keep-me", Description: "old", Due: today}

		if err := td.Replace("new", true, today.AddDays(1), today); err != nil {
			t.Fatalf("Replace() error = %v, want nil", err)
		}
		want := Todo{ID: "keep-me", Description: "new", IsComplete: true, Due: today.AddDays(1)}
		if *td != want {
			t.Errorf("Replace() = %+v, want %+v", *td, want)
		}
	})

	t.Run("invalid due leaves todo untouched", func(t *testing.T) {
		t.Parallel()
		td := &Todo{ID: "keep-me", Description: "old", Due: today}
		before := *td

		err := td.Replace("new", true, today.AddDays(-3), today)
		if !errors.Is(err, domain.ErrInvalidDueDate) {
			t.Fatalf("Replace() error = %v, want ErrInvalidDueDate", err)
		}
		if *td != before {
			t.Errorf("Replace() mutated todo to %+v on error", *td)
		}
	})
}

func TestTodo_Equal(t *testing.T) {
	t.Parallel()

	a := Todo{ID: "same", Description: "first", Due: today}
	b := Todo{ID: "same", Description: "second", IsComplete: true, Due: today.AddDays(9)}
	c := Todo{ID: "other", Description: "first", Due: today}

	if !a.Equal(b) {
		t.Error("Equal() = false for same id, want true")
	}
	if a.Key() != b.Key() {
		t.Errorf("Key() differ for same id: %q vs %q", a.Key(), b.Key())
	}
	if a.Equal(c) {
		t.Error("Equal() = true for different ids, want false")
	}

	set := map[string]Todo{a.Key(): a}
	set[b.Key()] = b
	if len(set) != 1 {
		t.Errorf("set len = %d, want 1 (identity by id)", len(set))
	}
}

func TestSortByDue(t *testing.T) {
	t.Parallel()

	later := Todo{ID: "todo-3", Due: today.AddDays(5)}
	first := Todo{ID: "todo-1", Due: today}
	second := Todo{ID: "todo-2", Due: today.AddDays(1)}

	todos := []Todo{later, first, second}
	SortByDue(todos)

	wantIDs := []string{"todo-1", "todo-2", "todo-3"}
	for i, id := range wantIDs {
		if todos[i].ID != id {
			t.Errorf("todos[%d].ID = %q, want %q", i, todos[i].ID, id)
		}
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	a := Todo{ID: "a", Due: today}
	b := Todo{ID: "b", Due: today.AddDays(1)}

	if got := Compare(a, b); got >= 0 {
		t.Errorf("Compare(earlier, later) = %d, want < 0", got)
	}
	if got := Compare(b, a); got <= 0 {
		t.Errorf("Compare(later, earlier) = %d, want > 0", got)
	}
	if got := Compare(a, Todo{ID: "z", Due: today}); got != 0 {
		t.Errorf("Compare(same day) = %d, want 0", got)
	}
}

func TestTodo_String(t *testing.T) {
	t.Parallel()

	if got := (Todo{ID: "abc"}).String(); got != "<Todo abc>" {
		t.Errorf("String() = %q, want %q", got, "<Todo abc>")
	}
}

func TestFilter_Matches(t *testing.T) {
	t.Parallel()

	done := &Todo{ID: "1", IsComplete: true}
	open := &Todo{ID: "2", IsComplete: false}

	tests := []struct {
		name   string
		filter Filter
		todo   *Todo
		want   bool
	}{
		{name: "zero filter matches complete", filter: Filter{}, todo: done, want: true},
		{name: "zero filter matches open", filter: Filter{}, todo: open, want: true},
		{name: "complete filter keeps complete", filter: Filter{IsComplete: boolPtr(true)}, todo: done, want: true},
		{name: "complete filter drops open", filter: Filter{IsComplete: boolPtr(true)}, todo: open, want: false},
		{name: "open filter keeps open", filter: Filter{IsComplete: boolPtr(false)}, todo: open, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.filter.Matches(tt.todo); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
