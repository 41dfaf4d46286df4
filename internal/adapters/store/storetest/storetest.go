// Package storetest provides a behavioral test suite that every
// ports.TodoRepository implementation must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/todo-service/internal/ports"
)

// Factory returns a fresh, empty repository whose List page holds at least
// PageSize items.
type Factory func(t *testing.T) ports.TodoRepository

// PageSize is the page size factories must configure.
const PageSize = 5

func today() civil.Date {
	return civil.DateOf(time.Now())
}

func sample(id string, dueOffset int) *todo.Todo {
	return &todo.Todo{
		ID:          id,
		Description: "todo " + id,
		Due:         today().AddDays(dueOffset),
	}
}

// Run executes the repository contract against repositories built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("create then get returns equal fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		in := sample("a1", 1)
		in.IsComplete = true

		created, err := repo.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if *created != *in {
			t.Errorf("Create() = %+v, want %+v", *created, *in)
		}

		got, err := repo.Get(ctx, "a1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if *got != *in {
			t.Errorf("Get() = %+v, want %+v", *got, *in)
		}
	})

	t.Run("create duplicate id fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Create(ctx, sample("dup", 0)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		_, err := repo.Create(ctx, sample("dup", 3))
		if !errors.Is(err, ports.ErrRecordExists) {
			t.Errorf("second Create() error = %v, want ErrRecordExists", err)
		}
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Get(context.Background(), "nope")
		if !errors.Is(err, ports.ErrRecordNotFound) {
			t.Errorf("Get() error = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("list empty store returns empty slice", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.List(context.Background(), todo.Filter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got == nil {
			t.Error("List() = nil, want empty non-nil slice")
		}
		if len(got) != 0 {
			t.Errorf("List() len = %d, want 0", len(got))
		}
	})

	t.Run("list returns stored todos", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		for i := range 3 {
			if _, err := repo.Create(ctx, sample(fmt.Sprintf("l%d", i), i)); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		got, err := repo.List(ctx, todo.Filter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("List() len = %d, want 3", len(got))
		}
	})

	t.Run("list is capped at one page", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		for i := range PageSize + 3 {
			if _, err := repo.Create(ctx, sample(fmt.Sprintf("p%02d", i), i)); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		got, err := repo.List(ctx, todo.Filter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != PageSize {
			t.Errorf("List() len = %d, want page size %d", len(got), PageSize)
		}
	})

	t.Run("list honors completion filter", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		done := sample("done", 0)
		done.IsComplete = true
		for _, td := range []*todo.Todo{done, sample("open", 1)} {
			if _, err := repo.Create(ctx, td); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		complete := true
		got, err := repo.List(ctx, todo.Filter{IsComplete: &complete})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "done" {
			t.Errorf("List(complete) = %+v, want only %q", got, "done")
		}
	})

	t.Run("update replaces fields and keeps stored id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		if _, err := repo.Create(ctx, sample("u1", 0)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		incoming := &todo.Todo{ID: "ignored", Description: "I was updated!", IsComplete: true, Due: today().AddDays(1)}
		updated, err := repo.Update(ctx, "u1", incoming)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		want := todo.Todo{ID: "u1", Description: "I was updated!", IsComplete: true, Due: today().AddDays(1)}
		if *updated != want {
			t.Errorf("Update() = %+v, want %+v", *updated, want)
		}

		got, err := repo.Get(ctx, "u1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if *got != want {
			t.Errorf("Get() after Update = %+v, want %+v", *got, want)
		}
		if _, err := repo.Get(ctx, "ignored"); !errors.Is(err, ports.ErrRecordNotFound) {
			t.Errorf("Get(incoming id) error = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("update missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Update(context.Background(), "nope", sample("nope", 1))
		if !errors.Is(err, ports.ErrRecordNotFound) {
			t.Errorf("Update() error = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("delete removes record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		if _, err := repo.Create(ctx, sample("d1", 0)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if err := repo.Delete(ctx, "d1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.Get(ctx, "d1"); !errors.Is(err, ports.ErrRecordNotFound) {
			t.Errorf("Get() after Delete error = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("delete missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Delete(context.Background(), "nope")
		if !errors.Is(err, ports.ErrRecordNotFound) {
			t.Errorf("Delete() error = %v, want ErrRecordNotFound", err)
		}
	})
}
