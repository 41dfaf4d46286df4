package domain

import (
	"errors"
	"testing"
)

func TestErrInvalidDueDate_IsValidation(t *testing.T) {
	t.Parallel()

	if !errors.Is(ErrInvalidDueDate, ErrValidation) {
		t.Error("errors.Is(ErrInvalidDueDate, ErrValidation) = false, want true")
	}
	if errors.Is(ErrInvalidDueDate, ErrNotFound) {
		t.Error("errors.Is(ErrInvalidDueDate, ErrNotFound) = true, want false")
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: map[string]string{
		"due":         MsgRequired,
		"description": MsgRequired,
	}}

	want := "validation error: description: is required; due: is required"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	var err error = &NotFoundError{Resource: "todo", ID: "abc-123"}

	if got, want := err.Error(), "todo with id abc-123 not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false, want true")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("errors.As(err, *NotFoundError) = false, want true")
	}
	if nf.ID != "abc-123" {
		t.Errorf("NotFoundError.ID = %q, want %q", nf.ID, "abc-123")
	}
}
