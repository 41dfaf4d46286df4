package dto_test

import (
	"encoding/json"
	"errors"
	"testing"

	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/todo-service/internal/domain"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTodoRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        dto.TodoRequest
		wantFields []string
	}{
		{
			name: "all fields present",
			req:  dto.TodoRequest{Description: strPtr("A Sample Todo"), IsComplete: boolPtr(false), Due: strPtr("2030-01-01")},
		},
		{
			name: "empty description is allowed",
			req:  dto.TodoRequest{Description: strPtr(""), IsComplete: boolPtr(true), Due: strPtr("2030-01-01")},
		},
		{
			name: "past date passes format check",
			req:  dto.TodoRequest{Description: strPtr("x"), IsComplete: boolPtr(false), Due: strPtr("2000-01-01")},
		},
		{
			name:       "empty body",
			req:        dto.TodoRequest{},
			wantFields: []string{"description", "is_complete", "due"},
		},
		{
			name:       "missing due",
			req:        dto.TodoRequest{Description: strPtr("x"), IsComplete: boolPtr(false)},
			wantFields: []string{"due"},
		},
		{
			name:       "unparsable due",
			req:        dto.TodoRequest{Description: strPtr("x"), IsComplete: boolPtr(false), Due: strPtr("next tuesday")},
			wantFields: []string{"due"},
		},
		{
			name:       "datetime instead of date",
			req:        dto.TodoRequest{Description: strPtr("x"), IsComplete: boolPtr(false), Due: strPtr("2030-01-01T10:00:00Z")},
			wantFields: []string{"due"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *domain.ValidationError", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Errorf("Fields = %v, want keys %v", verr.Fields, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := verr.Fields[f]; !ok {
					t.Errorf("Fields missing %q: %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestTodoRequest_DecodeDistinguishesFalseFromMissing(t *testing.T) {
	t.Parallel()

	var req dto.TodoRequest
	if err := json.Unmarshal([]byte(`{"description":"x","is_complete":false,"due":"2030-01-01"}`), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if *req.IsComplete {
		t.Error("IsComplete = true, want false")
	}
	if got, want := req.DueDate(), (civil.Date{Year: 2030, Month: 1, Day: 1}); got != want {
		t.Errorf("DueDate() = %v, want %v", got, want)
	}
}
