package dto

import (
	"cloud.google.com/go/civil"

	"github.com/jsamuelsen11/todo-service/internal/domain"
)

const msgInvalidDate = "must be a date in YYYY-MM-DD form"

// TodoRequest represents the JSON body for creating or replacing a todo.
// All three fields are required; pointers distinguish absent from zero.
type TodoRequest struct {
	Description *string `json:"description"`
	IsComplete  *bool   `json:"is_complete"`
	Due         *string `json:"due"`
}

// Validate checks that every field is present and that due is an ISO-8601
// calendar date. Returns a *domain.ValidationError if any checks fail.
// Whether due lies in the past is a domain rule and is not checked here.
func (r *TodoRequest) Validate() error {
	fields := make(map[string]string)

	if r.Description == nil {
		fields["description"] = domain.MsgRequired
	}
	if r.IsComplete == nil {
		fields["is_complete"] = domain.MsgRequired
	}
	if r.Due == nil {
		fields["due"] = domain.MsgRequired
	} else if _, err := civil.ParseDate(*r.Due); err != nil {
		fields["due"] = msgInvalidDate
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// DueDate returns the parsed due date. Call only after Validate succeeds.
func (r *TodoRequest) DueDate() civil.Date {
	d, _ := civil.ParseDate(*r.Due)
	return d
}
