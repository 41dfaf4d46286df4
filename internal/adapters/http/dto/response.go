// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"github.com/jsamuelsen11/todo-service/internal/domain/todo"
)

// TodoResponse represents a single todo in HTTP responses.
type TodoResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	IsComplete  bool   `json:"is_complete"`
	Due         string `json:"due"`
}

// ToTodoResponse converts a domain Todo entity to an HTTP response DTO.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Description: t.Description,
		IsComplete:  t.IsComplete,
		Due:         t.Due.String(),
	}
}

// ToTodoListResponse converts a slice of domain Todo entities to response
// DTOs. The result is never nil so it encodes as a JSON array.
func ToTodoListResponse(todos []todo.Todo) []TodoResponse {
	items := make([]TodoResponse, len(todos))
	for i := range todos {
		items[i] = ToTodoResponse(&todos[i])
	}
	return items
}
