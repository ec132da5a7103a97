// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/todos/internal/todo/domain"
	customValidation "github.com/allisson/todos/internal/validation"
)

// CreateTodoRequest contains the parameters for creating a todo.
type CreateTodoRequest struct {
	Title string `json:"title"`
}

// Validate checks that the title is present and not blank.
func (r *CreateTodoRequest) Validate() error {
	return validation.Validate(r.Title,
		validation.Required.Error("Title is required"),
		customValidation.NotBlank.Error("Title is required"),
	)
}

// ToInput converts the request into the create todo command.
// The title is passed through unchanged.
func (r *CreateTodoRequest) ToInput() domain.CreateTodoInput {
	return domain.CreateTodoInput{Title: r.Title}
}
