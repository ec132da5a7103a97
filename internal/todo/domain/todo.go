// Package domain defines the core domain models, events and errors for todo commands.
package domain

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/todos/internal/validation"
)

// Todo is a persisted todo item. Values exist only after the insert committed.
type Todo struct {
	// ID is assigned by the store, strictly positive and never reused.
	ID int64
	// Title is stored exactly as received.
	Title string
	// Completed is false for newly created todos.
	Completed bool
}

// CreateTodoInput is the create todo command.
type CreateTodoInput struct {
	Title string
}

// Validate checks that the title is present and not blank.
// Any failure is reported as ErrTitleRequired.
func (i CreateTodoInput) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required, customValidation.NotBlank),
	)
	if err != nil {
		return ErrTitleRequired
	}
	return nil
}
