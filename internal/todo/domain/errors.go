package domain

import (
	"fmt"

	apperrors "github.com/allisson/todos/internal/errors"
)

// Todo-specific error definitions.
var (
	// ErrTitleRequired indicates the command has no usable title.
	ErrTitleRequired = apperrors.WithKind(apperrors.ErrInvalidInput, "Title is required")
)

// PublishFailedError reports a todo that was committed but whose event was not delivered.
// The write is not rolled back, so Todo is durable in the store.
type PublishFailedError struct {
	Todo *Todo
	Err  error
}

// NewPublishFailedError creates a PublishFailedError for the committed todo.
func NewPublishFailedError(todo *Todo, err error) *PublishFailedError {
	return &PublishFailedError{Todo: todo, Err: err}
}

func (e *PublishFailedError) Error() string {
	return fmt.Sprintf("todo %d was saved but its event was not published: %v", e.Todo.ID, e.Err)
}

// Unwrap returns ErrPublish and the publish cause.
func (e *PublishFailedError) Unwrap() []error {
	return []error{apperrors.ErrPublish, e.Err}
}
