// Package usecase defines the interfaces and implementations for todo command use cases.
// The create command persists a todo and then announces it on the message broker.
package usecase

import (
	"context"

	"github.com/allisson/todos/internal/todo/domain"
)

// TodoRepository defines the interface for Todo persistence operations.
type TodoRepository interface {
	// Create inserts a todo and returns it once the transaction committed.
	Create(ctx context.Context, title string) (*domain.Todo, error)
}

// EventPublisher defines the interface for delivering domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event, destination string) error
}

// TodoUseCase defines the interface for todo command business logic.
type TodoUseCase interface {
	// Create validates the command, persists the todo and publishes TODO_CREATED.
	//
	// When publishing fails the todo stays committed and the returned error is a
	// *domain.PublishFailedError carrying it.
	Create(ctx context.Context, input domain.CreateTodoInput) (*domain.Todo, error)
}
