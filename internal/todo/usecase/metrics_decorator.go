package usecase

import (
	"context"
	"time"

	"github.com/allisson/todos/internal/metrics"
	"github.com/allisson/todos/internal/todo/domain"
)

const createTodoCommand = "create_todo"

// todoUseCaseWithMetrics decorates TodoUseCase with metrics instrumentation.
type todoUseCaseWithMetrics struct {
	next    TodoUseCase
	metrics metrics.CommandMetrics
}

// NewTodoUseCaseWithMetrics wraps a TodoUseCase with metrics recording.
// Every command is recorded with its terminal state. A TODO_CREATED publish is recorded
// only when one was attempted, that is when the todo was persisted.
func NewTodoUseCaseWithMetrics(useCase TodoUseCase, m metrics.CommandMetrics) TodoUseCase {
	return &todoUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for todo creation.
func (t *todoUseCaseWithMetrics) Create(
	ctx context.Context,
	input domain.CreateTodoInput,
) (*domain.Todo, error) {
	start := time.Now()
	todo, err := t.next.Create(ctx, input)

	state := domain.OutcomeOf(err)
	t.metrics.RecordCommand(ctx, createTodoCommand, state.String(), time.Since(start))

	switch state {
	case domain.StateAcknowledged:
		t.metrics.RecordEvent(ctx, domain.TodoCreatedEventType, metrics.EventPublished)
	case domain.StatePublishFailed:
		t.metrics.RecordEvent(ctx, domain.TodoCreatedEventType, metrics.EventFailed)
	}

	return todo, err
}
