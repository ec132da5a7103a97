package usecase

import (
	"context"
	"log/slog"

	"github.com/allisson/todos/internal/todo/domain"
)

// todoUseCase implements the TodoUseCase interface.
type todoUseCase struct {
	todoRepo    TodoRepository
	publisher   EventPublisher
	destination string
	logger      *slog.Logger
}

// Create runs the create todo command: Received -> Persisted -> Published -> Acknowledged.
//
// The command is detached from the caller's cancellation: once started it always reaches
// a terminal state, so a committed todo is never left without a publish attempt.
// There is no rollback when the publish fails (at-most-once delivery after a durable write).
func (t *todoUseCase) Create(ctx context.Context, input domain.CreateTodoInput) (*domain.Todo, error) {
	ctx = context.WithoutCancel(ctx)

	if err := input.Validate(); err != nil {
		t.logOutcome(ctx, nil, err)
		return nil, err
	}

	todo, err := t.todoRepo.Create(ctx, input.Title)
	if err != nil {
		t.logOutcome(ctx, nil, err)
		return nil, err
	}

	t.logger.DebugContext(ctx, "todo persisted",
		slog.String("state", domain.StatePersisted.String()),
		slog.Int64("todo_id", todo.ID),
	)

	event := domain.NewTodoCreatedEvent(*todo)
	if err := t.publisher.Publish(ctx, event, t.destination); err != nil {
		publishErr := domain.NewPublishFailedError(todo, err)
		t.logOutcome(ctx, todo, publishErr)
		return nil, publishErr
	}

	t.logOutcome(ctx, todo, nil)
	return todo, nil
}

func (t *todoUseCase) logOutcome(ctx context.Context, todo *domain.Todo, err error) {
	state := domain.OutcomeOf(err)
	attrs := []any{slog.String("state", state.String())}
	if todo != nil {
		attrs = append(attrs, slog.Int64("todo_id", todo.ID))
	}

	switch state {
	case domain.StateAcknowledged:
		t.logger.InfoContext(ctx, "todo created", attrs...)
	case domain.StateValidationFailed:
		t.logger.InfoContext(ctx, "create todo rejected", append(attrs, slog.Any("error", err))...)
	case domain.StatePublishFailed:
		t.logger.ErrorContext(ctx, "todo saved but event not published", append(attrs, slog.Any("error", err))...)
	default:
		t.logger.ErrorContext(ctx, "failed to create todo", append(attrs, slog.Any("error", err))...)
	}
}

// NewTodoUseCase creates a new TodoUseCase publishing events to destination.
func NewTodoUseCase(
	todoRepo TodoRepository,
	publisher EventPublisher,
	destination string,
	logger *slog.Logger,
) TodoUseCase {
	return &todoUseCase{
		todoRepo:    todoRepo,
		publisher:   publisher,
		destination: destination,
		logger:      logger,
	}
}
