package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/todos/internal/todo/domain"
	"github.com/allisson/todos/internal/todo/http/dto"
	todoUseCase "github.com/allisson/todos/internal/todo/usecase"
)

// RunCreateTodo runs the create todo command outside of the HTTP server.
// The todo is persisted and its TODO_CREATED event is published exactly as for
// POST /v1/todos. Outputs the stored todo in either text or JSON format.
//
// When the event cannot be published the todo stays saved; its id is printed and an
// error is returned.
//
// Requirements: Database must be migrated and accessible.
func RunCreateTodo(
	ctx context.Context,
	useCase todoUseCase.TodoUseCase,
	logger *slog.Logger,
	title string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	todo, err := useCase.Create(ctx, domain.CreateTodoInput{Title: title})
	if err != nil {
		var publishErr *domain.PublishFailedError
		if errors.As(err, &publishErr) {
			if format == "json" {
				_ = writeJSON(io.Writer, dto.MapTodoToPublishFailedResponse(publishErr.Todo))
			} else {
				_, _ = fmt.Fprintf(io.Writer, "Todo %d was saved but its event was not published.\n", publishErr.Todo.ID)
			}
		}
		return fmt.Errorf("failed to create todo: %w", err)
	}

	if format == "json" {
		if err := writeJSON(io.Writer, dto.MapTodoToCreateResponse(todo)); err != nil {
			return err
		}
	} else {
		outputTodoText(todo, io.Writer)
	}

	logger.Info("todo created from cli", slog.Int64("todo_id", todo.ID))
	return nil
}

// outputTodoText outputs the todo in human-readable text format.
func outputTodoText(todo *domain.Todo, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, dto.CreatedMessage)
	_, _ = fmt.Fprintf(writer, "ID: %d\n", todo.ID)
	_, _ = fmt.Fprintf(writer, "Title: %s\n", todo.Title)
	_, _ = fmt.Fprintf(writer, "Completed: %t\n", todo.Completed)
}
