// Package repository implements the todo command store.
//
// Every Create acquires its own database connection from the connection supervisor, runs the
// insert inside a transaction on that connection and releases the connection before returning.
// PostgreSQL, MySQL and SQLite are supported.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/allisson/todos/internal/database"
	apperrors "github.com/allisson/todos/internal/errors"
	"github.com/allisson/todos/internal/todo/domain"
)

// ConnectionAcquirer hands out database connections owned by the caller.
type ConnectionAcquirer interface {
	AcquireDatabaseConnection(ctx context.Context) (*sql.Conn, error)
}

// insertFunc inserts a todo with the given title and returns the stored row.
type insertFunc func(ctx context.Context, querier database.Querier, title string) (*domain.Todo, error)

// create runs insert in a transaction on a freshly acquired connection.
// Errors match apperrors.ErrPersistence; a blank title is rejected before any connection is acquired.
func create(
	ctx context.Context,
	acquirer ConnectionAcquirer,
	title string,
	insert insertFunc,
) (*domain.Todo, error) {
	if err := (domain.CreateTodoInput{Title: title}).Validate(); err != nil {
		return nil, err
	}

	conn, err := acquirer.AcquireDatabaseConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	var todo *domain.Todo
	err = database.RunInTx(ctx, conn, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		todo, err = insert(ctx, tx, title)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create todo: %w", apperrors.ErrPersistence, err)
	}

	return todo, nil
}

// scanTodo reads a todo from a row with the columns id, title, completed.
func scanTodo(row *sql.Row) (*domain.Todo, error) {
	var todo domain.Todo
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Completed); err != nil {
		return nil, err
	}
	return &todo, nil
}
