package repository

import (
	"context"

	"github.com/allisson/todos/internal/database"
	"github.com/allisson/todos/internal/todo/domain"
)

// MySQLTodoRepository implements Todo persistence for MySQL databases.
//
// MySQL has no RETURNING clause, so the row is read back by its generated id inside the
// same transaction as the insert.
type MySQLTodoRepository struct {
	acquirer ConnectionAcquirer
}

// NewMySQLTodoRepository creates a new MySQL Todo repository.
func NewMySQLTodoRepository(acquirer ConnectionAcquirer) *MySQLTodoRepository {
	return &MySQLTodoRepository{acquirer: acquirer}
}

// Create inserts a new todo and returns the committed row.
// Unlike the PostgreSQL and SQLite stores this takes two round trips (INSERT, then SELECT by
// LastInsertId) instead of a single INSERT ... RETURNING.
func (m *MySQLTodoRepository) Create(ctx context.Context, title string) (*domain.Todo, error) {
	return create(ctx, m.acquirer, title, m.insert)
}

func (m *MySQLTodoRepository) insert(
	ctx context.Context,
	querier database.Querier,
	title string,
) (*domain.Todo, error) {
	result, err := querier.ExecContext(ctx, `INSERT INTO todos (title) VALUES (?)`, title)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	query := `SELECT id, title, completed FROM todos WHERE id = ?`
	return scanTodo(querier.QueryRowContext(ctx, query, id))
}
