package repository

import (
	"context"

	"github.com/allisson/todos/internal/database"
	"github.com/allisson/todos/internal/todo/domain"
)

// SQLiteTodoRepository implements Todo persistence for SQLite databases.
type SQLiteTodoRepository struct {
	acquirer ConnectionAcquirer
}

// NewSQLiteTodoRepository creates a new SQLite Todo repository.
func NewSQLiteTodoRepository(acquirer ConnectionAcquirer) *SQLiteTodoRepository {
	return &SQLiteTodoRepository{acquirer: acquirer}
}

// Create inserts a new todo and returns the committed row.
func (s *SQLiteTodoRepository) Create(ctx context.Context, title string) (*domain.Todo, error) {
	return create(ctx, s.acquirer, title, s.insert)
}

func (s *SQLiteTodoRepository) insert(
	ctx context.Context,
	querier database.Querier,
	title string,
) (*domain.Todo, error) {
	query := `INSERT INTO todos (title) VALUES (?) RETURNING id, title, completed`
	return scanTodo(querier.QueryRowContext(ctx, query, title))
}
