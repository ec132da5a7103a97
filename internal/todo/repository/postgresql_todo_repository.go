package repository

import (
	"context"

	"github.com/allisson/todos/internal/database"
	"github.com/allisson/todos/internal/todo/domain"
)

// PostgreSQLTodoRepository implements Todo persistence for PostgreSQL databases.
type PostgreSQLTodoRepository struct {
	acquirer ConnectionAcquirer
}

// NewPostgreSQLTodoRepository creates a new PostgreSQL Todo repository.
func NewPostgreSQLTodoRepository(acquirer ConnectionAcquirer) *PostgreSQLTodoRepository {
	return &PostgreSQLTodoRepository{acquirer: acquirer}
}

// Create inserts a new todo and returns the committed row.
func (p *PostgreSQLTodoRepository) Create(ctx context.Context, title string) (*domain.Todo, error) {
	return create(ctx, p.acquirer, title, p.insert)
}

func (p *PostgreSQLTodoRepository) insert(
	ctx context.Context,
	querier database.Querier,
	title string,
) (*domain.Todo, error) {
	query := `INSERT INTO todos (title) VALUES ($1) RETURNING id, title, completed`
	return scanTodo(querier.QueryRowContext(ctx, query, title))
}
