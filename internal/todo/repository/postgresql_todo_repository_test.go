package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/todos/internal/connection"
	apperrors "github.com/allisson/todos/internal/errors"
	"github.com/allisson/todos/internal/testutil"
	"github.com/allisson/todos/internal/todo/domain"
)

const postgresInsertQuery = `INSERT INTO todos (title) VALUES ($1) RETURNING id, title, completed`

func TestNewPostgreSQLTodoRepository(t *testing.T) {
	db, _ := newMockDB(t)

	repo := NewPostgreSQLTodoRepository(newTestSupervisor(db, 1))
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLTodoRepository{}, repo)
}

func TestPostgreSQLTodoRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(postgresInsertQuery)).
			WithArgs("buy milk").
			WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(1), "buy milk", false))
		mock.ExpectCommit()

		repo := NewPostgreSQLTodoRepository(newTestSupervisor(db, 1))
		todo, err := repo.Create(ctx, "buy milk")

		require.NoError(t, err)
		assert.Equal(t, &domain.Todo{ID: 1, Title: "buy milk", Completed: false}, todo)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, 0, db.Stats().InUse)
	})

	t.Run("Error_BlankTitle", func(t *testing.T) {
		db, mock := newPingMockDB(t)

		repo := NewPostgreSQLTodoRepository(newTestSupervisor(db, 1))
		todo, err := repo.Create(ctx, "   ")

		assert.Nil(t, todo)
		assert.ErrorIs(t, err, domain.ErrTitleRequired)
		assert.NotErrorIs(t, err, apperrors.ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_ConnectionExhausted", func(t *testing.T) {
		db, mock := newPingMockDB(t)
		pingErr := errors.New("connection refused")
		for range 3 {
			mock.ExpectPing().WillReturnError(pingErr)
		}

		repo := NewPostgreSQLTodoRepository(newTestSupervisor(db, 3))
		todo, err := repo.Create(ctx, "buy milk")

		assert.Nil(t, todo)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.ErrorIs(t, err, connection.ErrConnectionExhausted)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_Begin", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		repo := NewPostgreSQLTodoRepository(newTestSupervisor(db, 1))
		todo, err := repo.Create(ctx, "buy milk")

		assert.Nil(t, todo)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_InsertRollsBack", func(t *testing.T) {
		db, mock := newMockDB(t)
		insertErr := errors.New("relation \"todos\" does not exist")
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(postgresInsertQuery)).
			WithArgs("buy milk").
			WillReturnError(insertErr)
		mock.ExpectRollback()

		repo := NewPostgreSQLTodoRepository(newTestSupervisor(db, 1))
		todo, err := repo.Create(ctx, "buy milk")

		assert.Nil(t, todo)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.ErrorIs(t, err, insertErr)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, 0, db.Stats().InUse)
	})

	t.Run("Error_Commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		commitErr := errors.New("could not serialize access")
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(postgresInsertQuery)).
			WithArgs("buy milk").
			WillReturnRows(sqlmock.NewRows(todoColumns).AddRow(int64(1), "buy milk", false))
		mock.ExpectCommit().WillReturnError(commitErr)

		repo := NewPostgreSQLTodoRepository(newTestSupervisor(db, 1))
		todo, err := repo.Create(ctx, "buy milk")

		assert.Nil(t, todo)
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
		assert.ErrorIs(t, err, commitErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLTodoRepository_Create_Integration(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLTodoRepository(newTestSupervisor(db, 1))
	ctx := context.Background()

	first, err := repo.Create(ctx, "buy milk")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "walk the dog")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, []testutil.TodoRow{
		{ID: first.ID, Title: "buy milk"},
		{ID: second.ID, Title: "walk the dog"},
	}, testutil.ListTodos(t, db))
}
