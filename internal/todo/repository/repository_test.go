package repository

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/todos/internal/connection"
	"github.com/allisson/todos/internal/connection/mocks"
)

var todoColumns = []string{"id", "title", "completed"}

func newTestSupervisor(db *sql.DB, maxAttempts int) *connection.Supervisor {
	return connection.NewSupervisor(
		db,
		"",
		mocks.NewBroker(),
		connection.NewRetryPolicy(maxAttempts, 0),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	return cleanupMockDB(t, db, mock, err)
}

// newPingMockDB returns a mock whose pings are matched against ExpectPing expectations.
func newPingMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	return cleanupMockDB(t, db, mock, err)
}

func cleanupMockDB(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, err error) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, mock
}
