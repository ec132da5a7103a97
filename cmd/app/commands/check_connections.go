package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/allisson/todos/internal/connection"
)

// ConnectionAcquirer opens verified connections to the write store and the broker.
type ConnectionAcquirer interface {
	AcquireDatabaseConnection(ctx context.Context) (*sql.Conn, error)
	AcquireBrokerConnection(ctx context.Context) (connection.BrokerConnection, error)
}

// ConnectionStatus is the outcome of checking one dependency.
type ConnectionStatus struct {
	Target string `json:"target"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RunCheckConnections connects to the database and then to the broker, each within the
// configured retry window, and reports both results. It fails when either is unreachable.
func RunCheckConnections(
	ctx context.Context,
	acquirer ConnectionAcquirer,
	logger *slog.Logger,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	var failures []error
	check := func(target string, acquire func() (interface{ Close() error }, error)) ConnectionStatus {
		conn, err := acquire()
		if err != nil {
			logger.Error("connection check failed", slog.String("target", target), slog.Any("error", err))
			failures = append(failures, fmt.Errorf("%s: %w", target, err))
			return ConnectionStatus{Target: target, Status: "error", Error: err.Error()}
		}
		_ = conn.Close()
		return ConnectionStatus{Target: target, Status: "ok"}
	}

	statuses := []ConnectionStatus{
		check(connection.TargetDatabase, func() (interface{ Close() error }, error) {
			return acquirer.AcquireDatabaseConnection(ctx)
		}),
		check(connection.TargetBroker, func() (interface{ Close() error }, error) {
			return acquirer.AcquireBrokerConnection(ctx)
		}),
	}

	if format == "json" {
		if err := writeJSON(io.Writer, statuses); err != nil {
			return err
		}
	} else {
		for _, s := range statuses {
			line := fmt.Sprintf("%s: %s", s.Target, s.Status)
			if s.Error != "" {
				line += " (" + s.Error + ")"
			}
			if _, err := fmt.Fprintln(io.Writer, line); err != nil {
				return err
			}
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("connection check failed: %w", errors.Join(failures...))
	}
	return nil
}
