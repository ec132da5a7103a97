package connection

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/allisson/todos/internal/errors"
	"github.com/allisson/todos/internal/metrics"
)

// ErrConnectionExhausted is returned when every connection attempt failed.
var ErrConnectionExhausted = apperrors.WithKind(apperrors.ErrUnavailable, "connection attempts exhausted")

// Connection targets used in logs and errors.
const (
	TargetDatabase = "database"
	TargetBroker   = "broker"
)

// Supervisor hands out database and broker connections, retrying failed attempts.
//
// Handles are not pooled by the Supervisor: the caller owns every handle it acquires and
// must close it when the operation completes.
type Supervisor struct {
	db        *sql.DB
	brokerURL string
	dialer    BrokerDialer
	policy    RetryPolicy
	logger    *slog.Logger
	metrics   metrics.ConnectionMetrics
}

// NewSupervisor creates a Supervisor over the database pool and the broker URL.
func NewSupervisor(
	db *sql.DB,
	brokerURL string,
	dialer BrokerDialer,
	policy RetryPolicy,
	logger *slog.Logger,
) *Supervisor {
	return &Supervisor{
		db:        db,
		brokerURL: brokerURL,
		dialer:    dialer,
		policy:    policy,
		logger:    logger,
		metrics:   metrics.NewNoOpConnectionMetrics(),
	}
}

// WithMetrics records every connection attempt in m.
func (s *Supervisor) WithMetrics(m metrics.ConnectionMetrics) *Supervisor {
	s.metrics = m
	return s
}

// AcquireDatabaseConnection checks a connection out of the pool and verifies it with a ping.
// The returned connection must be closed by the caller to return it to the pool.
func (s *Supervisor) AcquireDatabaseConnection(ctx context.Context) (*sql.Conn, error) {
	var conn *sql.Conn

	err := s.acquire(ctx, TargetDatabase, func(ctx context.Context) error {
		c, err := s.db.Conn(ctx)
		if err != nil {
			return err
		}
		if err := c.PingContext(ctx); err != nil {
			_ = c.Close()
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// AcquireBrokerConnection opens a new broker connection.
// The returned connection must be closed by the caller.
func (s *Supervisor) AcquireBrokerConnection(ctx context.Context) (BrokerConnection, error) {
	var conn BrokerConnection

	err := s.acquire(ctx, TargetBroker, func(ctx context.Context) error {
		c, err := s.dialer.Dial(ctx, s.brokerURL)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conn, nil
}

func (s *Supervisor) acquire(ctx context.Context, target string, op Attempt) error {
	measured := func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			s.metrics.RecordAttempt(ctx, target, metrics.ConnectionFailure)
			return err
		}
		s.metrics.RecordAttempt(ctx, target, metrics.ConnectionSuccess)
		return nil
	}

	err := s.policy.Do(ctx, measured, func(attempt int, err error, next time.Duration) {
		s.logger.Warn("connection attempt failed",
			slog.String("target", target),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.policy.MaxAttempts),
			slog.Duration("retry_in", next),
			slog.Any("error", err),
		)
	})
	if err != nil {
		s.metrics.RecordExhausted(ctx, target)
		s.logger.Error("connection attempts exhausted",
			slog.String("target", target),
			slog.Int("max_attempts", s.policy.MaxAttempts),
			slog.Any("error", err),
		)
		return fmt.Errorf("%w: %s: %w", ErrConnectionExhausted, target, err)
	}

	return nil
}
