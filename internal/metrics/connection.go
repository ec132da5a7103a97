package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Connection attempt results.
const (
	ConnectionSuccess   = "success"
	ConnectionFailure   = "failure"
	ConnectionExhausted = "exhausted"
)

// ConnectionMetrics records connection attempts made against the database and the broker.
type ConnectionMetrics interface {
	// RecordAttempt records one attempt against target ("database", "broker").
	// Result is ConnectionSuccess or ConnectionFailure.
	RecordAttempt(ctx context.Context, target, result string)

	// RecordExhausted records a retry window that ended without a connection.
	RecordExhausted(ctx context.Context, target string)
}

type connectionMetrics struct {
	attemptCounter   metric.Int64Counter
	exhaustedCounter metric.Int64Counter
}

// NewConnectionMetrics creates ConnectionMetrics using the provided meter provider.
func NewConnectionMetrics(meterProvider metric.MeterProvider, namespace string) (ConnectionMetrics, error) {
	meter := meterProvider.Meter(namespace)

	attemptCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_connection_attempts_total", namespace),
		metric.WithDescription("Total number of connection attempts by target and result"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection attempt counter: %w", err)
	}

	exhaustedCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_connection_exhausted_total", namespace),
		metric.WithDescription("Total number of retry windows that ended without a connection"),
		metric.WithUnit("{window}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection exhausted counter: %w", err)
	}

	return &connectionMetrics{
		attemptCounter:   attemptCounter,
		exhaustedCounter: exhaustedCounter,
	}, nil
}

func (m *connectionMetrics) RecordAttempt(ctx context.Context, target, result string) {
	m.attemptCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("target", target),
			attribute.String("result", result),
		),
	)
}

func (m *connectionMetrics) RecordExhausted(ctx context.Context, target string) {
	m.exhaustedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("target", target)))
}

// NoOpConnectionMetrics is used when metrics are disabled.
type NoOpConnectionMetrics struct{}

// NewNoOpConnectionMetrics creates a no-op ConnectionMetrics implementation.
func NewNoOpConnectionMetrics() ConnectionMetrics {
	return &NoOpConnectionMetrics{}
}

func (n *NoOpConnectionMetrics) RecordAttempt(ctx context.Context, target, result string) {}

func (n *NoOpConnectionMetrics) RecordExhausted(ctx context.Context, target string) {}
