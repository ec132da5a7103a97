package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event delivery results.
const (
	EventPublished = "published"
	EventFailed    = "failed"
)

// CommandMetrics records the outcome of write commands and of the events they emit.
type CommandMetrics interface {
	// RecordCommand records a command that reached the terminal state after duration.
	RecordCommand(ctx context.Context, command, state string, duration time.Duration)

	// RecordEvent records one publish of an event of eventType with its result.
	RecordEvent(ctx context.Context, eventType, result string)
}

type commandMetrics struct {
	commandCounter metric.Int64Counter
	durationHisto  metric.Float64Histogram
	eventCounter   metric.Int64Counter
}

// NewCommandMetrics creates CommandMetrics using the provided meter provider.
// Instruments are named <namespace>_commands_total, <namespace>_command_duration_seconds
// and <namespace>_events_total.
func NewCommandMetrics(meterProvider metric.MeterProvider, namespace string) (CommandMetrics, error) {
	meter := meterProvider.Meter(namespace)

	commandCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_commands_total", namespace),
		metric.WithDescription("Total number of commands by terminal state"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_command_duration_seconds", namespace),
		metric.WithDescription("Time from accepting a command to its terminal state"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create command duration histogram: %w", err)
	}

	eventCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_events_total", namespace),
		metric.WithDescription("Total number of domain event publishes by result"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event counter: %w", err)
	}

	return &commandMetrics{
		commandCounter: commandCounter,
		durationHisto:  durationHisto,
		eventCounter:   eventCounter,
	}, nil
}

func (m *commandMetrics) RecordCommand(ctx context.Context, command, state string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("state", state),
	)
	m.commandCounter.Add(ctx, 1, attrs)
	m.durationHisto.Record(ctx, duration.Seconds(), attrs)
}

func (m *commandMetrics) RecordEvent(ctx context.Context, eventType, result string) {
	m.eventCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("type", eventType),
			attribute.String("result", result),
		),
	)
}

// NoOpCommandMetrics is used when metrics are disabled.
type NoOpCommandMetrics struct{}

// NewNoOpCommandMetrics creates a no-op CommandMetrics implementation.
func NewNoOpCommandMetrics() CommandMetrics {
	return &NoOpCommandMetrics{}
}

func (n *NoOpCommandMetrics) RecordCommand(ctx context.Context, command, state string, duration time.Duration) {
}

func (n *NoOpCommandMetrics) RecordEvent(ctx context.Context, eventType, result string) {}
