// Package publisher delivers todo domain events to the message broker.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/allisson/todos/internal/connection"
	apperrors "github.com/allisson/todos/internal/errors"
	"github.com/allisson/todos/internal/todo/domain"
)

// BrokerAcquirer hands out broker connections owned by the caller.
type BrokerAcquirer interface {
	AcquireBrokerConnection(ctx context.Context) (connection.BrokerConnection, error)
}

// AMQPEventPublisher publishes events to a queue through the default exchange.
//
// Each Publish opens its own connection and channel and closes both before returning.
// Delivery is at most once: there are no publisher confirms and a failed publish is not retried.
type AMQPEventPublisher struct {
	acquirer BrokerAcquirer
	durable  bool
	logger   *slog.Logger
}

// NewAMQPEventPublisher creates a publisher. When durable is set the destination queue is
// declared durable and messages are published persistent.
func NewAMQPEventPublisher(acquirer BrokerAcquirer, durable bool, logger *slog.Logger) *AMQPEventPublisher {
	return &AMQPEventPublisher{
		acquirer: acquirer,
		durable:  durable,
		logger:   logger,
	}
}

// Publish declares the destination queue and publishes event to it.
// Declaring a queue that already exists with the same arguments succeeds.
// Any failure matches apperrors.ErrPublish.
func (p *AMQPEventPublisher) Publish(ctx context.Context, event domain.Event, destination string) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %w", apperrors.ErrPublish, err)
	}

	conn, err := p.acquirer.AcquireBrokerConnection(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrPublish, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: failed to open channel: %w", apperrors.ErrPublish, err)
	}
	defer func() {
		_ = ch.Close()
	}()

	if _, err := ch.QueueDeclare(destination, p.durable, false, false, false, nil); err != nil {
		return fmt.Errorf("%w: failed to declare queue %q: %w", apperrors.ErrPublish, destination, err)
	}

	msg := amqp.Publishing{
		ContentType: "application/json",
		Type:        event.Type(),
		Body:        body,
	}
	if p.durable {
		msg.DeliveryMode = amqp.Persistent
	}

	if err := ch.PublishWithContext(ctx, "", destination, false, false, msg); err != nil {
		return fmt.Errorf("%w: failed to publish to %q: %w", apperrors.ErrPublish, destination, err)
	}

	p.logger.Info("published event",
		slog.String("type", event.Type()),
		slog.String("destination", destination),
		slog.Int64("todo_id", event.Data().ID),
	)

	return nil
}
