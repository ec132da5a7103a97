// Package mocks provides an in-memory message broker for testing publishers and handlers.
package mocks

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/allisson/todos/internal/connection"
)

// ErrBrokerUnreachable is returned by Dial while the broker is marked unreachable.
var ErrBrokerUnreachable = errors.New("dial tcp: connection refused")

// Message is a message accepted by the in-memory broker.
type Message struct {
	Exchange   string
	RoutingKey string
	Publishing amqp.Publishing
}

// Broker implements connection.BrokerDialer and records every declared queue and published message.
type Broker struct {
	mu sync.Mutex

	unreachable  bool
	failDials    int
	declareErr   error
	publishErr   error
	queues       map[string]bool
	messages     []Message
	dials        int
	openConns    int
	openChannels int
}

// NewBroker creates a reachable in-memory broker.
func NewBroker() *Broker {
	return &Broker{queues: make(map[string]bool)}
}

// SetUnreachable makes every Dial fail until called with false.
func (b *Broker) SetUnreachable(unreachable bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unreachable = unreachable
}

// FailNextDials makes the next n Dial calls fail.
func (b *Broker) FailNextDials(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failDials = n
}

// SetDeclareError makes QueueDeclare return err.
func (b *Broker) SetDeclareError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.declareErr = err
}

// SetPublishError makes PublishWithContext return err.
func (b *Broker) SetPublishError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publishErr = err
}

// Dial opens a connection to the in-memory broker.
func (b *Broker) Dial(ctx context.Context, url string) (connection.BrokerConnection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.dials++
	if b.unreachable {
		return nil, ErrBrokerUnreachable
	}
	if b.failDials > 0 {
		b.failDials--
		return nil, ErrBrokerUnreachable
	}

	b.openConns++
	return &brokerConnection{broker: b}, nil
}

// Messages returns a copy of the published messages in publish order.
func (b *Broker) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.messages...)
}

// Queue reports whether name was declared and whether it is durable.
func (b *Broker) Queue(name string) (declared, durable bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	durable, declared = b.queues[name]
	return declared, durable
}

// Dials returns the number of Dial calls, failed ones included.
func (b *Broker) Dials() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dials
}

// OpenConnections returns the number of connections that were not closed.
func (b *Broker) OpenConnections() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openConns
}

// OpenChannels returns the number of channels that were not closed.
func (b *Broker) OpenChannels() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openChannels
}

type brokerConnection struct {
	broker *Broker
	closed bool
}

func (c *brokerConnection) Channel() (connection.BrokerChannel, error) {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()

	if c.closed {
		return nil, amqp.ErrClosed
	}
	c.broker.openChannels++
	return &brokerChannel{broker: c.broker}, nil
}

func (c *brokerConnection) Close() error {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()

	if c.closed {
		return amqp.ErrClosed
	}
	c.closed = true
	c.broker.openConns--
	return nil
}

type brokerChannel struct {
	broker *Broker
	closed bool
}

func (ch *brokerChannel) QueueDeclare(
	name string,
	durable, autoDelete, exclusive, noWait bool,
	args amqp.Table,
) (amqp.Queue, error) {
	b := ch.broker
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch.closed {
		return amqp.Queue{}, amqp.ErrClosed
	}
	if b.declareErr != nil {
		return amqp.Queue{}, b.declareErr
	}
	if existing, ok := b.queues[name]; ok && existing != durable {
		return amqp.Queue{}, &amqp.Error{
			Code:   amqp.PreconditionFailed,
			Reason: "PRECONDITION_FAILED - inequivalent arg 'durable' for queue '" + name + "'",
		}
	}
	b.queues[name] = durable

	return amqp.Queue{Name: name, Messages: b.countLocked(name)}, nil
}

func (ch *brokerChannel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	b := ch.broker
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch.closed {
		return amqp.ErrClosed
	}
	if b.publishErr != nil {
		return b.publishErr
	}
	b.messages = append(b.messages, Message{Exchange: exchange, RoutingKey: key, Publishing: msg})
	return nil
}

func (ch *brokerChannel) Close() error {
	ch.broker.mu.Lock()
	defer ch.broker.mu.Unlock()

	if ch.closed {
		return amqp.ErrClosed
	}
	ch.closed = true
	ch.broker.openChannels--
	return nil
}

func (b *Broker) countLocked(queue string) int {
	n := 0
	for _, m := range b.messages {
		if m.Exchange == "" && m.RoutingKey == queue {
			n++
		}
	}
	return n
}
