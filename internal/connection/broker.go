package connection

import (
	"context"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultDialTimeout = 30 * time.Second

// BrokerChannel is the subset of an AMQP channel used to publish events.
type BrokerChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// BrokerConnection is an open connection to the message broker.
type BrokerConnection interface {
	Channel() (BrokerChannel, error)
	Close() error
}

// BrokerDialer opens broker connections.
type BrokerDialer interface {
	Dial(ctx context.Context, url string) (BrokerConnection, error)
}

// AMQPDialer dials RabbitMQ with amqp091.
type AMQPDialer struct {
	// ConnectionName is reported to the broker as the client connection name.
	ConnectionName string
	// Timeout bounds the TCP dial and the AMQP handshake.
	Timeout time.Duration
}

// NewAMQPDialer creates an AMQPDialer with the default dial timeout.
func NewAMQPDialer(connectionName string) *AMQPDialer {
	return &AMQPDialer{ConnectionName: connectionName, Timeout: defaultDialTimeout}
}

// Dial opens a new AMQP connection to url.
func (d *AMQPDialer) Dial(ctx context.Context, url string) (BrokerConnection, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	props := amqp.NewConnectionProperties()
	if d.ConnectionName != "" {
		props.SetClientConnectionName(d.ConnectionName)
	}

	conn, err := amqp.DialConfig(url, amqp.Config{
		Properties: props,
		Dial: func(network, addr string) (net.Conn, error) {
			dialer := net.Dialer{Timeout: timeout}
			c, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			// Cleared by amqp091 once the handshake completes.
			if err := c.SetDeadline(time.Now().Add(timeout)); err != nil {
				_ = c.Close()
				return nil, err
			}
			return c, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &amqpConnection{conn: conn}, nil
}

type amqpConnection struct {
	conn *amqp.Connection
}

func (c *amqpConnection) Channel() (BrokerChannel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (c *amqpConnection) Close() error {
	return c.conn.Close()
}
