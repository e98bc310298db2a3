package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/barachat/gateway/internal/events"
	"github.com/barachat/gateway/internal/infrastructure/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "gateway.events"

// RabbitMQ implements Bus over a fanout exchange. Every gateway process
// binds its own exclusive, auto-deleted queue, so each instance receives
// every event exactly while it is alive and nothing is queued for it when
// it is not.
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	logger   logging.Logger
}

var _ Bus = (*RabbitMQ)(nil)

func NewRabbitMQ(uri, exchange string, logger logging.Logger) (*RabbitMQ, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange, // name
		"fanout", // kind
		false,    // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		"",    // name, broker-generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive to this connection
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &RabbitMQ{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    q.Name,
		logger:   logger,
	}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, env *events.Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return r.channel.PublishWithContext(ctx,
		r.exchange,
		string(env.Kind), // routing key, ignored by fanout but useful in traces
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (r *RabbitMQ) Subscribe(handler Handler) error {
	deliveries, err := r.channel.Consume(
		r.queue,
		"",    // consumer tag
		true,  // auto-ack: at-most-once by design
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume from queue %s: %w", r.queue, err)
	}

	go func() {
		for delivery := range deliveries {
			var env events.Envelope
			if err := json.Unmarshal(delivery.Body, &env); err != nil {
				r.logger.Warn(logging.RabbitMQ, logging.Fanout, "dropping undecodable envelope", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
				continue
			}
			handler(context.Background(), &env)
		}
	}()

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
