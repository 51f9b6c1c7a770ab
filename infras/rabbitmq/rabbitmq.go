package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hotelbook/config"
	"hotelbook/infras/otel"
	"hotelbook/shared/constant"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName   = "rabbitmq"
	prefetchCount   = 50
	maxReconnectGap = 30 * time.Second
)

var errDeliveriesClosed = errors.New("deliveries channel closed")

type Message struct {
	Key   string
	Value any
}

// Client publishes JSON messages to durable queues and consumes them back.
// Queues are addressed through the default exchange, so the queue name is the routing key.
type Client interface {
	Publish(ctx context.Context, queue string, messages ...Message) error
	Consume(ctx context.Context, queue string, handler func(ctx context.Context, delivery amqp.Delivery) error)
	Close() error
}

type clientImpl struct {
	cfg  *config.Config
	otel otel.Otel

	mu   sync.Mutex
	conn *amqp.Connection
}

func New(cfg *config.Config, otl otel.Otel) Client {
	log.Info().Msg("RabbitMQ client initialized")

	return &clientImpl{
		cfg:  cfg,
		otel: otl,
	}
}

func (c *clientImpl) connection() (*amqp.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn, nil
	}

	conn, err := amqp.Dial(c.cfg.RabbitMQ.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	c.conn = conn

	return conn, nil
}

func declare(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return nil
}

func (c *clientImpl) Publish(ctx context.Context, queue string, messages ...Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("queue", queue)

	conn, err := c.connection()
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("Failed to connect to RabbitMQ.")

		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err = declare(ch, queue); err != nil {
		return err
	}

	for _, message := range messages {
		body, err := json.Marshal(message.Value)
		if err != nil {
			return fmt.Errorf("failed to marshal message value to JSON: %w", err)
		}

		err = ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
			ContentType:  constant.ContentTypeJSON,
			DeliveryMode: amqp.Persistent,
			MessageId:    message.Key,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
		if err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("Failed to publish message to RabbitMQ.")

			return fmt.Errorf("failed to publish message to RabbitMQ: %w", err)
		}
	}

	log.Info().Str("queue", queue).Int("count", len(messages)).Msg("Published messages successfully.")

	return nil
}

// Consume blocks until ctx is done, reconnecting with exponential backoff when
// the broker goes away. Messages whose handler fails are rejected without requeue.
func (c *clientImpl) Consume(ctx context.Context, queue string, handler func(ctx context.Context, delivery amqp.Delivery) error) {
	backoff := time.Second

	for {
		err := c.consumeOnce(ctx, queue, handler)
		if ctx.Err() != nil {
			log.Info().Str("queue", queue).Msg("Consumer context done.")

			return
		}

		log.Error().Err(err).Str("queue", queue).Dur("retry_in", backoff).Msg("RabbitMQ consume loop ended, reconnecting.")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		if backoff < maxReconnectGap {
			backoff *= 2
		}
	}
}

func (c *clientImpl) consumeOnce(ctx context.Context, queue string, handler func(ctx context.Context, delivery amqp.Delivery) error) error {
	conn, err := c.connection()
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err = ch.Qos(prefetchCount, 0, false); err != nil {
		log.Warn().Err(err).Msg("Failed to set RabbitMQ QoS.")
	}

	if err = declare(ch, queue); err != nil {
		return err
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %s: %w", queue, err)
	}

	for delivery := range deliveries {
		if err := handler(ctx, delivery); err != nil {
			log.Error().Err(err).Str("queue", queue).Str("message_id", delivery.MessageId).Msg("Failed to handle message.")

			_ = delivery.Nack(false, false)

			continue
		}

		_ = delivery.Ack(false)
	}

	return errDeliveriesClosed
}

func (c *clientImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}

	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("failed to close rabbitmq connection: %w", err)
	}

	return nil
}
