package event

import (
	"context"
	"encoding/json"
	"fmt"
	"hotelbook/config"
	"hotelbook/infras/kafka"
	"hotelbook/infras/otel"
	"hotelbook/infras/rabbitmq"
	"hotelbook/shared/constant"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// NewBroker picks the transport named by BROKER_DRIVER. Unknown drivers fall back to a no-op broker.
func NewBroker(cfg *config.Config, otl otel.Otel) Broker {
	switch cfg.Broker.Driver {
	case constant.BrokerDriverKafka:
		return &kafkaBroker{client: kafka.New(cfg, otl)}
	case constant.BrokerDriverRabbitMQ:
		return &rabbitBroker{client: rabbitmq.New(cfg, otl)}
	case constant.BrokerDriverNone, constant.Empty:
		return noopBroker{}
	default:
		log.Warn().Str("driver", cfg.Broker.Driver).Msg("unknown broker driver, events will be dropped")

		return noopBroker{}
	}
}

type kafkaBroker struct {
	client kafka.Client
}

func (b *kafkaBroker) Publish(ctx context.Context, topic string, events ...Envelope) error {
	messages := make([]kafka.Message, len(events))
	for i, evt := range events {
		messages[i] = kafka.Message{Key: evt.Key, Value: evt}
	}

	return b.client.SendMessages(ctx, topic, messages...) //nolint:wrapcheck
}

func (b *kafkaBroker) Subscribe(ctx context.Context, topic string, handler Handler) {
	b.client.Consume(ctx, "", topic, func(ctx context.Context, msg kafkaGo.Message) error {
		evt, err := kafka.Decode[Envelope](msg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return handler(ctx, evt)
	})
}

func (b *kafkaBroker) Close() error {
	return b.client.Close() //nolint:wrapcheck
}

type rabbitBroker struct {
	client rabbitmq.Client
}

func (b *rabbitBroker) Publish(ctx context.Context, topic string, events ...Envelope) error {
	messages := make([]rabbitmq.Message, len(events))
	for i, evt := range events {
		messages[i] = rabbitmq.Message{Key: evt.ID, Value: evt}
	}

	return b.client.Publish(ctx, topic, messages...) //nolint:wrapcheck
}

func (b *rabbitBroker) Subscribe(ctx context.Context, topic string, handler Handler) {
	b.client.Consume(ctx, topic, func(ctx context.Context, delivery amqp.Delivery) error {
		var evt Envelope

		if err := json.Unmarshal(delivery.Body, &evt); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}

		return handler(ctx, evt)
	})
}

func (b *rabbitBroker) Close() error {
	return b.client.Close() //nolint:wrapcheck
}

type noopBroker struct{}

func (noopBroker) Publish(_ context.Context, topic string, events ...Envelope) error {
	for _, evt := range events {
		log.Debug().Str("topic", topic).Str("type", evt.Type).Str("key", evt.Key).Msg("broker disabled, event dropped")
	}

	return nil
}

func (noopBroker) Subscribe(ctx context.Context, topic string, _ Handler) {
	log.Warn().Str("topic", topic).Msg("broker disabled, subscriber idle")
	<-ctx.Done()
}

func (noopBroker) Close() error {
	return nil
}
