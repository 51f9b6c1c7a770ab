package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"hotelbook/shared/timezone"
	"time"

	"github.com/google/uuid"
)

const (
	TypeBookingCreated = "booking.created"
	TypeBookingUpdated = "booking.updated"
	TypeBookingDeleted = "booking.deleted"
	TypeBookingCheckIn = "booking.checkin"
)

// Envelope is the wire form of every domain event, whatever the broker.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// New wraps payload into an Envelope. key groups related events (the room id for
// booking events) so brokers that partition by key keep them ordered.
func New(eventType, key string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: timezone.Now(),
		Payload:    raw,
	}, nil
}

func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}

	return nil
}

type Handler func(ctx context.Context, evt Envelope) error

type Publisher interface {
	Publish(ctx context.Context, topic string, events ...Envelope) error
}

type Subscriber interface {
	// Subscribe blocks until ctx is done.
	Subscribe(ctx context.Context, topic string, handler Handler)
}

type Broker interface {
	Publisher
	Subscriber
	Close() error
}
