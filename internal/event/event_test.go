package event_test

import (
	"context"
	"hotelbook/config"
	"hotelbook/infras/otel/mocks"
	"hotelbook/internal/event"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkIn struct {
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
}

func TestNewAndDecode(t *testing.T) {
	evt, err := event.New(event.TypeBookingCheckIn, "room-1", checkIn{BookingID: "b-1", RoomID: "room-1"})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, event.TypeBookingCheckIn, evt.Type)
	assert.Equal(t, "room-1", evt.Key)
	assert.False(t, evt.OccurredAt.IsZero())
	assert.JSONEq(t, `{"booking_id":"b-1","room_id":"room-1"}`, string(evt.Payload))

	var decoded checkIn
	require.NoError(t, evt.Decode(&decoded))
	assert.Equal(t, "b-1", decoded.BookingID)
}

func TestNewRejectsUnmarshalablePayload(t *testing.T) {
	_, err := event.New(event.TypeBookingCreated, "k", func() {})
	assert.Error(t, err)
}

func TestNoopBroker(t *testing.T) {
	cfg := &config.Config{}
	cfg.Broker.Driver = "none"

	broker := event.NewBroker(cfg, mocks.NewOtel())

	evt, err := event.New(event.TypeBookingDeleted, "room-1", checkIn{BookingID: "b-1"})
	require.NoError(t, err)
	assert.NoError(t, broker.Publish(context.Background(), "booking.events", evt))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		broker.Subscribe(ctx, "booking.events", func(context.Context, event.Envelope) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("noop subscriber did not return after context cancellation")
	}

	assert.NoError(t, broker.Close())
}
