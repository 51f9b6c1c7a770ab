package kafka_test

import (
	"hotelbook/infras/kafka"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingEvent struct {
	BookingID string `json:"booking_id"`
	Nights    int    `json:"nights"`
}

func TestMessageRoundTrip(t *testing.T) {
	msg := kafka.Message{Key: "room-1", Value: bookingEvent{BookingID: "b-1", Nights: 3}}

	kafkaMsg, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("room-1"), kafkaMsg.Key)
	assert.JSONEq(t, `{"booking_id":"b-1","nights":3}`, string(kafkaMsg.Value))

	decoded, err := kafka.Decode[bookingEvent](kafkaMsg)
	require.NoError(t, err)
	assert.Equal(t, bookingEvent{BookingID: "b-1", Nights: 3}, decoded)
}

func TestToKafkaMessageUnsupportedValue(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := kafka.Decode[bookingEvent](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
}
