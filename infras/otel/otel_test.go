package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelbook/config"
	"hotelbook/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := otel.NewWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	_, scope := tracer.NewScope(context.Background(), "service", "service.Admit")
	scope.SetAttributes(map[string]any{
		"room_id":   "room-1",
		"nights":    4,
		"price":     int64(1500),
		"date_from": time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		"retry":     true,
	})
	scope.AddEvent("capacity_checked")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("no rooms left"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "service.Admit", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "no rooms left", span.Status().Description)
	assert.Len(t, span.Events(), 2)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	assert.Equal(t, "room-1", attrs["room_id"].AsString())
	assert.Equal(t, int64(4), attrs["nights"].AsInt64())
	assert.Equal(t, int64(1500), attrs["price"].AsInt64())
	assert.Equal(t, "2026-03-01", attrs["date_from"].AsString())
	assert.True(t, attrs["retry"].AsBool())
}

func TestNew_WithoutEndpoint(t *testing.T) {
	tracer := otel.New(&config.Config{})

	ctx, scope := tracer.NewScope(context.Background(), "handler", "handler.CreateBooking")
	defer scope.End()

	assert.NotNil(t, ctx)
}
