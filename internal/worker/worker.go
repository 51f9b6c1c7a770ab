package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hotelbook/config"
	"hotelbook/internal/domains/booking/model/dto"
	bookingService "hotelbook/internal/domains/booking/service"
	"hotelbook/internal/event"
	"hotelbook/shared/logger"
	"hotelbook/shared/timezone"

	"github.com/rs/zerolog"
)

const defaultCheckInInterval = 24 * time.Hour

// Worker consumes booking events and periodically announces today's check-ins.
type Worker struct {
	cfg     *config.Config
	booking bookingService.Booking
	broker  event.Broker
	log     zerolog.Logger
}

func New(cfg *config.Config, booking bookingService.Booking, broker event.Broker) *Worker {
	return &Worker{
		cfg:     cfg,
		booking: booking,
		broker:  broker,
		log:     logger.Component("worker"),
	}
}

// Run blocks until ctx is done, then closes the broker.
func (w *Worker) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		w.broker.Subscribe(ctx, w.cfg.Broker.Topics.Booking, w.HandleEvent)
	}()

	go func() {
		defer wg.Done()

		w.checkInLoop(ctx)
	}()

	wg.Wait()

	if err := w.broker.Close(); err != nil {
		return fmt.Errorf("failed to close broker: %w", err)
	}

	w.log.Info().Msg("worker stopped")

	return nil
}

func (w *Worker) interval() time.Duration {
	if w.cfg.Worker.CheckInIntervalSeconds <= 0 {
		return defaultCheckInInterval
	}

	return time.Duration(w.cfg.Worker.CheckInIntervalSeconds) * time.Second
}

func (w *Worker) checkInLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()

	w.CheckIn(ctx, timezone.Today())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.CheckIn(ctx, timezone.Today())
		}
	}
}

// CheckIn publishes a check-in event for every booking starting on day.
func (w *Worker) CheckIn(ctx context.Context, day time.Time) {
	sent, err := w.booking.PublishCheckIns(ctx, day)
	if err != nil {
		w.log.Error().Err(err).Time("day", day).Msg("failed to publish check-ins")

		return
	}

	w.log.Info().Int("bookings", sent).Time("day", day).Msg("check-ins published")
}

// HandleEvent is the notification hook for booking events.
func (w *Worker) HandleEvent(_ context.Context, evt event.Envelope) error {
	var booking dto.BookingResponse

	if err := evt.Decode(&booking); err != nil {
		w.log.Warn().Err(err).Str("event_id", evt.ID).Str("type", evt.Type).Msg("dropping malformed event")

		return nil
	}

	switch evt.Type {
	case event.TypeBookingCreated, event.TypeBookingUpdated, event.TypeBookingDeleted, event.TypeBookingCheckIn:
	default:
		w.log.Debug().Str("type", evt.Type).Msg("ignoring unknown event type")

		return nil
	}

	w.log.Info().
		Str("event_id", evt.ID).
		Str("type", evt.Type).
		Str("booking_id", booking.ID).
		Str("user_id", booking.UserID).
		Str("room_id", booking.RoomID).
		Str("date_from", booking.DateFrom).
		Str("date_to", booking.DateTo).
		Msg("booking event received")

	return nil
}
