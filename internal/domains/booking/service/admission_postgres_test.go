package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbook/config"
	otelMocks "hotelbook/infras/otel/mocks"
	"hotelbook/infras/postgres"
	"hotelbook/infras/postgres/postgrestest"
	availabilityRepository "hotelbook/internal/domains/availability/repository"
	bookingRepository "hotelbook/internal/domains/booking/repository"
	"hotelbook/internal/domains/booking/model"
	"hotelbook/internal/domains/booking/service"
	hotelRepository "hotelbook/internal/domains/hotel/repository"
	roomRepository "hotelbook/internal/domains/room/repository"
)

// postgresAdmission wires the service to real repositories and the real
// transactor, so row locks and serializable isolation come from PostgreSQL.
type postgresAdmission struct {
	svc    service.Booking
	conn   *postgres.Connection
	events eventSink
	userID string
}

func newPostgresAdmission(t *testing.T) postgresAdmission {
	conn := postgrestest.New(t)
	otl := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Booking.Admission.MaxRetry = 10
	cfg.Booking.Admission.RetryBackoffMs = 5
	cfg.Booking.Admission.LockTimeoutMs = 2000

	events := make(eventSink, 256)

	a := postgresAdmission{
		svc: service.New(
			bookingRepository.New(conn, otl),
			roomRepository.New(conn, otl),
			hotelRepository.New(conn, otl),
			availabilityRepository.New(conn, otl),
			postgres.NewTransactor(conn),
			events,
			cfg,
			nopCache{},
			otl,
		),
		conn:   conn,
		events: events,
		userID: uuid.NewString(),
	}

	postgrestest.Exec(t, conn, `INSERT INTO users (id, email, password) VALUES ($1, $2, 'x')`, a.userID, a.userID+"@example.com")

	return a
}

func (a postgresAdmission) addHotel(t *testing.T) string {
	id := uuid.NewString()
	postgrestest.Exec(t, a.conn, `INSERT INTO hotels (id, title, location) VALUES ($1, $2, 'Bali')`, id, "hotel "+id)

	return id
}

func (a postgresAdmission) addRoom(t *testing.T, hotelID string, quantity int) string {
	id := uuid.NewString()
	postgrestest.Exec(t, a.conn, `INSERT INTO rooms (id, hotel_id, title, price, quantity) VALUES ($1, $2, $3, 5000, $4)`, id, hotelID, "room "+id, quantity)

	return id
}

func (a postgresAdmission) bookings(t *testing.T, roomID string) int {
	var count int
	require.NoError(t, a.conn.Read.GetContext(context.Background(), &count, `SELECT COUNT(*) FROM bookings WHERE room_id = $1`, roomID))

	return count
}

func TestAdmission_Postgres_LastRoom(t *testing.T) {
	a := newPostgresAdmission(t)
	roomID := a.addRoom(t, a.addHotel(t), 1)
	w := window(t, "2026-01-03", "2026-01-12")

	var (
		wg       sync.WaitGroup
		admitted atomic.Int32
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := a.svc.Admit(context.Background(), a.userID, roomID, w)

			switch {
			case err == nil:
				admitted.Add(1)
			case errors.Is(err, model.ErrNoCapacity), errors.Is(err, model.ErrAdmissionContended):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), admitted.Load())
	assert.Equal(t, 1, a.bookings(t, roomID))

	a.events.await(t, 1)
}

func TestAdmission_Postgres_OverlapWithTwoUnits(t *testing.T) {
	a := newPostgresAdmission(t)
	roomID := a.addRoom(t, a.addHotel(t), 2)
	ctx := context.Background()

	_, err := a.svc.Admit(ctx, a.userID, roomID, window(t, "2026-01-01", "2026-01-05"))
	require.NoError(t, err)

	_, err = a.svc.Admit(ctx, a.userID, roomID, window(t, "2026-01-10", "2026-01-15"))
	require.NoError(t, err)

	_, err = a.svc.Admit(ctx, a.userID, roomID, window(t, "2026-01-03", "2026-01-12"))
	assert.ErrorIs(t, err, model.ErrNoCapacity)

	_, err = a.svc.Admit(ctx, a.userID, roomID, window(t, "2026-01-05", "2026-01-10"))
	assert.NoError(t, err)

	a.events.await(t, 3)
}

func TestAdmission_Postgres_UnrelatedRoomsAllAdmitted(t *testing.T) {
	a := newPostgresAdmission(t)
	w := window(t, "2026-01-03", "2026-01-12")

	hotels := []string{a.addHotel(t), a.addHotel(t)}

	rooms := make([]string, 0, 8)
	for i := range 8 {
		rooms = append(rooms, a.addRoom(t, hotels[i%2], 1))
	}

	var wg sync.WaitGroup

	for i, roomID := range rooms {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := a.svc.Admit(context.Background(), a.userID, roomID, w)
			assert.NoError(t, err, "room %d", i)
		}()
	}

	wg.Wait()

	for _, roomID := range rooms {
		assert.Equal(t, 1, a.bookings(t, roomID))
	}

	a.events.await(t, len(rooms))
}
