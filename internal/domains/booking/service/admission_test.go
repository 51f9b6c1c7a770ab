package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbook/config"
	otelMocks "hotelbook/infras/otel/mocks"
	"hotelbook/infras/postgres"
	availabilityModel "hotelbook/internal/domains/availability/model"
	availabilityRepository "hotelbook/internal/domains/availability/repository"
	bookingRepository "hotelbook/internal/domains/booking/repository"
	"hotelbook/internal/domains/booking/model"
	"hotelbook/internal/domains/booking/model/dto"
	"hotelbook/internal/domains/booking/service"
	hotelRepository "hotelbook/internal/domains/hotel/repository"
	roomRepository "hotelbook/internal/domains/room/repository"
	roomModel "hotelbook/internal/domains/room/model"
	"hotelbook/internal/event"
	"hotelbook/shared/cache"
	"hotelbook/shared/constant"
	gDto "hotelbook/shared/dto"
)

// store is an in-memory stand-in for the rooms, hotels and bookings tables.
// memTransactor serialises transactions on mu and restores the bookings on rollback,
// so these tests cover the admission rules only. Row locks and isolation are
// exercised against PostgreSQL in admission_postgres_test.go.
type store struct {
	mu       sync.Mutex
	hotels   map[string]bool
	rooms    map[string]roomModel.Room
	bookings map[string]model.Booking
}

func newStore() *store {
	return &store{
		hotels:   map[string]bool{},
		rooms:    map[string]roomModel.Room{},
		bookings: map[string]model.Booking{},
	}
}

func (s *store) addRoom(room roomModel.Room) {
	s.hotels[room.HotelID] = true
	s.rooms[room.ID] = room
}

func filterValue(filter gDto.FilterGroup) string {
	if len(filter.Filters) == 0 {
		return constant.Empty
	}

	f, _ := filter.Filters[0].(gDto.Filter)
	v, _ := f.Value.(string)

	return v
}

type memTransactor struct {
	store *store
	// conflicts makes the first n transactions fail with a serialization error.
	conflicts atomic.Int32
	calls     atomic.Int32
}

func (m *memTransactor) WithinTx(_ context.Context, _ postgres.TxOptions, fn func(*sqlx.Tx) error) error {
	m.calls.Add(1)

	if m.conflicts.Add(-1) >= 0 {
		return &pq.Error{Code: constant.PqErrorCodeSerializationFailure}
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snapshot := make(map[string]model.Booking, len(m.store.bookings))
	for k, v := range m.store.bookings {
		snapshot[k] = v
	}

	if err := fn(nil); err != nil {
		m.store.bookings = snapshot

		return err
	}

	return nil
}

type memRooms struct {
	roomRepository.Room
	store *store
}

func (r memRooms) GetForUpdateTx(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (roomModel.Room, error) {
	return r.store.rooms[filterValue(filter)], nil
}

type memHotels struct {
	hotelRepository.Hotel
	store *store
}

func (h memHotels) ExistTx(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (bool, error) {
	return h.store.hotels[filterValue(filter)], nil
}

type memAvailability struct {
	availabilityRepository.Availability
	store *store
}

func (a memAvailability) RoomLeftTx(_ context.Context, _ *sqlx.Tx, roomID string, window availabilityModel.Window, exclude string) (availabilityModel.RoomLeft, error) {
	room, ok := a.store.rooms[roomID]
	if !ok {
		return availabilityModel.RoomLeft{}, nil
	}

	reserved := 0

	for _, b := range a.store.bookings {
		if b.RoomID == room.ID && b.ID != exclude && window.Overlaps(b.DateFrom, b.DateTo) {
			reserved++
		}
	}

	return availabilityModel.RoomLeft{
		RoomID:    room.ID,
		HotelID:   room.HotelID,
		Quantity:  room.Quantity,
		Reserved:  reserved,
		RoomsLeft: room.Quantity - reserved,
	}, nil
}

type memBookings struct {
	bookingRepository.Booking
	store *store
}

func (b memBookings) InsertTx(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
	b.store.bookings[booking.ID] = booking

	return nil
}

func (b memBookings) GetForUpdateTx(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	return b.store.bookings[filterValue(filter)], nil
}

func (b memBookings) UpdateTx(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
	booking := b.store.bookings[filterValue(filter)]
	booking.RoomID = fields[model.FieldRoomID].(string)
	booking.DateFrom = fields[model.FieldDateFrom].(time.Time)
	booking.DateTo = fields[model.FieldDateTo].(time.Time)
	booking.Price = fields[model.FieldPrice].(int64)
	b.store.bookings[booking.ID] = booking

	return nil
}

func (b memBookings) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	return b.store.bookings[filterValue(filter)], nil
}

func (b memBookings) Delete(_ context.Context, filter gDto.FilterGroup) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	delete(b.store.bookings, filterValue(filter))

	return nil
}

// eventSink receives every envelope the service publishes after a commit.
type eventSink chan event.Envelope

func (e eventSink) Publish(_ context.Context, _ string, events ...event.Envelope) error {
	for _, evt := range events {
		e <- evt
	}

	return nil
}

// await blocks until n events arrived. Publishing is the last step after a
// commit, so the cache invalidation has finished by then too.
func (e eventSink) await(t *testing.T, n int) []event.Envelope {
	t.Helper()

	received := make([]event.Envelope, 0, n)

	for range n {
		select {
		case evt := <-e:
			received = append(received, evt)
		case <-time.After(time.Second):
			t.Fatalf("received %d of %d booking events", len(received), n)
		}
	}

	return received
}

type nopCache struct{}

func (nopCache) Save(context.Context, string, any, int) error { return nil }
func (nopCache) Get(context.Context, string, any) error       { return cache.Nil }
func (nopCache) Delete(context.Context, string) error         { return nil }
func (nopCache) Clear(context.Context, string) error          { return nil }

func (nopCache) Incr(context.Context, string, int) (int64, error) { return 1, nil }

type admission struct {
	svc    service.Booking
	tx     *memTransactor
	events eventSink
}

func newAdmission(s *store) admission {
	cfg := &config.Config{}
	cfg.Booking.Admission.MaxRetry = 3
	cfg.Booking.Admission.RetryBackoffMs = 1

	tx := &memTransactor{store: s}
	events := make(eventSink, 64)

	svc := service.New(
		memBookings{store: s},
		memRooms{store: s},
		memHotels{store: s},
		memAvailability{store: s},
		tx,
		events,
		cfg,
		nopCache{},
		otelMocks.NewOtel(),
	)

	return admission{svc: svc, tx: tx, events: events}
}

func TestAdmission_ConcurrentRequestsForLastRoom(t *testing.T) {
	s := newStore()
	s.addRoom(roomModel.Room{ID: "room-1", HotelID: "hotel-1", Price: 5000, Quantity: 1})

	a := newAdmission(s)
	w := window(t, "2024-03-01", "2024-03-05")

	var (
		wg       sync.WaitGroup
		admitted atomic.Int32
		rejected atomic.Int32
	)

	for i := range 2 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := a.svc.Admit(context.Background(), fmt.Sprintf("user-%d", i), "room-1", w)

			switch {
			case err == nil:
				admitted.Add(1)
			case errors.Is(err, model.ErrNoCapacity):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), admitted.Load())
	assert.Equal(t, int32(1), rejected.Load())
	assert.Len(t, s.bookings, 1)

	evt := a.events.await(t, 1)
	assert.Equal(t, event.TypeBookingCreated, evt[0].Type)
}

func TestAdmission_TouchingIntervalsShareOneRoom(t *testing.T) {
	s := newStore()
	s.addRoom(roomModel.Room{ID: "room-1", HotelID: "hotel-1", Quantity: 1})

	a := newAdmission(s)
	ctx := context.Background()

	_, err := a.svc.Admit(ctx, "user-1", "room-1", window(t, "2024-03-01", "2024-03-05"))
	require.NoError(t, err)

	_, err = a.svc.Admit(ctx, "user-2", "room-1", window(t, "2024-03-05", "2024-03-10"))
	require.NoError(t, err)

	_, err = a.svc.Admit(ctx, "user-3", "room-1", window(t, "2024-03-04", "2024-03-06"))
	assert.ErrorIs(t, err, model.ErrNoCapacity)

	a.events.await(t, 2)
}

func TestAdmission_OverlappingBookingsConsumeEachUnit(t *testing.T) {
	s := newStore()
	s.addRoom(roomModel.Room{ID: "room-1", HotelID: "hotel-1", Quantity: 2})

	a := newAdmission(s)
	ctx := context.Background()

	_, err := a.svc.Admit(ctx, "user-1", "room-1", window(t, "2024-03-01", "2024-03-04"))
	require.NoError(t, err)

	_, err = a.svc.Admit(ctx, "user-2", "room-1", window(t, "2024-03-03", "2024-03-08"))
	require.NoError(t, err)

	// Overlaps both stays, so both units are taken for this window.
	_, err = a.svc.Admit(ctx, "user-3", "room-1", window(t, "2024-03-02", "2024-03-06"))
	assert.ErrorIs(t, err, model.ErrNoCapacity)

	a.events.await(t, 2)
}

func TestAdmission_StayOverlappingTwoSeparateBookings(t *testing.T) {
	s := newStore()
	s.addRoom(roomModel.Room{ID: "room-1", HotelID: "hotel-1", Quantity: 2})

	a := newAdmission(s)
	ctx := context.Background()

	_, err := a.svc.Admit(ctx, "user-1", "room-1", window(t, "2026-01-01", "2026-01-05"))
	require.NoError(t, err)

	_, err = a.svc.Admit(ctx, "user-2", "room-1", window(t, "2026-01-10", "2026-01-15"))
	require.NoError(t, err)

	left, err := memAvailability{store: s}.RoomLeftTx(ctx, nil, "room-1", window(t, "2026-01-03", "2026-01-12"), constant.Empty)
	require.NoError(t, err)
	assert.Equal(t, 2, left.Reserved)
	assert.Equal(t, 0, left.RoomsLeft)

	_, err = a.svc.Admit(ctx, "user-3", "room-1", window(t, "2026-01-03", "2026-01-12"))
	assert.ErrorIs(t, err, model.ErrNoCapacity)

	// The gap between the two stays still has both units.
	_, err = a.svc.Admit(ctx, "user-3", "room-1", window(t, "2026-01-05", "2026-01-10"))
	assert.NoError(t, err)

	a.events.await(t, 3)
}

func TestAdmission_DeletionRestoresCapacity(t *testing.T) {
	s := newStore()
	s.addRoom(roomModel.Room{ID: "room-1", HotelID: "hotel-1", Quantity: 1})

	a := newAdmission(s)
	ctx := context.Background()
	w := window(t, "2024-03-01", "2024-03-05")

	first, err := a.svc.Admit(ctx, "user-1", "room-1", w)
	require.NoError(t, err)

	_, err = a.svc.Admit(ctx, "user-2", "room-1", w)
	require.ErrorIs(t, err, model.ErrNoCapacity)

	require.NoError(t, a.svc.Delete(ctx, first.ID))

	_, err = a.svc.Admit(ctx, "user-2", "room-1", w)
	assert.NoError(t, err)

	types := []string{}
	for _, evt := range a.events.await(t, 3) {
		types = append(types, evt.Type)
	}

	assert.ElementsMatch(t, []string{event.TypeBookingCreated, event.TypeBookingDeleted, event.TypeBookingCreated}, types)
}

func TestAdmission_MissingRoomHasNoSideEffects(t *testing.T) {
	s := newStore()
	s.addRoom(roomModel.Room{ID: "room-1", HotelID: "hotel-1", Quantity: 1})

	a := newAdmission(s)
	w := window(t, "2024-03-01", "2024-03-05")

	for range 3 {
		_, err := a.svc.Admit(context.Background(), "user-1", "room-404", w)
		assert.ErrorIs(t, err, model.ErrRoomNotFound)
	}

	assert.Empty(t, s.bookings)
}

func TestAdmission_EditDoesNotCountItself(t *testing.T) {
	s := newStore()
	s.addRoom(roomModel.Room{ID: "room-1", HotelID: "hotel-1", Price: 5000, Quantity: 1})
	s.addRoom(roomModel.Room{ID: "room-2", HotelID: "hotel-1", Price: 8000, Quantity: 1})

	a := newAdmission(s)
	ctx := context.Background()

	booking, err := a.svc.Admit(ctx, "user-1", "room-1", window(t, "2024-03-01", "2024-03-05"))
	require.NoError(t, err)

	extended, err := a.svc.Update(ctx, booking.ID, updateTo("", "2024-03-07"))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-07", extended.DateTo)
	assert.Equal(t, int64(5000), extended.Price)

	moved, err := a.svc.Update(ctx, booking.ID, updateTo("room-2", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(8000), moved.Price)

	// room-1 is free again once the booking moved away.
	_, err = a.svc.Admit(ctx, "user-2", "room-1", window(t, "2024-03-01", "2024-03-07"))
	assert.NoError(t, err)

	a.events.await(t, 4)
}

func TestAdmission_RetriesThenGivesUp(t *testing.T) {
	s := newStore()
	s.addRoom(roomModel.Room{ID: "room-1", HotelID: "hotel-1", Quantity: 1})

	w := window(t, "2024-03-01", "2024-03-05")

	t.Run("recovers after transient conflicts", func(t *testing.T) {
		a := newAdmission(s)
		a.tx.conflicts.Store(2)

		_, err := a.svc.Admit(context.Background(), "user-1", "room-1", w)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), a.tx.calls.Load())

		a.events.await(t, 1)
	})

	t.Run("contended once retries are exhausted", func(t *testing.T) {
		a := newAdmission(s)
		a.tx.conflicts.Store(100)

		_, err := a.svc.Admit(context.Background(), "user-2", "room-1", w)
		assert.ErrorIs(t, err, model.ErrAdmissionContended)
		assert.Equal(t, int32(4), a.tx.calls.Load())
		assert.Empty(t, a.events)
	})
}

func TestAdmission_NoDayExceedsQuantity(t *testing.T) {
	s := newStore()
	s.addRoom(roomModel.Room{ID: "room-1", HotelID: "hotel-1", Quantity: 2})

	a := newAdmission(s)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var (
		wg       sync.WaitGroup
		admitted atomic.Int32
	)

	for i := range 24 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			from := start.AddDate(0, 0, i%7)
			w, err := availabilityModel.NewWindow(from, from.AddDate(0, 0, 1+i%4))
			if err != nil {
				t.Error(err)

				return
			}

			_, err = a.svc.Admit(context.Background(), fmt.Sprintf("user-%d", i), "room-1", w)

			switch {
			case err == nil:
				admitted.Add(1)
			case !errors.Is(err, model.ErrNoCapacity):
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	for day := start; day.Before(start.AddDate(0, 0, 12)); day = day.AddDate(0, 0, 1) {
		occupied := 0

		for _, b := range s.bookings {
			if !day.Before(b.DateFrom) && day.Before(b.DateTo) {
				occupied++
			}
		}

		assert.LessOrEqual(t, occupied, 2, "night of %s", day.Format(constant.DateOnlyFormat))
	}

	a.events.await(t, int(admitted.Load()))
}

func updateTo(roomID, dateTo string) dto.UpdateBookingRequest {
	return dto.UpdateBookingRequest{RoomID: roomID, DateTo: dateTo}
}
