package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"hotelbook/config"
	"hotelbook/infras/otel"
	"hotelbook/infras/postgres"
	availabilityModel "hotelbook/internal/domains/availability/model"
	availabilityRepository "hotelbook/internal/domains/availability/repository"
	availabilityService "hotelbook/internal/domains/availability/service"
	"hotelbook/internal/domains/booking/model"
	"hotelbook/internal/domains/booking/model/dto"
	"hotelbook/internal/domains/booking/repository"
	hotelModel "hotelbook/internal/domains/hotel/model"
	hotelRepository "hotelbook/internal/domains/hotel/repository"
	roomModel "hotelbook/internal/domains/room/model"
	roomRepository "hotelbook/internal/domains/room/repository"
	"hotelbook/internal/event"
	"hotelbook/shared"
	"hotelbook/shared/cache"
	"hotelbook/shared/constant"
	gDto "hotelbook/shared/dto"
	"hotelbook/shared/failure"
	"hotelbook/shared/logger"
	"hotelbook/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	operationAdmit  = "admit"
	operationUpdate = "update"
)

var errStoreBooking = errors.New("failed to store booking")

type Booking interface {
	// Admit books one unit of roomID for the window, or reports why it cannot.
	Admit(ctx context.Context, userID, roomID string, window availabilityModel.Window) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, userID string, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
	// PublishCheckIns emits one check-in event per booking starting on day and returns how many were sent.
	PublishCheckIns(ctx context.Context, day time.Time) (int, error)
}

type serviceImpl struct {
	repo             repository.Booking
	roomRepo         roomRepository.Room
	hotelRepo        hotelRepository.Hotel
	availabilityRepo availabilityRepository.Availability
	transactor       postgres.Transactor
	publisher        event.Publisher
	cfg              *config.Config
	cache            cache.RedisCache
	otel             otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepository.Room,
	hotelRepo hotelRepository.Hotel,
	availabilityRepo availabilityRepository.Availability,
	transactor postgres.Transactor,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:             repo,
		roomRepo:         roomRepo,
		hotelRepo:        hotelRepo,
		availabilityRepo: availabilityRepo,
		transactor:       transactor,
		publisher:        publisher,
		cfg:              cfg,
		cache:            cache,
		otel:             otel,
	}
}

func (s *serviceImpl) Admit(ctx context.Context, userID, roomID string, window availabilityModel.Window) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Admit")
	defer scope.End()
	defer traceSystemError(scope, &err)

	if err = window.Validate(); err != nil {
		return res, model.ErrInvalidDateRange
	}

	var booking model.Booking

	err = s.runAdmission(ctx, operationAdmit, func(tx *sqlx.Tx) error {
		var txErr error

		booking, txErr = s.admitTx(ctx, tx, userID, roomID, window)

		return txErr
	})
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	log.Info().
		Str("booking_id", booking.ID).
		Str("room_id", booking.RoomID).
		Str("date_from", res.DateFrom).
		Str("date_to", res.DateTo).
		Msg("booking admitted")

	s.afterCommit(ctx, event.TypeBookingCreated, res)

	return res, nil
}

func (s *serviceImpl) admitTx(ctx context.Context, tx *sqlx.Tx, userID, roomID string, window availabilityModel.Window) (model.Booking, error) {
	room, err := s.lockRoom(ctx, tx, roomID)
	if err != nil {
		return model.Booking{}, err
	}

	if err = s.ensureHotel(ctx, tx, room.HotelID); err != nil {
		return model.Booking{}, err
	}

	if err = s.ensureCapacity(ctx, tx, room, window, constant.Empty); err != nil {
		return model.Booking{}, err
	}

	now := timezone.Now()
	booking := model.Booking{
		ID:       uuid.NewString(),
		UserID:   userID,
		RoomID:   room.ID,
		DateFrom: window.From,
		DateTo:   window.To,
		Price:    room.Price,
	}
	booking.CreatedAt, booking.ModifiedAt = now, now
	booking.CreatedBy, booking.ModifiedBy = userID, userID

	if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
		return model.Booking{}, fmt.Errorf("failed to insert booking: %w", err)
	}

	return booking, nil
}

func (s *serviceImpl) lockRoom(ctx context.Context, tx *sqlx.Tx, roomID string) (roomModel.Room, error) {
	room, err := s.roomRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return room, fmt.Errorf("failed to lock room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, model.ErrRoomNotFound
	}

	return room, nil
}

func (s *serviceImpl) ensureHotel(ctx context.Context, tx *sqlx.Tx, hotelID string) error {
	exist, err := s.hotelRepo.ExistTx(ctx, tx, shared.FilterByID(hotelID, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check hotel existence: %w", err)
	}

	if !exist {
		return model.ErrHotelNotFound
	}

	return nil
}

// ensureCapacity runs the availability aggregation for room inside tx.
// excludeBookingID leaves a booking out of the count so it can be moved within
// its own window.
func (s *serviceImpl) ensureCapacity(ctx context.Context, tx *sqlx.Tx, room roomModel.Room, window availabilityModel.Window, excludeBookingID string) error {
	left, err := s.availabilityRepo.RoomLeftTx(ctx, tx, room.ID, window, excludeBookingID)
	if err != nil {
		return fmt.Errorf("failed to compute availability: %w", err)
	}

	if left.RoomID == room.ID && left.RoomsLeft > 0 {
		return nil
	}

	log.Warn().
		Str("room_id", room.ID).
		Str("date_from", window.FromString()).
		Str("date_to", window.ToString()).
		Msg("no rooms left for the requested dates")

	return model.ErrNoCapacity
}

// traceSystemError marks the span as failed for server side errors only.
// Rejections such as NoCapacity or RoomNotFound are regular outcomes.
func traceSystemError(scope otel.Scope, err *error) {
	if *err != nil && failure.GetCode(*err) >= http.StatusInternalServerError {
		scope.TraceError(*err)
	}
}

// runAdmission runs fn in a serializable transaction and replays it while the
// database reports a serialization failure, a deadlock or a lock timeout.
func (s *serviceImpl) runAdmission(ctx context.Context, operation string, fn func(tx *sqlx.Tx) error) error {
	admission := s.cfg.Booking.Admission
	opts := postgres.TxOptions{
		Isolation:   sql.LevelSerializable,
		LockTimeout: time.Duration(admission.LockTimeoutMs) * time.Millisecond,
	}

	var err error

	for attempt := 0; ; attempt++ {
		err = s.transactor.WithinTx(ctx, opts, fn)
		if err == nil || !postgres.IsRetryable(err) {
			break
		}

		if attempt >= admission.MaxRetry {
			log.Warn().Err(err).Str("operation", operation).Int("attempts", attempt+1).Msg("booking admission gave up after conflicts")

			return model.ErrAdmissionContended
		}

		log.Info().Err(err).Str("operation", operation).Int("attempt", attempt+1).Msg("booking transaction conflicted, retrying")

		select {
		case <-ctx.Done():
			return fmt.Errorf("booking %s cancelled: %w", operation, ctx.Err())
		case <-time.After(time.Duration(admission.RetryBackoffMs*(attempt+1)) * time.Millisecond):
		}
	}

	var fail *failure.Failure

	switch {
	case err == nil:
		return nil
	case errors.As(err, &fail):
		return err
	case postgres.IsIntegrityViolation(err):
		logger.ErrorWithStack(err)

		return failure.InternalError(errStoreBooking)
	default:
		log.Error().Err(err).Str("operation", operation).Msg("booking transaction failed")

		return fmt.Errorf("failed to %s booking: %w", operation, err)
	}
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer traceSystemError(scope, &err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var updated model.Booking

	err = s.runAdmission(ctx, operationUpdate, func(tx *sqlx.Tx) error {
		var txErr error

		updated, txErr = s.updateTx(ctx, tx, id, req, user)

		return txErr
	})
	if err != nil {
		return res, err
	}

	res.FromModel(updated)
	s.afterCommit(ctx, event.TypeBookingUpdated, res)

	return res, nil
}

func (s *serviceImpl) updateTx(ctx context.Context, tx *sqlx.Tx, id string, req dto.UpdateBookingRequest, user string) (model.Booking, error) {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.GetForUpdateTx(ctx, tx, filter)
	if err != nil {
		return current, fmt.Errorf("failed to lock booking: %w", err)
	}

	if current.ID == constant.Empty {
		return current, model.ErrBookingNotFound
	}

	target, err := req.Apply(current)
	if err != nil {
		return current, err
	}

	// Rooms are locked in id order so two edits swapping rooms cannot deadlock.
	roomIDs := []string{current.RoomID}
	if target.RoomID != current.RoomID {
		roomIDs = append(roomIDs, target.RoomID)
		slices.Sort(roomIDs)
	}

	var room roomModel.Room

	for _, roomID := range roomIDs {
		locked, lockErr := s.lockRoom(ctx, tx, roomID)
		if lockErr != nil {
			return current, lockErr
		}

		if roomID == target.RoomID {
			room = locked
		}
	}

	if err = s.ensureHotel(ctx, tx, room.HotelID); err != nil {
		return current, err
	}

	if err = s.ensureCapacity(ctx, tx, room, target.Window(), current.ID); err != nil {
		return current, err
	}

	if target.RoomID != current.RoomID {
		target.Price = room.Price
	}

	target.ModifiedAt = timezone.Now()
	target.ModifiedBy = user

	fields := map[string]any{
		model.FieldRoomID:        target.RoomID,
		model.FieldDateFrom:      target.DateFrom,
		model.FieldDateTo:        target.DateTo,
		model.FieldPrice:         target.Price,
		constant.FieldModifiedAt: target.ModifiedAt,
		constant.FieldModifiedBy: target.ModifiedBy,
	}

	if err = s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
		return current, fmt.Errorf("failed to update booking: %w", err)
	}

	return target, nil
}

// Delete releases the booking. It never consults availability.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer traceSystemError(scope, &err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return model.ErrBookingNotFound
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	var res dto.BookingResponse
	res.FromModel(booking)

	s.afterCommit(ctx, event.TypeBookingDeleted, res)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer traceSystemError(scope, &err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, userID string, req gDto.QueryParams) (dto.GetBookingsResponse, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()

	filter := shared.FilterByID(userID, model.FieldUserID, model.TableName)
	filter.Operator = gDto.FilterGroupOperatorAnd

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer traceSystemError(scope, &err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, model.ErrBookingNotFound
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) PublishCheckIns(ctx context.Context, day time.Time) (sent int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PublishCheckIns")
	defer scope.End()
	defer traceSystemError(scope, &err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldDateFrom,
				Operator: gDto.FilterOperatorEq,
				Value:    day.Format(constant.DateOnlyFormat),
				Table:    model.TableName,
			},
		},
	}

	bookings, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldID, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list today's check-ins")

		return 0, fmt.Errorf("failed to list check-ins: %w", err)
	}

	if len(bookings) == 0 {
		return 0, nil
	}

	events := make([]event.Envelope, 0, len(bookings))

	for _, booking := range bookings {
		var res dto.BookingResponse
		res.FromModel(booking)

		evt, evtErr := event.New(event.TypeBookingCheckIn, booking.RoomID, res)
		if evtErr != nil {
			log.Error().Err(evtErr).Str("booking_id", booking.ID).Msg("failed to build check-in event")

			continue
		}

		events = append(events, evt)
	}

	if err = s.publisher.Publish(ctx, s.cfg.Broker.Topics.Booking, events...); err != nil {
		log.Error().Err(err).Msg("failed to publish check-in events")

		return 0, fmt.Errorf("failed to publish check-in events: %w", err)
	}

	return len(events), nil
}

// afterCommit drops cached reads the change invalidated and publishes the domain event.
// Both run detached from the request and only log their failures.
func (s *serviceImpl) afterCommit(ctx context.Context, eventType string, res dto.BookingResponse) {
	go func() {
		c := context.WithoutCancel(ctx)

		if eventType != event.TypeBookingCreated {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, res.ID)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		availabilityService.Invalidate(c, s.cache)

		evt, err := event.New(eventType, res.RoomID, res)
		if err != nil {
			log.Error().Err(err).Str("booking_id", res.ID).Msg("failed to build booking event")

			return
		}

		if err = s.publisher.Publish(c, s.cfg.Broker.Topics.Booking, evt); err != nil {
			log.Warn().Err(err).Str("booking_id", res.ID).Str("type", eventType).Msg("failed to publish booking event")
		}
	}()
}
