package service

import (
	"context"
	"fmt"

	"hotelbook/config"
	"hotelbook/infras/otel"
	"hotelbook/infras/postgres"
	availabilityModel "hotelbook/internal/domains/availability/model"
	availabilityService "hotelbook/internal/domains/availability/service"
	hotelModel "hotelbook/internal/domains/hotel/model"
	hotelRepository "hotelbook/internal/domains/hotel/repository"
	"hotelbook/internal/domains/room/model"
	"hotelbook/internal/domains/room/model/dto"
	"hotelbook/internal/domains/room/repository"
	"hotelbook/shared"
	"hotelbook/shared/cache"
	"hotelbook/shared/constant"
	gDto "hotelbook/shared/dto"
	"hotelbook/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

var (
	ErrHotelNotFound   = failure.NotFound("hotel not found")
	ErrRoomNotFound    = failure.NotFound("room not found")
	ErrRoomTitleExists = failure.Conflict("room with this title already exists in the hotel")
)

type Room interface {
	Create(ctx context.Context, hotelID string, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, hotelID string, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	GetAvailable(ctx context.Context, hotelID string, window availabilityModel.Window) ([]dto.AvailableRoomResponse, error)
	Get(ctx context.Context, hotelID, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, hotelID, id string, req dto.UpdateRoomRequest) error
	Delete(ctx context.Context, hotelID, id string) error
}

type serviceImpl struct {
	repo         repository.Room
	hotelRepo    hotelRepository.Hotel
	availability availabilityService.Availability
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Room,
	hotelRepo hotelRepository.Hotel,
	availability availabilityService.Availability,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:         repo,
		hotelRepo:    hotelRepo,
		availability: availability,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func roomFilter(hotelID, id string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldHotelID, Operator: gDto.FilterOperatorEq, Value: hotelID, Table: model.TableName},
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id, Table: model.TableName},
		},
	}
}

func (s *serviceImpl) ensureHotel(ctx context.Context, hotelID string) error {
	exist, err := s.hotelRepo.Exist(ctx, shared.FilterByID(hotelID, hotelModel.FieldID, hotelModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("hotel_id", hotelID).Msg("failed to check hotel existence")

		return fmt.Errorf("failed to check hotel existence: %w", err)
	}

	if !exist {
		return ErrHotelNotFound
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, hotelID string, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.ensureHotel(ctx, hotelID); err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel(hotelID, user)); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrRoomTitleExists
		}

		log.Error().Err(err).Msg("failed to create room")

		return fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, hotelID string, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.ensureHotel(ctx, hotelID); err != nil {
		return res, err
	}

	scoped := shared.FilterByID(hotelID, model.FieldHotelID, model.TableName)
	scoped.Operator = gDto.FilterGroupOperatorAnd

	if len(filter.Filters) > 0 {
		scoped.Filters = append(scoped.Filters, filter)
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, scoped)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.count(ctx, req, scoped)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, scoped)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

// GetAvailable returns the rooms of the hotel that have at least one free unit
// for the whole window, each with the number of units left.
func (s *serviceImpl) GetAvailable(ctx context.Context, hotelID string, window availabilityModel.Window) (res []dto.AvailableRoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.ensureHotel(ctx, hotelID); err != nil {
		return nil, err
	}

	left, err := s.availability.AvailableRooms(ctx, hotelID, window)
	if err != nil {
		log.Error().Err(err).Str("hotel_id", hotelID).Msg("failed to get available rooms")

		return nil, fmt.Errorf("failed to get available rooms: %w", err)
	}

	res = []dto.AvailableRoomResponse{}
	if len(left) == 0 {
		return res, nil
	}

	ids := make([]string, len(left))
	roomsLeft := make(map[string]int, len(left))

	for i, l := range left {
		ids[i] = l.RoomID
		roomsLeft[l.RoomID] = l.RoomsLeft
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorIn, Value: ids, Table: model.TableName},
		},
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldTitle, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}

	for _, room := range models {
		item := dto.AvailableRoomResponse{RoomsLeft: roomsLeft[room.ID]}
		item.FromModel(room)

		res = append(res, item)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, hotelID, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoom, hotelID, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, roomFilter(hotelID, id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, ErrRoomNotFound
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, hotelID, id string, req dto.UpdateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := roomFilter(hotelID, id)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if !exist {
		return ErrRoomNotFound
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrRoomTitleExists
		}

		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx, shared.BuildCacheKey(cacheGetRoom, hotelID, id))

	return nil
}

// Delete removes the room and, by cascade, its bookings.
func (s *serviceImpl) Delete(ctx context.Context, hotelID, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := roomFilter(hotelID, id)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return ErrRoomNotFound
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidate(ctx, shared.BuildCacheKey(cacheGetRoom, hotelID, id))

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, roomKey string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if roomKey != constant.Empty {
			if err := s.cache.Delete(c, roomKey); err != nil {
				log.Error().Err(err).Msg("failed to delete room from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
		availabilityService.Invalidate(c, s.cache)
	}()
}
