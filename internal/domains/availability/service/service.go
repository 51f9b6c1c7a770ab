package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Availability=MockAvailabilityService

import (
	"context"
	"errors"
	"fmt"

	"hotelbook/config"
	"hotelbook/infras/otel"
	"hotelbook/internal/domains/availability/model"
	"hotelbook/internal/domains/availability/repository"
	"hotelbook/shared"
	"hotelbook/shared/cache"
	"hotelbook/shared/constant"
	"hotelbook/shared/failure"

	"github.com/rs/zerolog/log"
)

// CachePrefix namespaces every cached availability answer. Writers of bookings,
// rooms and hotels call Invalidate after commit.
const CachePrefix = "availability:"

const (
	cacheAvailableRooms  = CachePrefix + "rooms"
	cacheAvailableHotels = CachePrefix + "hotels"

	// cacheGeneration is part of every availability key and lives outside
	// CachePrefix so Clear leaves it alone.
	cacheGeneration    = "availability_generation"
	cacheGenerationTTL = 30 * 24 * 60 * 60
)

// Invalidate retires every cached availability answer. Readers compute a key
// from the generation they saw before querying, so an answer read before the
// commit lands under a generation nobody asks for anymore.
func Invalidate(ctx context.Context, redisCache cache.RedisCache) {
	if _, err := redisCache.Incr(ctx, cacheGeneration, cacheGenerationTTL); err != nil {
		log.Warn().Err(err).Msg("failed to bump availability cache generation")
	}

	shared.InvalidateCaches(ctx, redisCache, CachePrefix)
}

var ErrRoomNotFound = failure.NotFound("room not found")

type Availability interface {
	ReservedCount(ctx context.Context, roomID string, window model.Window) (int, error)
	RoomsLeft(ctx context.Context, roomID string, window model.Window) (int, error)
	AvailableRoomIDs(ctx context.Context, hotelID string, window model.Window) ([]string, error)
	AvailableRooms(ctx context.Context, hotelID string, window model.Window) ([]model.RoomLeft, error)
	AvailableHotelIDs(ctx context.Context, window model.Window) ([]string, error)
}

type serviceImpl struct {
	repo  repository.Availability
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Availability, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) ReservedCount(ctx context.Context, roomID string, window model.Window) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReservedCount")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = window.Validate(); err != nil {
		return 0, err
	}

	res, err = s.repo.ReservedCount(ctx, roomID, window)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to count reserved rooms")

		return 0, fmt.Errorf("failed to count reserved rooms: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) RoomsLeft(ctx context.Context, roomID string, window model.Window) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RoomsLeft")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = window.Validate(); err != nil {
		return 0, err
	}

	left, err := s.repo.RoomLeft(ctx, roomID, window)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to get rooms left")

		return 0, fmt.Errorf("failed to get rooms left: %w", err)
	}

	if left.RoomID == constant.Empty {
		return 0, ErrRoomNotFound
	}

	return left.RoomsLeft, nil
}

func (s *serviceImpl) AvailableRoomIDs(ctx context.Context, hotelID string, window model.Window) ([]string, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AvailableRoomIDs")
	defer scope.End()

	rooms, err := s.AvailableRooms(ctx, hotelID, window)
	if err != nil {
		scope.TraceError(err)

		return nil, err
	}

	ids := make([]string, len(rooms))
	for i, room := range rooms {
		ids[i] = room.RoomID
	}

	return ids, nil
}

func (s *serviceImpl) AvailableRooms(ctx context.Context, hotelID string, window model.Window) (res []model.RoomLeft, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AvailableRooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = window.Validate(); err != nil {
		return nil, err
	}

	generation, cached := s.generation(ctx)
	cacheKey := shared.BuildCacheKey(cacheAvailableRooms, generation, hotelID, window.FromString(), window.ToString())

	if cached && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for available rooms")

		return res, nil
	}

	res, err = s.repo.AvailableRooms(ctx, hotelID, window)
	if err != nil {
		log.Error().Err(err).Str("hotel_id", hotelID).Msg("failed to get available rooms")

		return nil, fmt.Errorf("failed to get available rooms: %w", err)
	}

	if cached {
		s.save(ctx, cacheKey, res)
	}

	return res, nil
}

func (s *serviceImpl) AvailableHotelIDs(ctx context.Context, window model.Window) (res []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AvailableHotelIDs")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = window.Validate(); err != nil {
		return nil, err
	}

	generation, cached := s.generation(ctx)
	cacheKey := shared.BuildCacheKey(cacheAvailableHotels, generation, window.FromString(), window.ToString())

	if cached && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for available hotels")

		return res, nil
	}

	res, err = s.repo.AvailableHotelIDs(ctx, window)
	if err != nil {
		log.Error().Err(err).Msg("failed to get available hotels")

		return nil, fmt.Errorf("failed to get available hotels: %w", err)
	}

	if cached {
		s.save(ctx, cacheKey, res)
	}

	return res, nil
}

// generation reports false when it cannot be read. The answer is then neither
// served from nor written to the cache.
func (s *serviceImpl) generation(ctx context.Context) (string, bool) {
	var generation string

	err := s.cache.Get(ctx, cacheGeneration, &generation)
	switch {
	case errors.Is(err, cache.Nil):
		return "0", true
	case err != nil:
		log.Warn().Err(err).Msg("failed to read availability cache generation")

		return constant.Empty, false
	}

	return generation, true
}

func (s *serviceImpl) save(ctx context.Context, cacheKey string, value any) {
	if err := s.cache.Save(ctx, cacheKey, value, s.cfg.Cache.AvailabilityTTL); err != nil {
		log.Error().Err(err).Str("cacheKey", cacheKey).Msg("failed to save availability to cache")
	}
}
