//go:build wireinject
// +build wireinject

package di

import (
	"hotelbook/config"
	"hotelbook/infras/jwt"
	"hotelbook/infras/otel"
	"hotelbook/infras/postgres"
	"hotelbook/infras/redis"
	"hotelbook/infras/s3"
	"hotelbook/internal/event"
	"hotelbook/internal/worker"
	"hotelbook/permissions"
	"hotelbook/shared/cache"
	"hotelbook/transport/http"
	"hotelbook/transport/http/middleware"
	"hotelbook/transport/http/router"

	"github.com/google/wire"

	authService "hotelbook/internal/domains/auth/service"
	availabilityRepository "hotelbook/internal/domains/availability/repository"
	availabilityService "hotelbook/internal/domains/availability/service"
	bookingRepository "hotelbook/internal/domains/booking/repository"
	bookingService "hotelbook/internal/domains/booking/service"
	facilityRepository "hotelbook/internal/domains/facility/repository"
	facilityService "hotelbook/internal/domains/facility/service"
	hotelRepository "hotelbook/internal/domains/hotel/repository"
	hotelService "hotelbook/internal/domains/hotel/service"
	roomRepository "hotelbook/internal/domains/room/repository"
	roomService "hotelbook/internal/domains/room/service"
	userRepository "hotelbook/internal/domains/user/repository"
	userService "hotelbook/internal/domains/user/service"
	authHandler "hotelbook/internal/handlers/auth"
	bookingHandler "hotelbook/internal/handlers/booking"
	facilityHandler "hotelbook/internal/handlers/facility"
	hotelHandler "hotelbook/internal/handlers/hotel"
	roomHandler "hotelbook/internal/handlers/room"
	userHandler "hotelbook/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
)

var messaging = wire.NewSet(
	event.NewBroker,
	wire.Bind(new(event.Publisher), new(event.Broker)),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var availabilityDomain = wire.NewSet(
	availabilityRepository.New,
	availabilityService.New,
)

var hotelDomain = wire.NewSet(
	hotelRepository.New,
	hotelService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var facilityDomain = wire.NewSet(
	facilityRepository.New,
	facilityService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var domains = wire.NewSet(
	availabilityDomain,
	hotelDomain,
	roomDomain,
	facilityDomain,
	bookingDomain,
	userDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	hotelHandler.New,
	roomHandler.New,
	facilityHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		messaging,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *worker.Worker {
	wire.Build(
		config.Get,
		infrastructures,
		messaging,
		sharedHelpers,
		availabilityRepository.New,
		hotelRepository.New,
		roomRepository.New,
		bookingDomain,
		worker.New,
	)

	return &worker.Worker{}
}
