//go:build wireinject
// +build wireinject

package di

import (
	"eventdesk/config"
	"eventdesk/infras/jwt"
	"eventdesk/infras/kafka"
	"eventdesk/infras/otel"
	"eventdesk/infras/postgres"
	"eventdesk/infras/redis"
	"eventdesk/infras/s3"
	"eventdesk/permissions"
	"eventdesk/shared/cache"
	"eventdesk/transport/http"
	"eventdesk/transport/http/middleware"
	"eventdesk/transport/http/router"

	bookingRepository "eventdesk/internal/domains/booking/repository"
	bookingService "eventdesk/internal/domains/booking/service"
	eventService "eventdesk/internal/domains/event/service"
	bookingHandler "eventdesk/internal/handlers/booking"
	eventHandler "eventdesk/internal/handlers/event"

	"github.com/google/wire"

	authService "eventdesk/internal/domains/auth/service"
	userRepository "eventdesk/internal/domains/user/repository"
	authHandler "eventdesk/internal/handlers/auth"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	eventService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	bookingHandler.New,
	eventHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return nil, nil, nil
}
