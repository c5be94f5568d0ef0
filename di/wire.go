//go:build wireinject
// +build wireinject

package di

import (
	"smartmeet/config"
	"smartmeet/infras/jwt"
	"smartmeet/infras/kafka"
	"smartmeet/infras/otel"
	"smartmeet/infras/postgres"
	"smartmeet/infras/redis"
	"smartmeet/infras/s3"
	"smartmeet/permissions"
	"smartmeet/shared/cache"
	"smartmeet/transport/http"
	"smartmeet/transport/http/middleware"
	"smartmeet/transport/http/router"

	"github.com/google/wire"

	authService "smartmeet/internal/domains/auth/service"
	bookingRepository "smartmeet/internal/domains/booking/repository"
	bookingService "smartmeet/internal/domains/booking/service"
	documentRepository "smartmeet/internal/domains/document/repository"
	documentService "smartmeet/internal/domains/document/service"
	notificationRepository "smartmeet/internal/domains/notification/repository"
	notificationService "smartmeet/internal/domains/notification/service"
	userRepository "smartmeet/internal/domains/user/repository"
	userService "smartmeet/internal/domains/user/service"
	venueRepository "smartmeet/internal/domains/venue/repository"
	venueService "smartmeet/internal/domains/venue/service"

	authHandler "smartmeet/internal/handlers/auth"
	bookingHandler "smartmeet/internal/handlers/booking"
	documentHandler "smartmeet/internal/handlers/document"
	meetHandler "smartmeet/internal/handlers/meet"
	notificationHandler "smartmeet/internal/handlers/notification"
	userHandler "smartmeet/internal/handlers/user"
	venueHandler "smartmeet/internal/handlers/venue"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	permissions.Get,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var venueDomain = wire.NewSet(
	venueRepository.New,
	venueService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var documentDomain = wire.NewSet(
	documentRepository.New,
	documentService.New,
)

var domains = wire.NewSet(
	notificationDomain,
	userDomain,
	authDomain,
	venueDomain,
	bookingDomain,
	documentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	venueHandler.New,
	bookingHandler.New,
	notificationHandler.New,
	documentHandler.New,
	meetHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
