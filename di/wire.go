//go:build wireinject
// +build wireinject

package di

import (
	"beautybar/config"
	"beautybar/infras/jwt"
	"beautybar/infras/kafka"
	"beautybar/infras/otel"
	"beautybar/infras/postgres"
	"beautybar/infras/redis"
	"beautybar/infras/stripe"
	"beautybar/internal/notifier"
	"beautybar/shared/cache"
	"beautybar/transport/http"
	"beautybar/transport/http/middleware"
	"beautybar/transport/http/router"

	"github.com/google/wire"

	authService "beautybar/internal/domains/auth/service"
	availabilityService "beautybar/internal/domains/availability/service"
	bookingRepository "beautybar/internal/domains/booking/repository"
	bookingService "beautybar/internal/domains/booking/service"
	paymentService "beautybar/internal/domains/payment/service"
	serviceRepository "beautybar/internal/domains/service/repository"
	serviceService "beautybar/internal/domains/service/service"
	settingsRepository "beautybar/internal/domains/settings/repository"
	settingsService "beautybar/internal/domains/settings/service"
	sweeperService "beautybar/internal/domains/sweeper/service"
	timeoffRepository "beautybar/internal/domains/timeoff/repository"
	timeoffService "beautybar/internal/domains/timeoff/service"

	authHandler "beautybar/internal/handlers/auth"
	availabilityHandler "beautybar/internal/handlers/availability"
	bookingHandler "beautybar/internal/handlers/booking"
	paymentHandler "beautybar/internal/handlers/payment"
	serviceHandler "beautybar/internal/handlers/service"
	settingsHandler "beautybar/internal/handlers/settings"
	sweeperHandler "beautybar/internal/handlers/sweeper"
	timeoffHandler "beautybar/internal/handlers/timeoff"
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
	stripe.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var notifications = wire.NewSet(
	notifier.NewEmailSender,
	notifier.NewSMSSender,
	notifier.New,
)

var settingsDomain = wire.NewSet(
	settingsRepository.New,
	settingsService.New,
)

var serviceDomain = wire.NewSet(
	serviceRepository.New,
	serviceRepository.NewAddOn,
	serviceService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var timeOffDomain = wire.NewSet(
	timeoffRepository.New,
	timeoffService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityService.New,
)

var paymentDomain = wire.NewSet(
	paymentService.New,
)

var sweeperDomain = wire.NewSet(
	sweeperService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var domains = wire.NewSet(
	settingsDomain,
	serviceDomain,
	bookingDomain,
	timeOffDomain,
	availabilityDomain,
	paymentDomain,
	sweeperDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	serviceHandler.New,
	settingsHandler.New,
	bookingHandler.New,
	availabilityHandler.New,
	paymentHandler.New,
	timeoffHandler.New,
	sweeperHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		notifications,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
