// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"beautybar/config"
	"beautybar/infras/jwt"
	"beautybar/infras/kafka"
	"beautybar/infras/otel"
	"beautybar/infras/postgres"
	"beautybar/infras/redis"
	"beautybar/infras/stripe"
	"beautybar/internal/domains/auth/service"
	service6 "beautybar/internal/domains/availability/service"
	repository3 "beautybar/internal/domains/booking/repository"
	service5 "beautybar/internal/domains/booking/service"
	service7 "beautybar/internal/domains/payment/service"
	repository2 "beautybar/internal/domains/service/repository"
	service2 "beautybar/internal/domains/service/service"
	"beautybar/internal/domains/settings/repository"
	service4 "beautybar/internal/domains/settings/service"
	service9 "beautybar/internal/domains/sweeper/service"
	repository4 "beautybar/internal/domains/timeoff/repository"
	service8 "beautybar/internal/domains/timeoff/service"
	"beautybar/internal/handlers/auth"
	"beautybar/internal/handlers/availability"
	"beautybar/internal/handlers/booking"
	"beautybar/internal/handlers/payment"
	service3 "beautybar/internal/handlers/service"
	"beautybar/internal/handlers/settings"
	"beautybar/internal/handlers/sweeper"
	"beautybar/internal/handlers/timeoff"
	"beautybar/internal/notifier"
	"beautybar/shared/cache"
	"beautybar/transport/http"
	"beautybar/transport/http/middleware"
	"beautybar/transport/http/router"
	"github.com/google/wire"
)

// Injectors from wire.go:

func InitializeService() *http.HTTP {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositorySettings := repository.New(connection, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	jwtJWT := jwt.New(configConfig)
	serviceAuth := service.New(repositorySettings, configConfig, redisCache, otelOtel, jwtJWT)
	middlewareAuth := middleware.NewAuthMiddleware(jwtJWT, otelOtel)
	handler := auth.New(serviceAuth, middlewareAuth, otelOtel)
	repositoryService := repository2.New(connection, otelOtel)
	addOn := repository2.NewAddOn(connection, otelOtel)
	repositoryBooking := repository3.New(connection, otelOtel)
	serviceService := service2.New(repositoryService, addOn, repositoryBooking, configConfig, redisCache, otelOtel)
	serviceHandler := service3.New(serviceService, middlewareAuth, otelOtel)
	gateway := stripe.New(configConfig)
	serviceSettings := service4.New(repositorySettings, gateway, configConfig, redisCache, otelOtel)
	settingsHandler := settings.New(serviceSettings, middlewareAuth, otelOtel)
	emailSender := notifier.NewEmailSender(configConfig)
	smsSender := notifier.NewSMSSender(configConfig)
	kafkaClient := kafka.New(configConfig)
	notifierNotifier := notifier.New(emailSender, smsSender, kafkaClient, configConfig, otelOtel)
	serviceBooking := service5.New(repositoryBooking, repositoryService, serviceSettings, notifierNotifier, configConfig, redisCache, otelOtel)
	bookingHandler := booking.New(serviceBooking, middlewareAuth, otelOtel)
	timeOff := repository4.New(connection, otelOtel)
	serviceAvailability := service6.New(repositoryBooking, timeOff, repositoryService, serviceSettings, configConfig, otelOtel)
	availabilityHandler := availability.New(serviceAvailability, otelOtel)
	servicePayment := service7.New(repositoryBooking, gateway, serviceSettings, notifierNotifier, configConfig, redisCache, otelOtel)
	paymentHandler := payment.New(servicePayment, middlewareAuth, otelOtel)
	serviceTimeOff := service8.New(timeOff, otelOtel)
	timeoffHandler := timeoff.New(serviceTimeOff, middlewareAuth, otelOtel)
	serviceSweeper := service9.New(repositoryBooking, notifierNotifier, configConfig, redisCache, otelOtel)
	sweeperHandler := sweeper.New(serviceSweeper, notifierNotifier, middlewareAuth, configConfig, otelOtel)
	domainHandlers := router.DomainHandlers{
		Auth:         handler,
		Service:      serviceHandler,
		Settings:     settingsHandler,
		Booking:      bookingHandler,
		Availability: availabilityHandler,
		Payment:      paymentHandler,
		TimeOff:      timeoffHandler,
		Sweeper:      sweeperHandler,
	}
	routerRouter := router.New(domainHandlers)
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	httpHTTP := http.New(configConfig, routerRouter, appMiddleware, connection)
	return httpHTTP
}

// wire.go:

var configurations = wire.NewSet(config.Get)

var infrastructures = wire.NewSet(postgres.New, otel.New, redis.New, jwt.New, kafka.New, stripe.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware, middleware.NewAuthMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var notifications = wire.NewSet(notifier.NewEmailSender, notifier.NewSMSSender, notifier.New)

var settingsDomain = wire.NewSet(repository.New, service4.New)

var serviceDomain = wire.NewSet(repository2.New, repository2.NewAddOn, service2.New)

var bookingDomain = wire.NewSet(repository3.New, service5.New)

var timeOffDomain = wire.NewSet(repository4.New, service8.New)

var availabilityDomain = wire.NewSet(service6.New)

var paymentDomain = wire.NewSet(service7.New)

var sweeperDomain = wire.NewSet(service9.New)

var authDomain = wire.NewSet(service.New)

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

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), auth.New, service3.New, settings.New, booking.New, availability.New, payment.New, timeoff.New, sweeper.New, router.New)
