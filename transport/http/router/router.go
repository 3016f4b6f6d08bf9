package router

import (
	"beautybar/internal/handlers/auth"
	"beautybar/internal/handlers/availability"
	"beautybar/internal/handlers/booking"
	"beautybar/internal/handlers/payment"
	"beautybar/internal/handlers/service"
	"beautybar/internal/handlers/settings"
	"beautybar/internal/handlers/sweeper"
	"beautybar/internal/handlers/timeoff"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	Service      service.Handler
	Settings     settings.Handler
	Booking      booking.Handler
	Availability availability.Handler
	Payment      payment.Handler
	TimeOff      timeoff.Handler
	Sweeper      sweeper.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Service.Router(routerGroup)
		r.DomainHandlers.Settings.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.TimeOff.Router(routerGroup)
		r.DomainHandlers.Sweeper.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
