package availability

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"beautybar/infras/otel"
	"beautybar/internal/domains/availability/service"
	"beautybar/shared/constant"
	"beautybar/shared/validator"
	"beautybar/transport/http/response"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetAvailability)
		routerGroup.Get("/slots", handler.GetSlots)
	})
}

// GetSlots lists open start times for one day.
// @Summary Get open slots for a day
// @Description List the bookable start times for a service on a given day.
// @Tags Availability
// @Produce json
// @Param date query string true "Calendar day (YYYY-MM-DD)"
// @Param service_id query string true "Service ID"
// @Success 200 {object} response.Data[dto.GetSlotsResponse] "Open slots"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/slots [get]
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	date := r.URL.Query().Get(constant.RequestParamDate)
	serviceID := r.URL.Query().Get(constant.RequestParamServiceID)

	if err := validator.ValidateVar(date, "required,date"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := validator.ValidateVar(serviceID, "required"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.GetSlots(ctx, date, serviceID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetAvailability reports per-day availability over a date range.
// @Summary Get availability for a date range
// @Description Report, day by day, whether the service has at least one open slot.
// @Tags Availability
// @Produce json
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Param service_id query string true "Service ID"
// @Success 200 {object} response.Data[dto.GetAvailabilityResponse] "Per-day availability"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	from := r.URL.Query().Get(constant.RequestParamFrom)
	to := r.URL.Query().Get(constant.RequestParamTo)
	serviceID := r.URL.Query().Get(constant.RequestParamServiceID)

	if err := validator.ValidateVar(from, "required,date"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := validator.ValidateVar(to, "required,date"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := validator.ValidateVar(serviceID, "required"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.GetRange(ctx, from, to, serviceID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
