package timeoff

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"beautybar/infras/otel"
	"beautybar/internal/domains/timeoff/model/dto"
	"beautybar/internal/domains/timeoff/service"
	"beautybar/shared/constant"
	gDto "beautybar/shared/dto"
	"beautybar/shared/validator"
	"beautybar/transport/http/middleware"
	"beautybar/transport/http/response"
)

type Handler struct {
	service service.TimeOff
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.TimeOff, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admin/time-off", func(routerGroup chi.Router) {
		routerGroup.Use(handler.auth.AdminOnly)
		routerGroup.Post("/", handler.CreateBlock)
		routerGroup.Get("/", handler.GetBlocks)
		routerGroup.Delete("/{id}", handler.DeleteBlock)
	})
}

// CreateBlock blocks out a span of time from booking.
// @Summary Create a time-off block
// @Description Block a span of time so no bookings can be made inside it.
// @Tags TimeOff
// @Accept json
// @Produce json
// @Param request body dto.CreateBlockRequest true "Create Block Request"
// @Success 201 {object} response.Data[dto.BlockResponse] "Created block"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/time-off [post]
// @Security BearerAuth
func (handler *Handler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBlock")
	defer scope.End()

	req := dto.CreateBlockRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create time-off block")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Time-off block created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// GetBlocks lists time-off blocks, optionally bounded by a date range.
// @Summary List time-off blocks
// @Description List time-off blocks, optionally limited to blocks touching a date range.
// @Tags TimeOff
// @Produce json
// @Param from query string false "Range start date (YYYY-MM-DD)"
// @Param to query string false "Range end date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Data[dto.GetBlocksResponse] "Blocks"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/time-off [get]
// @Security BearerAuth
func (handler *Handler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlocks")
	defer scope.End()

	req := gDto.QueryParams{}
	req.FromRequest(r, true)

	from := r.URL.Query().Get(constant.RequestParamFrom)
	to := r.URL.Query().Get(constant.RequestParamTo)

	if from != constant.Empty {
		if err := validator.ValidateVar(from, "date"); err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
	}

	if to != constant.Empty {
		if err := validator.ValidateVar(to, "date"); err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
	}

	res, err := handler.service.GetAll(ctx, req, from, to)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get time-off blocks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteBlock removes a time-off block.
// @Summary Delete a time-off block
// @Description Delete a time-off block so the covered time becomes bookable again.
// @Tags TimeOff
// @Produce json
// @Param id path string true "Block ID"
// @Success 200 {object} response.Message "Time-off block deleted successfully"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/time-off/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBlock")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete time-off block")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Time-off block deleted successfully")

	response.WithMessage(w, http.StatusOK, "Time-off block deleted successfully")
}
