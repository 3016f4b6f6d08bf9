package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"beautybar/infras/otel"
	"beautybar/internal/domains/settings/model/dto"
	"beautybar/internal/domains/settings/service"
	"beautybar/shared/constant"
	"beautybar/shared/validator"
	"beautybar/transport/http/middleware"
	"beautybar/transport/http/response"
)

type Handler struct {
	service service.Settings
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Settings, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/settings", handler.GetPublicSettings)

	router.Route("/admin/settings", func(routerGroup chi.Router) {
		routerGroup.Use(handler.auth.AdminOnly)
		routerGroup.Get("/", handler.GetSettings)
		routerGroup.Patch("/", handler.UpdateSettings)
	})
}

// GetPublicSettings returns the customer-facing business profile.
// @Summary Get public settings
// @Description Get the business profile fields safe to show to customers.
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Data[dto.PublicSettingsResponse] "Public settings"
// @Failure 500 {object} response.Error
// @Router /v1/settings [get]
func (handler *Handler) GetPublicSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublicSettings")
	defer scope.End()

	res, err := handler.service.GetPublic(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get public settings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetSettings returns the full business settings.
// @Summary Get settings
// @Description Get the full business settings, including booking and payment configuration.
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Data[dto.SettingsResponse] "Settings"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/settings [get]
// @Security BearerAuth
func (handler *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSettings")
	defer scope.End()

	res, err := handler.service.Get(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get settings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateSettings applies a partial settings update.
// @Summary Update settings
// @Description Update business settings fields. Only provided fields are changed.
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Update Settings Request"
// @Success 200 {object} response.Message "Settings updated successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/settings [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSettings")
	defer scope.End()

	req := dto.UpdateSettingsRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update settings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Settings updated successfully")

	response.WithMessage(w, http.StatusOK, "Settings updated successfully")
}
