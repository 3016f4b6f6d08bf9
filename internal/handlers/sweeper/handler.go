package sweeper

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"beautybar/config"
	"beautybar/infras/jwt"
	"beautybar/infras/otel"
	"beautybar/internal/domains/sweeper/service"
	"beautybar/internal/notifier"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
	"beautybar/shared/validator"
	"beautybar/transport/http/middleware"
	"beautybar/transport/http/response"
)

type TestNotificationRequest struct {
	To string `json:"to" validate:"required"`
}

type Handler struct {
	service  service.Sweeper
	notifier notifier.Notifier
	auth     middleware.Auth
	config   *config.Config
	otel     otel.Otel
}

func New(service service.Sweeper, notifier notifier.Notifier, auth middleware.Auth, config *config.Config, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		notifier: notifier,
		auth:     auth,
		config:   config,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/cron", func(routerGroup chi.Router) {
		routerGroup.Use(handler.cronSecret)
		routerGroup.Post("/expire", handler.ExpireStale)
		routerGroup.Post("/reminders", handler.SendReminders)
	})

	router.Route("/admin/notifications", func(routerGroup chi.Router) {
		routerGroup.Use(handler.auth.AdminOnly)
		routerGroup.Post("/test-email", handler.TestEmail)
		routerGroup.Post("/test-sms", handler.TestSMS)
	})
}

// cronSecret gates the sweep endpoints behind a shared secret, passed
// either as a bearer token or a query parameter for schedulers that
// cannot set headers.
func (handler *Handler) cronSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler.config.Booking.CronSecret == constant.Empty {
			response.WithError(w, failure.Unavailable("cron endpoints are not configured"))

			return
		}

		provided := r.URL.Query().Get(constant.RequestParamSecret)
		if provided == constant.Empty {
			provided, _ = jwt.ExtractTokenFromHeader(r.Header.Get(constant.RequestHeaderAuthorization))
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(handler.config.Booking.CronSecret)) != 1 {
			response.WithError(w, failure.Unauthorized("invalid cron secret"))

			return
		}

		next.ServeHTTP(w, r)
	})
}

// ExpireStale cancels bookings whose deposit window has lapsed.
// @Summary Expire stale bookings
// @Description Cancel bookings that have waited too long for their deposit.
// @Tags Sweep
// @Produce json
// @Param secret query string false "Cron secret"
// @Success 200 {object} response.Data[dto.SweepReport] "Sweep report"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/cron/expire [post]
func (handler *Handler) ExpireStale(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExpireStale")
	defer scope.End()

	res, err := handler.service.ExpireStale(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to expire stale bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// SendReminders sends reminders for bookings starting tomorrow.
// @Summary Send booking reminders
// @Description Send reminders for confirmed bookings starting about a day from now.
// @Tags Sweep
// @Produce json
// @Param secret query string false "Cron secret"
// @Success 200 {object} response.Data[dto.SweepReport] "Sweep report"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/cron/reminders [post]
func (handler *Handler) SendReminders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SendReminders")
	defer scope.End()

	res, err := handler.service.SendReminders(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send reminders")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// TestEmail sends a test message through the email channel.
// @Summary Send a test email
// @Description Send a test email to verify the SMTP configuration.
// @Tags Sweep
// @Accept json
// @Produce json
// @Param request body TestNotificationRequest true "Test Notification Request"
// @Success 200 {object} response.Message "Test email sent successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 502 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/notifications/test-email [post]
// @Security BearerAuth
func (handler *Handler) TestEmail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TestEmail")
	defer scope.End()

	req := TestNotificationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.notifier.TestEmail(ctx, req.To); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send test email")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Test email sent successfully")
}

// TestSMS sends a test message through the SMS channel.
// @Summary Send a test SMS
// @Description Send a test SMS to verify the Twilio configuration.
// @Tags Sweep
// @Accept json
// @Produce json
// @Param request body TestNotificationRequest true "Test Notification Request"
// @Success 200 {object} response.Message "Test SMS sent successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 502 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/notifications/test-sms [post]
// @Security BearerAuth
func (handler *Handler) TestSMS(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TestSMS")
	defer scope.End()

	req := TestNotificationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.notifier.TestSMS(ctx, req.To); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send test SMS")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Test SMS sent successfully")
}
