package payment

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"beautybar/infras/otel"
	"beautybar/internal/domains/payment/model/dto"
	"beautybar/internal/domains/payment/service"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
	"beautybar/shared/validator"
	"beautybar/transport/http/middleware"
	"beautybar/transport/http/response"
)

// Stripe keeps webhook payloads well under this.
const maxWebhookBody = 65536

type Handler struct {
	service service.Payment
	auth    middleware.Auth
	otel    otel.Otel
}

func New(service service.Payment, auth middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		auth:    auth,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/checkout", handler.CreateCheckout)
		routerGroup.Post("/webhook", handler.Webhook)
		routerGroup.Get("/verify", handler.VerifySession)
	})

	router.Route("/admin/payments", func(routerGroup chi.Router) {
		routerGroup.Use(handler.auth.AdminOnly)
		routerGroup.Post("/{id}/refund", handler.Refund)
	})
}

// CreateCheckout opens a Stripe Checkout session for a payment leg.
// @Summary Start a checkout session
// @Description Create a Stripe Checkout session for a booking's deposit or balance.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.CreateCheckoutRequest true "Create Checkout Request"
// @Success 201 {object} response.Data[dto.CheckoutResponse] "Checkout session"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/payments/checkout [post]
func (handler *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCheckout")
	defer scope.End()

	req := dto.CreateCheckoutRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CreateCheckoutSession(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create checkout session")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Checkout session created successfully")

	response.WithJSON(w, http.StatusCreated, res)
}

// Webhook receives signed Stripe events.
// @Summary Stripe webhook
// @Description Receive checkout completion events from Stripe.
// @Tags Payment
// @Accept json
// @Produce json
// @Success 200 {object} response.Message "Event processed"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/payments/webhook [post]
func (handler *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Webhook")
	defer scope.End()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read webhook payload")

		response.WithError(w, failure.BadRequestFromString("failed to read webhook payload"))

		return
	}

	signature := r.Header.Get(constant.RequestHeaderStripeSignature)

	if err := handler.service.HandleWebhook(ctx, payload, signature); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to handle webhook")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Event processed")
}

// VerifySession settles a booking from the return-page session id.
// @Summary Verify a checkout session
// @Description Check a checkout session's payment state and apply it to the booking.
// @Tags Payment
// @Produce json
// @Param session_id query string true "Checkout session ID"
// @Success 200 {object} response.Data[dto.VerifySessionResponse] "Session state"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/payments/verify [get]
func (handler *Handler) VerifySession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VerifySession")
	defer scope.End()

	sessionID := r.URL.Query().Get(constant.RequestParamSessionID)

	if err := validator.ValidateVar(sessionID, "required"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.VerifySession(ctx, sessionID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify checkout session")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Refund refunds one paid leg of a booking.
// @Summary Refund a payment
// @Description Refund the deposit or balance payment of a booking.
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.RefundRequest true "Refund Request"
// @Success 200 {object} response.Message "Refund issued successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/admin/payments/{id}/refund [post]
// @Security BearerAuth
func (handler *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Refund")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RefundRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Refund(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refund payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Refund issued successfully")

	response.WithMessage(w, http.StatusOK, "Refund issued successfully")
}
