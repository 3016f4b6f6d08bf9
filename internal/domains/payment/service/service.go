package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	stripeGo "github.com/stripe/stripe-go/v79"

	"beautybar/config"
	"beautybar/infras/otel"
	"beautybar/infras/stripe"
	bookingModel "beautybar/internal/domains/booking/model"
	bookingRepo "beautybar/internal/domains/booking/repository"
	"beautybar/internal/domains/payment/model/dto"
	settingsService "beautybar/internal/domains/settings/service"
	"beautybar/internal/notifier"
	"beautybar/shared"
	"beautybar/shared/cache"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
	"beautybar/shared/timezone"
)

const (
	metadataBookingID = "booking_id"
	metadataType      = "type"

	paymentStatusPaid = "paid"
)

type Payment interface {
	CreateCheckoutSession(ctx context.Context, req dto.CreateCheckoutRequest) (dto.CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	VerifySession(ctx context.Context, sessionID string) (dto.VerifySessionResponse, error)
	Refund(ctx context.Context, bookingID string, req dto.RefundRequest) error
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	gateway     stripe.Gateway
	settings    settingsService.Settings
	notifier    notifier.Notifier
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	gateway stripe.Gateway,
	settings settingsService.Settings,
	notifier notifier.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		gateway:     gateway,
		settings:    settings,
		notifier:    notifier,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// CreateCheckoutSession opens a Stripe Checkout session for one payment
// leg. The deposit leg is only valid while the booking is awaiting its
// deposit; the balance leg only once the booking is confirmed and the
// balance has not been settled online yet.
func (s *serviceImpl) CreateCheckoutSession(ctx context.Context, req dto.CreateCheckoutRequest) (res dto.CheckoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateCheckoutSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	amount, description, err := s.resolveLeg(ctx, booking, req.Type)
	if err != nil {
		return res, err
	}

	pence := toPence(amount)
	if pence <= 0 {
		return res, failure.Conflict("nothing is owed for this booking") //nolint:wrapcheck
	}

	if pence < s.cfg.Stripe.MinimumChargePence {
		return res, failure.BadRequestFromString("amount is below the minimum chargeable") //nolint:wrapcheck
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, stripe.CheckoutInput{
		AmountPence: pence,
		ProductName: booking.ServiceName,
		Description: description,
		SuccessURL:  s.cfg.App.BaseURL + "/payments/return?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.cfg.App.BaseURL + "/bookings/" + booking.ID,
		Metadata: map[string]string{
			metadataBookingID: booking.ID,
			metadataType:      req.Type,
		},
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.SessionID = session.ID
	res.CheckoutURL = session.URL

	return res, nil
}

// resolveLeg computes what the given leg is worth right now. The SMS
// surcharge rides along with the deposit but never counts toward the
// service price, so it is backed out when the balance is computed.
func (s *serviceImpl) resolveLeg(ctx context.Context, booking bookingModel.Booking, leg string) (float64, string, error) {
	switch leg {
	case constant.PaymentLegDeposit:
		if booking.Status != constant.BookingStatusPendingDeposit {
			return 0, "", failure.Conflict("deposit is not payable in the booking's current state") //nolint:wrapcheck
		}

		return booking.DepositAmount, "Deposit for " + booking.ServiceName, nil

	case constant.PaymentLegBalance:
		if booking.Status != constant.BookingStatusConfirmed {
			return 0, "", failure.Conflict("balance is only payable once the booking is confirmed") //nolint:wrapcheck
		}

		if booking.BalancePaidOnline {
			return 0, "", failure.Conflict("balance has already been paid") //nolint:wrapcheck
		}

		cfg, err := s.settings.BookingConfig(ctx)
		if err != nil {
			return 0, "", err
		}

		towardPrice := booking.DepositAmount
		if booking.NotifyBySMS {
			towardPrice -= cfg.SMSNotificationFee
		}

		return booking.ServicePrice - towardPrice, "Balance for " + booking.ServiceName, nil
	}

	return 0, "", failure.BadRequestFromString("unknown payment type") //nolint:wrapcheck
}

// HandleWebhook processes signed Stripe events. Only completed checkout
// sessions matter; everything else is acknowledged and dropped.
func (s *serviceImpl) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleWebhook")
	defer scope.End()
	defer scope.TraceIfError(err)

	event, err := s.gateway.ConstructWebhookEvent(payload, signatureHeader)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if event.Type != "checkout.session.completed" {
		log.Info().Str("type", string(event.Type)).Msg("ignoring stripe event")

		return nil
	}

	var session stripeGo.CheckoutSession
	if err = json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Error().Err(err).Msg("failed to decode checkout session event")

		return failure.BadRequest(fmt.Errorf("failed to decode checkout session event: %w", err)) //nolint:wrapcheck
	}

	paymentIntentID := ""
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	return s.applySession(ctx, string(session.PaymentStatus), paymentIntentID, session.Metadata)
}

// VerifySession is the return-page path: the customer lands back with a
// session id and we settle the booking from the session state, whether or
// not the webhook beat us to it.
func (s *serviceImpl) VerifySession(ctx context.Context, sessionID string) (res dto.VerifySessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".VerifySession")
	defer scope.End()
	defer scope.TraceIfError(err)

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.BookingID = session.Metadata[metadataBookingID]
	res.Type = session.Metadata[metadataType]
	res.Paid = session.PaymentStatus == paymentStatusPaid

	if err = s.applySession(ctx, session.PaymentStatus, session.PaymentIntentID, session.Metadata); err != nil {
		return res, err
	}

	booking, err := s.loadBooking(ctx, res.BookingID)
	if err != nil {
		return res, err
	}

	res.BookingStatus = booking.Status

	return res, nil
}

// applySession records a paid session against its booking. It is
// idempotent: the webhook and the return page can both land and only the
// first one moves the booking.
func (s *serviceImpl) applySession(ctx context.Context, paymentStatus, paymentIntentID string, metadata map[string]string) error {
	if paymentStatus != paymentStatusPaid {
		log.Info().Str("payment_status", paymentStatus).Msg("checkout session not paid, nothing to apply")

		return nil
	}

	bookingID := metadata[metadataBookingID]
	leg := metadata[metadataType]

	if bookingID == constant.Empty {
		return failure.BadRequestFromString("checkout session carries no booking reference") //nolint:wrapcheck
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	switch leg {
	case constant.PaymentLegDeposit:
		if booking.Status != constant.BookingStatusPendingDeposit {
			return nil
		}

		updatedFields := map[string]any{
			bookingModel.FieldStatus:                 constant.BookingStatusConfirmed,
			bookingModel.FieldStripeDepositPaymentID: paymentIntentID,
			constant.FieldModifiedAt:                 timezone.Now(),
		}

		if err = s.updateBooking(ctx, bookingID, updatedFields); err != nil {
			return err
		}

		booking.Status = constant.BookingStatusConfirmed

		go func() {
			c := context.WithoutCancel(ctx)

			if notifyErr := s.notifier.BookingConfirmed(c, booking); notifyErr != nil {
				log.Error().Err(notifyErr).Str("booking_id", booking.ID).Msg("booking confirmed notification failed")
			}
		}()

		return nil

	case constant.PaymentLegBalance:
		if booking.BalancePaidOnline {
			return nil
		}

		updatedFields := map[string]any{
			bookingModel.FieldBalancePaidOnline:      true,
			bookingModel.FieldStripeBalancePaymentID: paymentIntentID,
			constant.FieldModifiedAt:                 timezone.Now(),
		}

		return s.updateBooking(ctx, bookingID, updatedFields)
	}

	return failure.BadRequestFromString("checkout session carries an unknown payment type") //nolint:wrapcheck
}

// Refund pushes a refund for one paid leg through the payment provider
// and records when it happened. Each leg refunds at most once.
func (s *serviceImpl) Refund(ctx context.Context, bookingID string, req dto.RefundRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefundPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	var paymentID *string

	refundedField := ""

	switch req.Type {
	case constant.PaymentLegDeposit:
		paymentID = booking.StripeDepositPaymentID
		refundedField = bookingModel.FieldDepositRefundedAt

		if booking.DepositRefundedAt != nil {
			return failure.Conflict("deposit has already been refunded") //nolint:wrapcheck
		}
	case constant.PaymentLegBalance:
		paymentID = booking.StripeBalancePaymentID
		refundedField = bookingModel.FieldBalanceRefundedAt

		if booking.BalanceRefundedAt != nil {
			return failure.Conflict("balance has already been refunded") //nolint:wrapcheck
		}
	default:
		return failure.BadRequestFromString("unknown payment type") //nolint:wrapcheck
	}

	if paymentID == nil || *paymentID == constant.Empty {
		return failure.Conflict("no online payment recorded for this leg") //nolint:wrapcheck
	}

	refundID, err := s.gateway.Refund(ctx, *paymentID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Str("booking_id", bookingID).Str("refund_id", refundID).Str("type", req.Type).Msg("refund issued")

	updatedFields := map[string]any{
		refundedField:            timezone.Now(),
		constant.FieldModifiedAt: timezone.Now(),
	}

	return s.updateBooking(ctx, bookingID, updatedFields)
}

func (s *serviceImpl) loadBooking(ctx context.Context, id string) (booking bookingModel.Booking, err error) {
	booking, err = s.bookingRepo.Get(ctx, shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) updateBooking(ctx context.Context, id string, updatedFields map[string]any) error {
	if err := s.bookingRepo.Update(ctx, updatedFields, shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey("booking:get", id))
		shared.InvalidateCaches(c, s.cache, "booking:gets")
		shared.InvalidateCaches(c, s.cache, "booking:count")
	}()

	return nil
}

func toPence(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
