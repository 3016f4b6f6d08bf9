package stripe

//go:generate go run go.uber.org/mock/mockgen -source=./stripe.go -destination=./mocks/stripe_mock.go -package=mocks

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	stripeGo "github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	stripeRefund "github.com/stripe/stripe-go/v79/refund"
	"github.com/stripe/stripe-go/v79/webhook"

	"beautybar/config"
	"beautybar/shared/failure"
)

// CheckoutInput describes a single fixed-amount payment to collect.
type CheckoutInput struct {
	AmountPence int64
	ProductName string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession is the subset of the Stripe session callers need.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	Metadata        map[string]string
}

// Gateway wraps the Stripe API behind an interface so services can be
// tested without talking to Stripe.
type Gateway interface {
	Enabled() bool
	CreateCheckoutSession(ctx context.Context, input CheckoutInput) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error)
	ConstructWebhookEvent(payload []byte, signatureHeader string) (stripeGo.Event, error)
	Refund(ctx context.Context, paymentIntentID string) (refundID string, err error)
}

type gatewayImpl struct {
	config *config.Config
}

// Credentials stored in business settings override the environment. The
// settings service pushes them here on load and on every update.
var (
	credentialsMu   sync.RWMutex
	secretOverride  string
	webhookOverride string
)

func SetCredentials(secretKey, webhookSecret string) {
	credentialsMu.Lock()
	defer credentialsMu.Unlock()

	secretOverride = secretKey
	webhookOverride = webhookSecret

	if secretKey != "" {
		stripeGo.Key = secretKey
	}
}

func New(cfg *config.Config) Gateway {
	if cfg.Stripe.SecretKey == "" {
		log.Warn().Msg("Stripe secret key is not configured, payment features are disabled")
	} else {
		stripeGo.Key = cfg.Stripe.SecretKey
	}

	return &gatewayImpl{config: cfg}
}

func (g *gatewayImpl) secretKey() string {
	credentialsMu.RLock()
	defer credentialsMu.RUnlock()

	if secretOverride != "" {
		return secretOverride
	}

	return g.config.Stripe.SecretKey
}

func (g *gatewayImpl) webhookSecret() string {
	credentialsMu.RLock()
	defer credentialsMu.RUnlock()

	if webhookOverride != "" {
		return webhookOverride
	}

	return g.config.Stripe.WebhookSecret
}

func (g *gatewayImpl) Enabled() bool {
	return g.secretKey() != ""
}

func (g *gatewayImpl) CreateCheckoutSession(ctx context.Context, input CheckoutInput) (CheckoutSession, error) {
	if !g.Enabled() {
		return CheckoutSession{}, failure.Unavailable("payment provider is not configured")
	}

	params := &stripeGo.CheckoutSessionParams{
		Params: stripeGo.Params{Context: ctx},
		Mode:   stripeGo.String(string(stripeGo.CheckoutSessionModePayment)),
		LineItems: []*stripeGo.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeGo.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripeGo.String(g.config.Stripe.Currency),
					UnitAmount: stripeGo.Int64(input.AmountPence),
					ProductData: &stripeGo.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripeGo.String(input.ProductName),
						Description: stripeGo.String(input.Description),
					},
				},
				Quantity: stripeGo.Int64(1),
			},
		},
		SuccessURL: stripeGo.String(input.SuccessURL),
		CancelURL:  stripeGo.String(input.CancelURL),
		Metadata:   input.Metadata,
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Stripe checkout session")

		return CheckoutSession{}, failure.Upstream("failed to create checkout session")
	}

	return fromStripeSession(sess), nil
}

func (g *gatewayImpl) GetCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error) {
	if !g.Enabled() {
		return CheckoutSession{}, failure.Unavailable("payment provider is not configured")
	}

	params := &stripeGo.CheckoutSessionParams{
		Params: stripeGo.Params{Context: ctx},
	}
	params.AddExpand("payment_intent")

	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to retrieve Stripe checkout session")

		return CheckoutSession{}, failure.Upstream("failed to retrieve checkout session")
	}

	return fromStripeSession(sess), nil
}

func (g *gatewayImpl) ConstructWebhookEvent(payload []byte, signatureHeader string) (stripeGo.Event, error) {
	if g.webhookSecret() == "" {
		return stripeGo.Event{}, failure.Unavailable("webhook secret is not configured")
	}

	event, err := webhook.ConstructEvent(payload, signatureHeader, g.webhookSecret())
	if err != nil {
		return stripeGo.Event{}, failure.BadRequest(errors.Wrap(err, "invalid webhook signature"))
	}

	return event, nil
}

func (g *gatewayImpl) Refund(ctx context.Context, paymentIntentID string) (string, error) {
	if !g.Enabled() {
		return "", failure.Unavailable("payment provider is not configured")
	}

	params := &stripeGo.RefundParams{
		Params:        stripeGo.Params{Context: ctx},
		PaymentIntent: stripeGo.String(paymentIntentID),
	}

	ref, err := stripeRefund.New(params)
	if err != nil {
		log.Error().Err(err).Str("payment_intent_id", paymentIntentID).Msg("Failed to refund Stripe payment intent")

		return "", failure.Upstream("failed to refund payment")
	}

	return ref.ID, nil
}

func fromStripeSession(sess *stripeGo.CheckoutSession) CheckoutSession {
	out := CheckoutSession{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
		Metadata:      sess.Metadata,
	}

	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}

	return out
}
