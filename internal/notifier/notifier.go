package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"beautybar/config"
	"beautybar/infras/kafka"
	"beautybar/infras/otel"
	"beautybar/internal/domains/booking/model"
	"beautybar/shared/constant"
	"beautybar/shared/failure"
)

// Notifier fans a booking lifecycle event out to the channels the customer
// asked for. Channel failures are reported to the caller but never block
// the state change that triggered them.
type Notifier interface {
	BookingCreated(ctx context.Context, booking model.Booking) error
	BookingConfirmed(ctx context.Context, booking model.Booking) error
	BookingCancelled(ctx context.Context, booking model.Booking) error
	BookingReminder(ctx context.Context, booking model.Booking) error
	TestEmail(ctx context.Context, to string) error
	TestSMS(ctx context.Context, to string) error
}

type notifierImpl struct {
	email EmailSender
	sms   SMSSender
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
}

func New(email EmailSender, sms SMSSender, kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		email: email,
		sms:   sms,
		kafka: kafkaClient,
		cfg:   cfg,
		otel:  otel,
	}
}

type bookingEvent struct {
	Event       string `json:"event"`
	BookingID   string `json:"booking_id"`
	ServiceName string `json:"service_name"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	Status      string `json:"status"`
}

func (n *notifierImpl) BookingCreated(ctx context.Context, booking model.Booking) error {
	subject := fmt.Sprintf("Booking received: %s on %s", booking.ServiceName, booking.BookingDate.Format(constant.DateFormat))
	body := fmt.Sprintf(
		"Hi %s,\n\nWe have received your booking for %s on %s at %s.\n"+
			"Please pay the deposit of %.2f within %d hours to confirm your slot.\n\nSee you soon!",
		booking.CustomerName,
		booking.ServiceName,
		booking.BookingDate.Format(constant.DateFormat),
		booking.StartTime.Format(constant.TimeFormat),
		booking.DepositAmount,
		n.cfg.Booking.DepositExpiryHours,
	)
	sms := fmt.Sprintf(
		"Booking received: %s on %s at %s. Pay your %.2f deposit to confirm.",
		booking.ServiceName,
		booking.BookingDate.Format(constant.DateFormat),
		booking.StartTime.Format(constant.TimeFormat),
		booking.DepositAmount,
	)

	return n.deliver(ctx, "booking.created", booking, subject, body, sms)
}

func (n *notifierImpl) BookingConfirmed(ctx context.Context, booking model.Booking) error {
	subject := fmt.Sprintf("Booking confirmed: %s on %s", booking.ServiceName, booking.BookingDate.Format(constant.DateFormat))
	body := fmt.Sprintf(
		"Hi %s,\n\nYour deposit has been received and your booking for %s on %s at %s is confirmed.\n\nSee you soon!",
		booking.CustomerName,
		booking.ServiceName,
		booking.BookingDate.Format(constant.DateFormat),
		booking.StartTime.Format(constant.TimeFormat),
	)
	sms := fmt.Sprintf(
		"Booking confirmed: %s on %s at %s.",
		booking.ServiceName,
		booking.BookingDate.Format(constant.DateFormat),
		booking.StartTime.Format(constant.TimeFormat),
	)

	return n.deliver(ctx, "booking.confirmed", booking, subject, body, sms)
}

func (n *notifierImpl) BookingCancelled(ctx context.Context, booking model.Booking) error {
	subject := fmt.Sprintf("Booking cancelled: %s on %s", booking.ServiceName, booking.BookingDate.Format(constant.DateFormat))
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s on %s at %s has been cancelled.\n"+
			"If this is unexpected, please get in touch.",
		booking.CustomerName,
		booking.ServiceName,
		booking.BookingDate.Format(constant.DateFormat),
		booking.StartTime.Format(constant.TimeFormat),
	)
	sms := fmt.Sprintf(
		"Booking cancelled: %s on %s at %s.",
		booking.ServiceName,
		booking.BookingDate.Format(constant.DateFormat),
		booking.StartTime.Format(constant.TimeFormat),
	)

	return n.deliver(ctx, "booking.cancelled", booking, subject, body, sms)
}

func (n *notifierImpl) BookingReminder(ctx context.Context, booking model.Booking) error {
	subject := fmt.Sprintf("Reminder: %s tomorrow at %s", booking.ServiceName, booking.StartTime.Format(constant.TimeFormat))
	body := fmt.Sprintf(
		"Hi %s,\n\nA reminder that your %s appointment is on %s at %s.\n\nSee you soon!",
		booking.CustomerName,
		booking.ServiceName,
		booking.BookingDate.Format(constant.DateFormat),
		booking.StartTime.Format(constant.TimeFormat),
	)
	sms := fmt.Sprintf(
		"Reminder: %s on %s at %s.",
		booking.ServiceName,
		booking.BookingDate.Format(constant.DateFormat),
		booking.StartTime.Format(constant.TimeFormat),
	)

	return n.deliver(ctx, "booking.reminder", booking, subject, body, sms)
}

// deliver sends over every channel the booking opted into and publishes
// the lifecycle event. The event publish is best effort and only logged.
func (n *notifierImpl) deliver(ctx context.Context, event string, booking model.Booking, subject, body, sms string) (err error) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelNotifierScopeName, constant.OtelNotifierScopeName+"."+event)
	defer scope.End()
	defer scope.TraceIfError(err)

	n.publish(ctx, event, booking)

	var failures []error

	if booking.NotifyByEmail && booking.CustomerEmail != "" {
		if sendErr := n.email.Send(ctx, booking.CustomerEmail, subject, body); sendErr != nil {
			log.Error().Err(sendErr).Str("booking_id", booking.ID).Str("event", event).Msg("email notification failed")
			failures = append(failures, sendErr)
		}
	}

	if booking.NotifyBySMS && booking.CustomerPhone != "" {
		if sendErr := n.sms.Send(ctx, booking.CustomerPhone, sms); sendErr != nil {
			log.Error().Err(sendErr).Str("booking_id", booking.ID).Str("event", event).Msg("sms notification failed")
			failures = append(failures, sendErr)
		}
	}

	if len(failures) > 0 {
		err = failure.Upstream(fmt.Sprintf("%d notification channel(s) failed: %s", len(failures), failures[0]))

		return err //nolint:wrapcheck
	}

	return nil
}

func (n *notifierImpl) publish(ctx context.Context, event string, booking model.Booking) {
	payload := bookingEvent{
		Event:       event,
		BookingID:   booking.ID,
		ServiceName: booking.ServiceName,
		BookingDate: booking.BookingDate.Format(constant.DateFormat),
		StartTime:   booking.StartTime.Format(constant.TimeFormat),
		Status:      booking.Status,
	}

	err := n.kafka.SendMessages(ctx, n.cfg.Kafka.EventTopic, kafka.Message{Key: booking.ID, Value: payload})
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Str("event", event).Msg("failed to publish booking event")
	}
}

func (n *notifierImpl) TestEmail(ctx context.Context, to string) (err error) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelNotifierScopeName, constant.OtelNotifierScopeName+".TestEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = n.email.Send(ctx, to, "Test email", "This is a test email from your booking system.")
	if err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}

func (n *notifierImpl) TestSMS(ctx context.Context, to string) (err error) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelNotifierScopeName, constant.OtelNotifierScopeName+".TestSMS")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = n.sms.Send(ctx, to, "This is a test message from your booking system.")
	if err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}
