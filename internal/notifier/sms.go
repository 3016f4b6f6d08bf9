package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./sms.go -destination=./mocks/sms_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"beautybar/config"
	"beautybar/shared/failure"
)

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewSMSSender(cfg *config.Config) SMSSender {
	if !cfg.Notification.SMS.Enable {
		return &disabledSMSSender{}
	}

	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.Notification.SMS.AccountSID,
			Password: cfg.Notification.SMS.AuthToken,
		}),
		from: cfg.Notification.SMS.Sender,
	}
}

func (s *twilioSender) Send(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send sms to %s: %w", to, err)
	}

	return nil
}

type disabledSMSSender struct{}

func (d *disabledSMSSender) Send(_ context.Context, _, _ string) error {
	return failure.Unavailable("sms notifications are not configured") //nolint:wrapcheck
}
