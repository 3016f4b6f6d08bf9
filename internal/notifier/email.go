package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./email.go -destination=./mocks/email_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/smtp"

	"beautybar/config"
	"beautybar/shared/failure"
)

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpSender struct {
	addr string
	from string
}

// NewEmailSender returns an unauthenticated SMTP sender, which covers the
// local relay and Mailpit setups this service deploys against. When email
// is disabled it returns a sender that rejects every send.
func NewEmailSender(cfg *config.Config) EmailSender {
	if !cfg.Notification.Email.Enable {
		return &disabledEmailSender{}
	}

	return &smtpSender{
		addr: fmt.Sprintf("%s:%s", cfg.Notification.Email.SMTPHost, cfg.Notification.Email.SMTPPort),
		from: cfg.Notification.Email.From,
	}
}

func (s *smtpSender) Send(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from,
		to,
		subject,
		body,
	)

	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}

type disabledEmailSender struct{}

func (d *disabledEmailSender) Send(_ context.Context, _, _, _ string) error {
	return failure.Unavailable("email notifications are not configured") //nolint:wrapcheck
}
