package utils

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends a single transactional e-mail.
type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, plainText, html string) error
}

// SendGridMailer sends through the SendGrid v3 API. In sandbox mode
// SendGrid accepts and validates the message without delivering it.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	sandbox   bool
}

func NewSendGridMailer(apiKey, fromEmail string, sandbox bool) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		sandbox:   sandbox,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, toName, toEmail, subject, plainText, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	from := mail.NewEmail(OrganizationName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	msg := mail.NewSingleEmail(from, subject, to, plainText, html)
	if m.sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}

	resp, err := m.client.Send(msg)
	if err != nil {
		return fmt.Errorf("%w: sendgrid: %v", ErrExternalServiceFailure, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid status %d: %s", ErrExternalServiceFailure, resp.StatusCode, resp.Body)
	}
	return nil
}
