package service

import (
	"context"
	"fmt"

	"assessments/internal/logger"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email is one outgoing message.
type Email struct {
	To        string
	ToName    string
	ReplyTo   string
	Subject   string
	PlainText string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

type SendGridMailer struct {
	cfg SendGridConfig
	log *logger.Logger
}

func NewSendGridMailer(cfg SendGridConfig, log *logger.Logger) *SendGridMailer {
	return &SendGridMailer{cfg: cfg, log: log}
}

func (m *SendGridMailer) Send(ctx context.Context, e Email) error {
	if m.cfg.APIKey == "" {
		m.log.Warn("SENDGRID_API_KEY is not set, email not sent", "to", e.To, "subject", e.Subject)
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}
	if m.cfg.FromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL is not set")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(m.cfg.FromName, m.cfg.FromEmail),
		e.Subject,
		mail.NewEmail(e.ToName, e.To),
		e.PlainText,
		e.HTML,
	)
	if e.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", e.ReplyTo))
	}

	client := sendgrid.NewSendClient(m.cfg.APIKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", e.To, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	m.log.Info("Email sent", "to", e.To, "subject", e.Subject, "status", response.StatusCode)
	return nil
}
