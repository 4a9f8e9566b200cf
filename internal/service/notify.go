package service

import (
	"context"
	"fmt"
	"strings"

	"assessments/internal/logger"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Texter sends short operator alerts.
type Texter interface {
	SendSMS(ctx context.Context, to, body string) error
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

type TwilioTexter struct {
	cfg    TwilioConfig
	client *twilio.RestClient
	log    *logger.Logger
}

func NewTwilioTexter(cfg TwilioConfig, log *logger.Logger) *TwilioTexter {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   cfg.AccountSID,
		Password:   cfg.AuthToken,
		AccountSid: cfg.AccountSID,
	})
	return &TwilioTexter{cfg: cfg, client: client, log: log}
}

// SendSMS does not take the context into account; the Twilio client has no
// per-call context.
func (t *TwilioTexter) SendSMS(_ context.Context, to, body string) error {
	if !t.cfg.Enabled() {
		return fmt.Errorf("twilio credentials not configured")
	}
	if !strings.HasPrefix(to, "+") {
		t.log.Warn("SMS destination is not in E.164 format", "to", to)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.cfg.FromNumber)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}
	if resp != nil && resp.Sid != nil {
		t.log.Info("SMS sent", "to", to, "sid", *resp.Sid)
	}
	return nil
}
