package service

import (
	"context"
	"strings"

	apperrors "assessments/internal/errors"
	"assessments/internal/logger"
)

const (
	assessmentProduct     = "Digital Systems Assessment"
	assessmentDescription = "A focused strategy session to review your website, tools, and workflows with clear next steps."
)

type CheckoutConfig struct {
	SiteURL     string
	AmountCents int64
	Currency    string
}

// SessionSummary is what the success page needs to decide whether to show the scheduler.
type SessionSummary struct {
	Paid          bool   `json:"paid"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

// CheckoutService starts the paid assessment funnel and reports on its sessions.
type CheckoutService struct {
	payments PaymentGateway
	cfg      CheckoutConfig
	log      *logger.Logger
}

func NewCheckoutService(payments PaymentGateway, cfg CheckoutConfig, log *logger.Logger) *CheckoutService {
	return &CheckoutService{payments: payments, cfg: cfg, log: log}
}

// StartAssessmentCheckout creates a fixed-price checkout session and returns its URL.
func (s *CheckoutService) StartAssessmentCheckout(ctx context.Context) (string, error) {
	if s.cfg.SiteURL == "" {
		return "", apperrors.ErrTransient("SITE_URL is not set.", nil)
	}
	sess, err := s.payments.CreateCheckoutSession(ctx, CheckoutParams{
		AmountCents: s.cfg.AmountCents,
		Currency:    s.cfg.Currency,
		ProductName: assessmentProduct,
		Description: assessmentDescription,
		SuccessURL:  s.cfg.SiteURL + "/assessment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.cfg.SiteURL + "/assessment?canceled=1",
		Metadata: map[string]string{
			"offer": "digital-systems-assessment",
			"brand": "CEL3 Interactive",
		},
	})
	if err != nil {
		s.log.Error("Failed to create checkout session", "error", err)
		return "", apperrors.ErrTransient("Unable to start checkout. Please try again.", err)
	}
	return sess.URL, nil
}

// SessionStatus reports whether a session is paid and which email it carries.
// A session counts as paid only when payment completed and the session is
// open or complete.
func (s *CheckoutService) SessionStatus(ctx context.Context, sessionID string) (*SessionSummary, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperrors.ErrValidation("Missing session_id")
	}
	sess, err := s.payments.GetSession(ctx, sessionID)
	if err != nil {
		s.log.Warn("Failed to retrieve checkout session", "session_id", sessionID, "error", err)
		return nil, apperrors.ErrTransient("We couldn't confirm your checkout session.", err)
	}
	paid := sess.Paid() && (sess.Status == "complete" || sess.Status == "open")
	summary := &SessionSummary{Paid: paid}
	if paid {
		summary.CustomerEmail = sess.CustomerEmail
	}
	return summary, nil
}
