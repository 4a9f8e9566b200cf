package service

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

const paymentStatusPaid = "paid"

// CheckoutSession is the subset of a payment session the booking flow reads.
type CheckoutSession struct {
	ID            string
	URL           string
	Status        string
	PaymentStatus string
	CustomerEmail string
}

func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == paymentStatusPaid
}

type CheckoutParams struct {
	AmountCents int64
	Currency    string
	ProductName string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// PaymentGateway creates and retrieves checkout sessions. Sessions are never
// mutated by the booking flow.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

type StripeService struct{}

// NewStripeService sets the global Stripe key used by the checkout session client.
func NewStripeService(secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{}
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(p.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.ProductName),
						Description: stripe.String(p.Description),
					},
					UnitAmount: stripe.Int64(p.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return toCheckoutSession(sess), nil
}

func (s *StripeService) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve session %s: %w", sessionID, err)
	}
	return toCheckoutSession(sess), nil
}

func toCheckoutSession(sess *stripe.CheckoutSession) *CheckoutSession {
	email := sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}
	return &CheckoutSession{
		ID:            sess.ID,
		URL:           sess.URL,
		Status:        string(sess.Status),
		PaymentStatus: string(sess.PaymentStatus),
		CustomerEmail: email,
	}
}
