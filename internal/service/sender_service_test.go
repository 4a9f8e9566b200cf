package service

import (
	"context"
	"testing"
	"time"

	"assessments/internal/db"
	"assessments/internal/entities"
	"assessments/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooking(t *testing.T) db.Booking {
	hours := testHours(t)
	start := localTime(t, hours, "2025-03-10 10:00").UTC()
	return db.Booking{
		ID:              "booking_2025-03-10T14-00-00.000Z",
		CustomerName:    "Ada <script>",
		CustomerEmail:   "ada@example.com",
		Notes:           "line one\nline two",
		StartsAt:        start,
		EndsAt:          start.Add(45 * time.Minute),
		StripeSessionID: "cs_1",
		Status:          db.StatusConfirmed,
	}
}

func newTestSender(t *testing.T) (*SenderService, *fakeMailer, *fakeTexter, *fakePublisher) {
	mailer := &fakeMailer{}
	texter := &fakeTexter{}
	events := &fakePublisher{}
	s := NewSenderService(mailer, texter, events, SenderConfig{
		OperatorEmail: "ops@example.com",
		FitEmail:      "fit@example.com",
		OperatorPhone: "+15550100",
		Location:      testHours(t).Location,
	}, logger.Discard())
	return s, mailer, texter, events
}

func TestBookingConfirmed_SendsBothEmails(t *testing.T) {
	s, mailer, texter, events := newTestSender(t)
	s.BookingConfirmed(context.Background(), sampleBooking(t))

	ops := mailer.to("ops@example.com")
	require.Len(t, ops, 1)
	assert.Equal(t, "ada@example.com", ops[0].ReplyTo)
	assert.Equal(t, "Assessment Booked: Ada <script> (Mon, Mar 10 at 10:00 AM EDT)", ops[0].Subject)
	assert.Contains(t, ops[0].HTML, "Ada &lt;script&gt;")
	assert.Contains(t, ops[0].HTML, "cs_1")
	assert.Contains(t, ops[0].HTML, "10:45 AM")

	customer := mailer.to("ada@example.com")
	require.Len(t, customer, 1)
	assert.Equal(t, "Your Digital Systems Assessment is Confirmed", customer[0].Subject)

	assert.Len(t, texter.sent, 1)
	require.Len(t, events.events, 1)
	assert.Equal(t, EventBookingConfirmed, events.events[0].Type)
	assert.Equal(t, "2025-03-10T14:00:00.000Z", events.events[0].StartsAt)
}

func TestBookingCanceled(t *testing.T) {
	s, mailer, _, events := newTestSender(t)
	b := sampleBooking(t)
	b.Status = db.StatusCanceled
	s.BookingCanceled(context.Background(), b)

	assert.Len(t, mailer.to("ada@example.com"), 1)
	require.Len(t, events.events, 1)
	assert.Equal(t, EventBookingCanceled, events.events[0].Type)
}

func TestFitRequestReceived(t *testing.T) {
	s, mailer, _, _ := newTestSender(t)
	err := s.FitRequestReceived(context.Background(), db.FitRequest{
		ID: "fitRequest_1", Name: "Grace", Email: "grace@example.com", Budget: "$10k",
		Services: []string{"Website", "SEO"}, Message: "Hello there friends",
	})
	require.NoError(t, err)

	sent := mailer.to("fit@example.com")
	require.Len(t, sent, 1)
	assert.Equal(t, "New Fit Request: Grace • $10k", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "Website, SEO")
	assert.Equal(t, "grace@example.com", sent[0].ReplyTo)

	s.cfg.FitEmail = ""
	assert.Error(t, s.FitRequestReceived(context.Background(), db.FitRequest{}))
}

func TestAssessmentRequestedAndDigest(t *testing.T) {
	s, mailer, _, _ := newTestSender(t)
	require.NoError(t, s.AssessmentRequested(context.Background(), entities.AssessmentRequest{
		FullName: "Alan", Email: "alan@example.com", Goal: "Automate intake",
	}))
	require.NoError(t, s.DailyDigest(context.Background(), "Monday, March 10", []db.Booking{sampleBooking(t)}))

	ops := mailer.to("ops@example.com")
	require.Len(t, ops, 2)
	assert.Equal(t, "New Assessment Booking Request: Alan", ops[0].Subject)
	assert.Equal(t, "Assessments for Monday, March 10 (1)", ops[1].Subject)
	assert.Contains(t, ops[1].HTML, "booking_2025-03-10T14-00-00.000Z")
}
