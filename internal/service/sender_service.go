package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"assessments/internal/db"
	"assessments/internal/entities"
	"assessments/internal/logger"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var emailTemplates embed.FS

var mailTemplates = template.Must(template.ParseFS(emailTemplates, "templates/*.html"))

const (
	displayStartLayout = "Mon, Jan 2 at 3:04 PM"
	displayEndLayout   = "3:04 PM"
)

// BookingNotifier is told about booking lifecycle changes. Implementations
// must not fail the caller: delivery problems are logged and dropped.
type BookingNotifier interface {
	BookingConfirmed(ctx context.Context, b db.Booking)
	BookingCanceled(ctx context.Context, b db.Booking)
}

type SenderConfig struct {
	OperatorEmail string
	FitEmail      string
	OperatorPhone string
	Location      *time.Location
}

// SenderService delivers every outbound message: email through the Mailer,
// an optional SMS alert to the operator, and booking events.
type SenderService struct {
	mailer Mailer
	texter Texter
	events EventPublisher
	cfg    SenderConfig
	log    *logger.Logger
	now    func() time.Time
}

// NewSenderService accepts a nil texter (no SMS) and a nil publisher (no events).
func NewSenderService(mailer Mailer, texter Texter, events EventPublisher, cfg SenderConfig, log *logger.Logger) *SenderService {
	if events == nil {
		events = NopPublisher{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &SenderService{mailer: mailer, texter: texter, events: events, cfg: cfg, log: log, now: time.Now}
}

// BookingConfirmed emails the operator (reply-to the customer) and the
// customer concurrently, then sends the SMS alert and the confirmed event.
func (s *SenderService) BookingConfirmed(ctx context.Context, b db.Booking) {
	data := s.bookingEmailData(b)

	var g errgroup.Group
	g.Go(func() error {
		err := s.sendTemplate(ctx, "booking_operator.html", data, Email{
			To:      s.cfg.OperatorEmail,
			ReplyTo: b.CustomerEmail,
			Subject: fmt.Sprintf("Assessment Booked: %s (%s %s)", b.CustomerName, data.DisplayStart, data.ZoneAbbrev),
			PlainText: fmt.Sprintf("%s <%s> booked %s to %s %s.\nBooking ID: %s\nStripe session: %s\n\n%s",
				b.CustomerName, b.CustomerEmail, data.DisplayStart, data.DisplayEnd, data.ZoneAbbrev,
				b.ID, b.StripeSessionID, b.Notes),
		})
		if err != nil {
			s.log.Error("Booking confirmed but operator email failed", "booking_id", b.ID, "error", err)
		}
		return err
	})
	g.Go(func() error {
		err := s.sendTemplate(ctx, "booking_customer.html", data, Email{
			To:      b.CustomerEmail,
			ToName:  b.CustomerName,
			Subject: "Your Digital Systems Assessment is Confirmed",
			PlainText: fmt.Sprintf("Thanks %s. Your Digital Systems Assessment is scheduled for %s to %s %s.\nWe'll email you the meeting link shortly.",
				b.CustomerName, data.DisplayStart, data.DisplayEnd, data.ZoneAbbrev),
		})
		if err != nil {
			s.log.Error("Booking confirmed but customer email failed", "booking_id", b.ID, "to", b.CustomerEmail, "error", err)
		}
		return err
	})
	_ = g.Wait()

	s.alertOperator(ctx, fmt.Sprintf("New assessment: %s, %s %s", b.CustomerName, data.DisplayStart, data.ZoneAbbrev))
	s.publish(ctx, EventBookingConfirmed, b)
}

func (s *SenderService) BookingCanceled(ctx context.Context, b db.Booking) {
	data := s.bookingEmailData(b)
	err := s.sendTemplate(ctx, "booking_canceled.html", data, Email{
		To:        b.CustomerEmail,
		ToName:    b.CustomerName,
		ReplyTo:   s.cfg.OperatorEmail,
		Subject:   "Your Digital Systems Assessment was canceled",
		PlainText: fmt.Sprintf("Hi %s, your assessment on %s %s has been canceled.", b.CustomerName, data.DisplayStart, data.ZoneAbbrev),
	})
	if err != nil {
		s.log.Error("Booking canceled but customer email failed", "booking_id", b.ID, "error", err)
	}
	s.publish(ctx, EventBookingCanceled, b)
}

// FitRequestReceived emails the fit inbox. The caller decides whether a
// failure matters.
func (s *SenderService) FitRequestReceived(ctx context.Context, fr db.FitRequest) error {
	if s.cfg.FitEmail == "" {
		return fmt.Errorf("FIT_TO_EMAIL is not set")
	}
	data := entities.FitEmailData{
		ID:       fr.ID,
		Name:     fr.Name,
		Email:    fr.Email,
		Company:  fr.Company,
		Website:  fr.Website,
		Budget:   fr.Budget,
		Timeline: fr.Timeline,
		Services: strings.Join(fr.Services, ", "),
		Message:  truncate(fr.Message, 6000),
	}
	return s.sendTemplate(ctx, "fit_request.html", data, Email{
		To:      s.cfg.FitEmail,
		ReplyTo: fr.Email,
		Subject: fmt.Sprintf("New Fit Request: %s • %s", truncate(fr.Name, 80), truncate(fr.Budget, 40)),
		PlainText: fmt.Sprintf("Name: %s\nEmail: %s\nCompany: %s\nWebsite: %s\nBudget: %s\nTimeline: %s\nServices: %s\n\n%s\n\nRequest ID: %s",
			data.Name, data.Email, data.Company, data.Website, data.Budget, data.Timeline, data.Services, data.Message, data.ID),
	})
}

func (s *SenderService) AssessmentRequested(ctx context.Context, req entities.AssessmentRequest) error {
	return s.sendTemplate(ctx, "assessment_request.html", req, Email{
		To:      s.cfg.OperatorEmail,
		ReplyTo: req.Email,
		Subject: "New Assessment Booking Request: " + req.FullName,
		PlainText: fmt.Sprintf("Name: %s\nEmail: %s\nCompany: %s\nWebsite: %s\n\nGoal:\n%s",
			req.FullName, req.Email, req.Company, req.Website, req.Goal),
	})
}

// DailyDigest emails the operator the given bookings under a day heading.
func (s *SenderService) DailyDigest(ctx context.Context, day string, bookings []db.Booking) error {
	data := entities.DigestEmailData{Day: day}
	var plain strings.Builder
	for _, b := range bookings {
		row := s.bookingEmailData(b)
		data.Bookings = append(data.Bookings, row)
		fmt.Fprintf(&plain, "%s to %s %s  %s <%s>  %s\n", row.DisplayStart, row.DisplayEnd, row.ZoneAbbrev, b.CustomerName, b.CustomerEmail, b.ID)
	}
	return s.sendTemplate(ctx, "daily_digest.html", data, Email{
		To:        s.cfg.OperatorEmail,
		Subject:   fmt.Sprintf("Assessments for %s (%d)", day, len(bookings)),
		PlainText: plain.String(),
	})
}

func (s *SenderService) bookingEmailData(b db.Booking) entities.BookingEmailData {
	start := b.StartsAt.In(s.cfg.Location)
	return entities.BookingEmailData{
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Notes:         b.Notes,
		DisplayStart:  start.Format(displayStartLayout),
		DisplayEnd:    b.EndsAt.In(s.cfg.Location).Format(displayEndLayout),
		ZoneAbbrev:    start.Format("MST"),
		BookingID:     b.ID,
		SessionID:     b.StripeSessionID,
		CurrentYear:   s.now().In(s.cfg.Location).Year(),
	}
}

func (s *SenderService) sendTemplate(ctx context.Context, name string, data any, e Email) error {
	if e.To == "" {
		return fmt.Errorf("no recipient for %s", name)
	}
	var body bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	e.HTML = body.String()
	return s.mailer.Send(ctx, e)
}

func (s *SenderService) alertOperator(ctx context.Context, body string) {
	if s.texter == nil || s.cfg.OperatorPhone == "" {
		return
	}
	if err := s.texter.SendSMS(ctx, s.cfg.OperatorPhone, body); err != nil {
		s.log.Warn("Operator SMS alert failed", "error", err)
	}
}

func (s *SenderService) publish(ctx context.Context, eventType string, b db.Booking) {
	if err := s.events.Publish(ctx, NewBookingEvent(eventType, b, s.now())); err != nil {
		s.log.Warn("Booking event not published", "type", eventType, "booking_id", b.ID, "error", err)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
