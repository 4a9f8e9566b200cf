package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"assessments/internal/db"
	"assessments/internal/docstore"
	"assessments/internal/entities"
	"assessments/internal/utils"
	"github.com/stretchr/testify/require"
)

func testHours(t *testing.T) utils.BusinessHours {
	t.Helper()
	h, err := utils.NewBusinessHours("America/New_York", 10, 18, 45*time.Minute, 15*time.Minute, 12*time.Hour, 14)
	require.NoError(t, err)
	return h
}

func localTime(t *testing.T, h utils.BusinessHours, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", s, h.Location)
	require.NoError(t, err)
	return ts
}

type fakeGateway struct {
	mu       sync.Mutex
	sessions map[string]*CheckoutSession
	err      error
	gets     int
	created  []CheckoutParams
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*CheckoutSession{}}
}

func (g *fakeGateway) paid(id, email string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[id] = &CheckoutSession{ID: id, Status: "complete", PaymentStatus: "paid", CustomerEmail: email}
}

func (g *fakeGateway) unpaid(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[id] = &CheckoutSession{ID: id, Status: "open", PaymentStatus: "unpaid"}
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, p CheckoutParams) (*CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.created = append(g.created, p)
	return &CheckoutSession{ID: "cs_new", URL: "https://checkout.stripe.test/cs_new", Status: "open", PaymentStatus: "unpaid"}, nil
}

func (g *fakeGateway) GetSession(_ context.Context, id string) (*CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gets++
	if g.err != nil {
		return nil, g.err
	}
	s, ok := g.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout session")
	}
	cp := *s
	return &cp, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []db.Booking
	canceled  []db.Booking
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b db.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b)
}

func (n *recordingNotifier) BookingCanceled(_ context.Context, b db.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.canceled = append(n.canceled, b)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func (m *fakeMailer) to(addr string) []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Email
	for _, e := range m.sent {
		if e.To == addr {
			out = append(out, e)
		}
	}
	return out
}

type fakeTexter struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeTexter) SendSMS(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to+": "+body)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []BookingEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeLeads struct {
	fits        []db.FitRequest
	assessments []entities.AssessmentRequest
	err         error
}

func (f *fakeLeads) FitRequestReceived(_ context.Context, fr db.FitRequest) error {
	f.fits = append(f.fits, fr)
	return f.err
}

func (f *fakeLeads) AssessmentRequested(_ context.Context, req entities.AssessmentRequest) error {
	f.assessments = append(f.assessments, req)
	return f.err
}

// flakyTxStore fails every transaction after applying only its first
// `apply` operations.
type flakyTxStore struct {
	docstore.Store
	apply int
}

func (s *flakyTxStore) Transaction(ctx context.Context, ops ...docstore.Op) error {
	if s.apply > 0 {
		n := min(s.apply, len(ops))
		if err := s.Store.Transaction(ctx, ops[:n]...); err != nil {
			return err
		}
	}
	return errors.New("transaction aborted")
}

// failingStore fails every read and write.
type failingStore struct {
	docstore.Store
}

var errStoreDown = errors.New("store unavailable")

func (failingStore) Get(context.Context, string) (docstore.Document, error) { return nil, errStoreDown }
func (failingStore) Fetch(context.Context, docstore.Query) ([]docstore.Document, error) {
	return nil, errStoreDown
}
func (failingStore) Transaction(context.Context, ...docstore.Op) error { return errStoreDown }
