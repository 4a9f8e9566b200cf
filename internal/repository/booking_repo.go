package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assessments/internal/db"
	"assessments/internal/docstore"
	"assessments/internal/utils"
)

const (
	bookingIDPrefix     = "booking_"
	sessionLockIDPrefix = "session_"
)

// BookingID derives the booking identity from the absolute start time.
func BookingID(start time.Time) string {
	return bookingIDPrefix + utils.IDSafe(utils.FormatUTC(start))
}

// SessionLockID derives the lock identity from the payment session.
func SessionLockID(sessionID string) string {
	return sessionLockIDPrefix + sessionID
}

type BookingRepository struct {
	Store docstore.Store
}

func NewBookingRepository(store docstore.Store) *BookingRepository {
	return &BookingRepository{Store: store}
}

// GetBooking returns nil, nil when the booking does not exist.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (*db.Booking, error) {
	doc, err := r.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return bookingFromDoc(doc)
}

// GetSessionLock returns nil, nil when the lock does not exist.
func (r *BookingRepository) GetSessionLock(ctx context.Context, id string) (*db.SessionLock, error) {
	doc, err := r.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching session lock %s: %w", id, err)
	}
	return sessionLockFromDoc(doc), nil
}

// ReserveSlot creates the booking and its session lock in one transaction.
// Either document may already exist, in which case that half is a no-op.
func (r *BookingRepository) ReserveSlot(ctx context.Context, booking *db.Booking, lock *db.SessionLock) error {
	return r.Store.Transaction(ctx,
		docstore.CreateIfNotExists(bookingToDoc(booking)),
		docstore.CreateIfNotExists(sessionLockToDoc(lock)),
	)
}

func (r *BookingRepository) CreateSessionLock(ctx context.Context, lock *db.SessionLock) error {
	return r.Store.CreateIfNotExists(ctx, sessionLockToDoc(lock))
}

// FindSessionBooking returns the earliest booking created for a payment
// session, or nil, nil when the session holds none.
func (r *BookingRepository) FindSessionBooking(ctx context.Context, sessionID string) (*db.Booking, error) {
	bookings, err := r.fetchBookings(ctx, docstore.Query{
		Type:    db.TypeBooking,
		Filters: []docstore.Filter{{Field: "stripeSessionId", Op: docstore.Eq, Value: sessionID}},
		OrderBy: "createdAtUtc",
		Limit:   1,
	})
	if err != nil || len(bookings) == 0 {
		return nil, err
	}
	return &bookings[0], nil
}

// PointSessionLock re-targets an existing lock at bookingID.
func (r *BookingRepository) PointSessionLock(ctx context.Context, lockID, bookingID string) error {
	return r.Store.Patch(ctx, lockID, map[string]any{"bookingId": bookingID})
}

// ListConfirmedStartingBetween returns CONFIRMED bookings whose start lies in [from, to).
func (r *BookingRepository) ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]db.Booking, error) {
	return r.fetchBookings(ctx, docstore.Query{
		Type: db.TypeBooking,
		Filters: []docstore.Filter{
			{Field: "status", Op: docstore.Eq, Value: db.StatusConfirmed},
			{Field: "startsAtUtc", Op: docstore.Gte, Value: utils.FormatUTC(from)},
			{Field: "startsAtUtc", Op: docstore.Lt, Value: utils.FormatUTC(to)},
		},
		OrderBy: "startsAtUtc",
	})
}

// SetStatus patches the booking status. Returns docstore.ErrNotFound for unknown IDs.
func (r *BookingRepository) SetStatus(ctx context.Context, id, status string) error {
	return r.Store.Patch(ctx, id, map[string]any{"status": status})
}

func (r *BookingRepository) fetchBookings(ctx context.Context, q docstore.Query) ([]db.Booking, error) {
	docs, err := r.Store.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	bookings := make([]db.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := bookingFromDoc(doc)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

func bookingToDoc(b *db.Booking) docstore.Document {
	doc := docstore.Document{
		docstore.FieldID:   b.ID,
		docstore.FieldType: db.TypeBooking,
		"customerName":     b.CustomerName,
		"customerEmail":    b.CustomerEmail,
		"timezone":         b.Timezone,
		"startsAtUtc":      utils.FormatUTC(b.StartsAt),
		"endsAtUtc":        utils.FormatUTC(b.EndsAt),
		"stripeSessionId":  b.StripeSessionID,
		"status":           b.Status,
		"createdAtUtc":     utils.FormatUTC(b.CreatedAt),
	}
	if b.Notes != "" {
		doc["notes"] = b.Notes
	}
	return doc
}

func bookingFromDoc(doc docstore.Document) (*db.Booking, error) {
	starts, err := utils.ParseUTC(doc.String("startsAtUtc"))
	if err != nil {
		return nil, fmt.Errorf("booking %s has invalid startsAtUtc: %w", doc.ID(), err)
	}
	ends, err := utils.ParseUTC(doc.String("endsAtUtc"))
	if err != nil {
		return nil, fmt.Errorf("booking %s has invalid endsAtUtc: %w", doc.ID(), err)
	}
	created, _ := utils.ParseUTC(doc.String("createdAtUtc"))
	return &db.Booking{
		ID:              doc.ID(),
		CustomerName:    doc.String("customerName"),
		CustomerEmail:   doc.String("customerEmail"),
		Notes:           doc.String("notes"),
		Timezone:        doc.String("timezone"),
		StartsAt:        starts,
		EndsAt:          ends,
		StripeSessionID: doc.String("stripeSessionId"),
		Status:          doc.String("status"),
		CreatedAt:       created,
	}, nil
}

func sessionLockToDoc(l *db.SessionLock) docstore.Document {
	return docstore.Document{
		docstore.FieldID:   l.ID,
		docstore.FieldType: db.TypeSessionLock,
		"stripeSessionId":  l.StripeSessionID,
		"bookingId":        l.BookingID,
		"createdAtUtc":     utils.FormatUTC(l.CreatedAt),
	}
}

func sessionLockFromDoc(doc docstore.Document) *db.SessionLock {
	created, _ := utils.ParseUTC(doc.String("createdAtUtc"))
	return &db.SessionLock{
		ID:              doc.ID(),
		StripeSessionID: doc.String("stripeSessionId"),
		BookingID:       doc.String("bookingId"),
		CreatedAt:       created,
	}
}
