package repository

import (
	"context"
	"fmt"
	"time"

	"assessments/internal/db"
	"assessments/internal/docstore"
)

type JobRepository struct {
	Store    docstore.Store
	bookings *BookingRepository
}

func NewJobRepository(store docstore.Store) *JobRepository {
	return &JobRepository{Store: store, bookings: NewBookingRepository(store)}
}

// ConfirmedBetween lists CONFIRMED bookings starting in [from, to).
func (r *JobRepository) ConfirmedBetween(ctx context.Context, from, to time.Time) ([]db.Booking, error) {
	return r.bookings.ListConfirmedStartingBetween(ctx, from, to)
}

// BookingsWithoutSessionLock filters bookings down to those whose payment
// session has no lock document.
func (r *JobRepository) BookingsWithoutSessionLock(ctx context.Context, bookings []db.Booking) ([]db.Booking, error) {
	if len(bookings) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, SessionLockID(b.StripeSessionID))
	}
	locks, err := r.Store.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching session locks: %w", err)
	}

	var missing []db.Booking
	for _, b := range bookings {
		if _, ok := locks[SessionLockID(b.StripeSessionID)]; !ok {
			missing = append(missing, b)
		}
	}
	return missing, nil
}

func (r *JobRepository) CreateSessionLock(ctx context.Context, lock *db.SessionLock) error {
	return r.bookings.CreateSessionLock(ctx, lock)
}
