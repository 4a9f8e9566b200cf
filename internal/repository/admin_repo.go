package repository

import (
	"context"
	"time"

	"assessments/internal/db"
	"assessments/internal/docstore"
	"assessments/internal/utils"
)

const maxAdminBookings = 200

type AdminRepository struct {
	bookings *BookingRepository
}

func NewAdminRepository(store docstore.Store) *AdminRepository {
	return &AdminRepository{bookings: NewBookingRepository(store)}
}

// ListUpcoming returns CONFIRMED bookings starting at or after now, soonest first.
func (r *AdminRepository) ListUpcoming(ctx context.Context, now time.Time) ([]db.Booking, error) {
	return r.bookings.fetchBookings(ctx, docstore.Query{
		Type: db.TypeBooking,
		Filters: []docstore.Filter{
			{Field: "status", Op: docstore.Eq, Value: db.StatusConfirmed},
			{Field: "startsAtUtc", Op: docstore.Gte, Value: utils.FormatUTC(now)},
		},
		OrderBy: "startsAtUtc",
		Limit:   maxAdminBookings,
	})
}
