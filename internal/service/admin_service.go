package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"assessments/internal/db"
	"assessments/internal/docstore"
	apperrors "assessments/internal/errors"
	"assessments/internal/logger"
	"assessments/internal/repository"
)

type AdminService struct {
	adminRepo   *repository.AdminRepository
	bookingRepo *repository.BookingRepository
	auth        AdminAuthService
	notifier    BookingNotifier
	log         *logger.Logger
}

func NewAdminService(adminRepo *repository.AdminRepository, bookingRepo *repository.BookingRepository, auth AdminAuthService, notifier BookingNotifier, log *logger.Logger) *AdminService {
	return &AdminService{
		adminRepo:   adminRepo,
		bookingRepo: bookingRepo,
		auth:        auth,
		notifier:    notifier,
		log:         log,
	}
}

// ListUpcoming returns upcoming CONFIRMED bookings for a caller holding the admin key.
func (s *AdminService) ListUpcoming(ctx context.Context, key string, now time.Time) ([]db.Booking, error) {
	if err := s.auth.CheckKey(key); err != nil {
		return nil, err
	}
	return s.listUpcoming(ctx, now)
}

// Cancel marks a booking CANCELED for a caller holding the admin key.
func (s *AdminService) Cancel(ctx context.Context, key, bookingID string) error {
	if err := s.auth.CheckKey(key); err != nil {
		s.log.Warn("Rejected admin cancel", "booking_id", bookingID)
		return err
	}
	return s.cancel(ctx, bookingID)
}

// ListUpcomingAuthorized and CancelAuthorized serve callers already
// authenticated by token middleware.
func (s *AdminService) ListUpcomingAuthorized(ctx context.Context, now time.Time) ([]db.Booking, error) {
	return s.listUpcoming(ctx, now)
}

func (s *AdminService) CancelAuthorized(ctx context.Context, bookingID string) error {
	return s.cancel(ctx, bookingID)
}

func (s *AdminService) listUpcoming(ctx context.Context, now time.Time) ([]db.Booking, error) {
	bookings, err := s.adminRepo.ListUpcoming(ctx, now)
	if err != nil {
		return nil, apperrors.ErrTransient("Could not load bookings.", err)
	}
	return bookings, nil
}

// cancel is idempotent: canceling a canceled booking succeeds and notifies
// nobody a second time.
func (s *AdminService) cancel(ctx context.Context, bookingID string) error {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return apperrors.ErrValidation("Missing bookingId")
	}
	booking, err := s.bookingRepo.GetBooking(ctx, bookingID)
	if err != nil {
		return apperrors.ErrTransient("Could not cancel booking.", err)
	}
	if booking == nil {
		return apperrors.ErrNotFound("Booking not found")
	}

	if err := s.bookingRepo.SetStatus(ctx, bookingID, db.StatusCanceled); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperrors.ErrNotFound("Booking not found")
		}
		return apperrors.ErrTransient("Could not cancel booking.", err)
	}
	s.log.Info("Booking canceled", "booking_id", bookingID, "previous_status", booking.Status)

	if booking.Confirmed() {
		booking.Status = db.StatusCanceled
		s.notifier.BookingCanceled(ctx, *booking)
	}
	return nil
}
