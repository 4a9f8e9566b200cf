package service

import (
	"context"
	"strings"
	"time"

	"assessments/internal/db"
	"assessments/internal/entities"
	apperrors "assessments/internal/errors"
	"assessments/internal/logger"
	"assessments/internal/repository"
	"assessments/internal/utils"
)

const (
	msgBookingFailed = "Booking failed. Try again."
	msgSlotTaken     = "That time was just booked. Please pick another slot."
)

// ReservationService turns a paid checkout session into a confirmed booking.
// The booking ID is derived from the slot start, so the store's
// create-if-absent is the only lock two competing sessions share.
type ReservationService struct {
	Repo      *repository.BookingRepository
	payments  PaymentGateway
	notifier  BookingNotifier
	validator *RequestValidator
	hours     utils.BusinessHours
	log       *logger.Logger
	now       func() time.Time
}

func NewReservationService(repo *repository.BookingRepository, payments PaymentGateway, notifier BookingNotifier, hours utils.BusinessHours, log *logger.Logger) *ReservationService {
	return &ReservationService{
		Repo:      repo,
		payments:  payments,
		notifier:  notifier,
		validator: NewRequestValidator(),
		hours:     hours,
		log:       log,
		now:       time.Now,
	}
}

// Book reserves the requested slot for a paid session and returns the booking ID.
// Replaying a request with the same session returns the same ID.
func (s *ReservationService) Book(ctx context.Context, req entities.BookingRequest) (string, error) {
	req = normalizeBookingRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return "", err
	}
	start, err := s.hours.ParseLocal(req.StartISO)
	if err != nil {
		return "", apperrors.ErrValidation("Invalid start time")
	}
	if req.Timezone == "" {
		req.Timezone = s.hours.Location.String()
	}

	sess, err := s.payments.GetSession(ctx, req.SessionID)
	if err != nil {
		s.log.Error("Failed to retrieve checkout session", "session_id", req.SessionID, "error", err)
		return "", apperrors.ErrTransient("Could not verify payment. Try again.", err)
	}
	if !sess.Paid() {
		return "", apperrors.ErrPaymentNotConfirmed("Payment not confirmed.")
	}

	start = start.UTC()
	bookingID := repository.BookingID(start)
	lockID := repository.SessionLockID(req.SessionID)

	prior, err := s.priorBooking(ctx, lockID, req.SessionID)
	if err != nil {
		return "", err
	}
	if prior != "" {
		s.log.Info("Session already booked", "session_id", req.SessionID, "booking_id", prior)
		return prior, nil
	}

	now := s.now().UTC()
	booking := &db.Booking{
		ID:              bookingID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Notes:           req.Notes,
		Timezone:        req.Timezone,
		StartsAt:        start,
		EndsAt:          start.Add(s.hours.SlotLength),
		StripeSessionID: req.SessionID,
		Status:          db.StatusConfirmed,
		CreatedAt:       now,
	}
	newLock := &db.SessionLock{
		ID:              lockID,
		StripeSessionID: req.SessionID,
		BookingID:       bookingID,
		CreatedAt:       now,
	}

	// The outcome is decided by reading the booking back, not by this error.
	if err := s.Repo.ReserveSlot(ctx, booking, newLock); err != nil {
		s.log.Warn("Reservation transaction failed", "booking_id", bookingID, "session_id", req.SessionID, "error", err)
	}

	confirmed, err := s.reconcile(ctx, bookingID, req.SessionID)
	if err != nil {
		return "", err
	}

	s.claimSessionLock(ctx, newLock)
	s.notifier.BookingConfirmed(ctx, *confirmed)

	s.log.Info("Booking confirmed", "booking_id", bookingID, "session_id", req.SessionID, "starts_at", utils.FormatUTC(start))
	return bookingID, nil
}

// priorBooking returns the booking this session already holds, or "".
// A race loser's lock points at a booking owned by someone else; in that case
// (and when no lock exists) the session's own booking is looked up directly
// and the lock is claimed for it.
func (s *ReservationService) priorBooking(ctx context.Context, lockID, sessionID string) (string, error) {
	lock, err := s.Repo.GetSessionLock(ctx, lockID)
	if err != nil {
		return "", apperrors.ErrTransient(msgBookingFailed, err)
	}
	if lock != nil && lock.BookingID != "" {
		held, err := s.Repo.GetBooking(ctx, lock.BookingID)
		if err != nil {
			return "", apperrors.ErrTransient(msgBookingFailed, err)
		}
		if held != nil && held.StripeSessionID == sessionID {
			return held.ID, nil
		}
		s.log.Warn("Session lock points at another session's booking", "lock_id", lockID, "booking_id", lock.BookingID)
	}

	own, err := s.Repo.FindSessionBooking(ctx, sessionID)
	if err != nil {
		return "", apperrors.ErrTransient(msgBookingFailed, err)
	}
	if own == nil {
		return "", nil
	}
	s.claimSessionLock(ctx, &db.SessionLock{
		ID:              lockID,
		StripeSessionID: sessionID,
		BookingID:       own.ID,
		CreatedAt:       s.now().UTC(),
	})
	return own.ID, nil
}

// reconcile reads the booking back and decides who owns the slot.
func (s *ReservationService) reconcile(ctx context.Context, bookingID, sessionID string) (*db.Booking, error) {
	stored, err := s.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, apperrors.ErrTransient(msgBookingFailed, err)
	}
	if stored == nil {
		s.log.Error("Booking missing after reservation attempt", "booking_id", bookingID, "session_id", sessionID)
		return nil, apperrors.ErrTransient(msgBookingFailed, nil)
	}
	if stored.StripeSessionID != sessionID {
		s.log.Info("Slot held by another session", "booking_id", bookingID, "session_id", sessionID)
		return nil, apperrors.ErrSlotConflict(msgSlotTaken)
	}
	return stored, nil
}

// claimSessionLock makes the session lock resolve to lock.BookingID. A
// missing lock is created; a lock pointing at a booking of another session
// is re-pointed. A lock already resolving to this session is left alone.
func (s *ReservationService) claimSessionLock(ctx context.Context, lock *db.SessionLock) {
	existing, err := s.Repo.GetSessionLock(ctx, lock.ID)
	if err != nil {
		s.log.Warn("Could not check session lock", "lock_id", lock.ID, "error", err)
		return
	}
	if existing == nil {
		if err := s.Repo.CreateSessionLock(ctx, lock); err != nil {
			s.log.Error("Session lock repair failed", "lock_id", lock.ID, "booking_id", lock.BookingID, "error", err)
			return
		}
		s.log.Info("Session lock repaired", "lock_id", lock.ID, "booking_id", lock.BookingID)
		return
	}
	if existing.BookingID == lock.BookingID {
		return
	}
	if existing.BookingID != "" {
		held, err := s.Repo.GetBooking(ctx, existing.BookingID)
		if err != nil {
			s.log.Warn("Could not check session lock target", "lock_id", lock.ID, "error", err)
			return
		}
		if held != nil && held.StripeSessionID == lock.StripeSessionID {
			return
		}
	}
	if err := s.Repo.PointSessionLock(ctx, lock.ID, lock.BookingID); err != nil {
		s.log.Error("Session lock re-point failed", "lock_id", lock.ID, "booking_id", lock.BookingID, "error", err)
		return
	}
	s.log.Info("Session lock re-pointed", "lock_id", lock.ID, "from", existing.BookingID, "booking_id", lock.BookingID)
}

func normalizeBookingRequest(req entities.BookingRequest) entities.BookingRequest {
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.Notes = strings.TrimSpace(req.Notes)
	req.StartISO = strings.TrimSpace(req.StartISO)
	req.Timezone = strings.TrimSpace(req.Timezone)
	return req
}
