package service

import (
	"context"
	"fmt"
	"time"

	"assessments/internal/db"
	"assessments/internal/logger"
	"assessments/internal/repository"
	"assessments/internal/utils"
	"github.com/robfig/cron/v3"
)

// DigestSender is the slice of the notifier the daily digest needs.
type DigestSender interface {
	DailyDigest(ctx context.Context, day string, bookings []db.Booking) error
}

type JobService struct {
	Repo   *repository.JobRepository
	digest DigestSender
	hours  utils.BusinessHours
	log    *logger.Logger
	now    func() time.Time
}

func NewJobService(repo *repository.JobRepository, digest DigestSender, hours utils.BusinessHours, log *logger.Logger) *JobService {
	return &JobService{Repo: repo, digest: digest, hours: hours, log: log, now: time.Now}
}

// RepairSessionLocks recreates missing session locks for bookings from the
// last day through the end of the booking window. It returns how many locks
// were written.
func (s *JobService) RepairSessionLocks(ctx context.Context) (int, error) {
	s.log.Info("Cron Job: Checking for bookings without a session lock...")

	now := s.now()
	from := now.Add(-24 * time.Hour)
	to := s.hours.StartOfDay(now).AddDate(0, 0, s.hours.LookaheadDays+1)
	bookings, err := s.Repo.ConfirmedBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to list bookings: %w", err)
	}
	missing, err := s.Repo.BookingsWithoutSessionLock(ctx, bookings)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to check session locks: %w", err)
	}
	if len(missing) == 0 {
		s.log.Info("Cron Job: All session locks present.", "checked", len(bookings))
		return 0, nil
	}

	repaired := 0
	for _, b := range missing {
		lock := &db.SessionLock{
			ID:              repository.SessionLockID(b.StripeSessionID),
			StripeSessionID: b.StripeSessionID,
			BookingID:       b.ID,
			CreatedAt:       now.UTC(),
		}
		if err := s.Repo.CreateSessionLock(ctx, lock); err != nil {
			s.log.Error("Cron Job: session lock repair failed", "booking_id", b.ID, "error", err)
			continue
		}
		repaired++
	}
	s.log.Info("Cron Job: Session locks repaired.", "repaired", repaired, "missing", len(missing))
	return repaired, nil
}

// SendDailyDigest emails the operator today's CONFIRMED bookings. Days
// without bookings send nothing.
func (s *JobService) SendDailyDigest(ctx context.Context) (int, error) {
	day := s.hours.StartOfDay(s.now())
	open, closing := s.hours.Window(day)
	bookings, err := s.Repo.ConfirmedBetween(ctx, open, closing)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to list today's bookings: %w", err)
	}
	if len(bookings) == 0 {
		s.log.Info("Cron Job: No bookings today, digest skipped.")
		return 0, nil
	}
	if err := s.digest.DailyDigest(ctx, day.Format("Monday, January 2"), bookings); err != nil {
		return 0, fmt.Errorf("cron job: failed to send digest: %w", err)
	}
	s.log.Info("Cron Job: Digest sent.", "bookings", len(bookings))
	return len(bookings), nil
}

// Schedule registers both jobs on a cron running in the business timezone.
// The caller starts and stops the returned scheduler.
func (s *JobService) Schedule(ctx context.Context, repairSpec, digestSpec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(s.hours.Location))
	if _, err := c.AddFunc(repairSpec, func() {
		if _, err := s.RepairSessionLocks(ctx); err != nil {
			s.log.Error("Session lock repair job failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid repair schedule %q: %w", repairSpec, err)
	}
	if _, err := c.AddFunc(digestSpec, func() {
		if _, err := s.SendDailyDigest(ctx); err != nil {
			s.log.Error("Daily digest job failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", digestSpec, err)
	}
	return c, nil
}
