package service

import (
	"context"
	"strings"
	"time"

	"assessments/internal/entities"
	apperrors "assessments/internal/errors"
	"assessments/internal/repository"
	"assessments/internal/utils"
)

type AvailabilityService struct {
	Repo  *repository.BookingRepository
	hours utils.BusinessHours
}

func NewAvailabilityService(repo *repository.BookingRepository, hours utils.BusinessHours) *AvailabilityService {
	return &AvailabilityService{Repo: repo, hours: hours}
}

// Slots lists the bookable slots of a calendar date (YYYY-MM-DD in the
// business timezone). Dates outside the bookable range give an empty list,
// not an error.
func (s *AvailabilityService) Slots(ctx context.Context, date string, now time.Time) ([]entities.Slot, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, apperrors.ErrValidation("Missing date")
	}
	day, err := s.hours.ParseDate(date)
	if err != nil {
		return nil, apperrors.ErrValidation("Invalid date")
	}

	slots := []entities.Slot{}
	if !s.hours.InRange(day, now) {
		return slots, nil
	}

	open, closing := s.hours.Window(day)
	booked, err := s.Repo.ListConfirmedStartingBetween(ctx, open, closing)
	if err != nil {
		return nil, apperrors.ErrTransient("Could not load availability.", err)
	}
	blocked := make([]utils.Interval, 0, len(booked))
	for _, b := range booked {
		blocked = append(blocked, utils.Interval{Start: b.StartsAt, End: b.EndsAt}.Expand(s.hours.Buffer))
	}

	cutoff := s.hours.LeadCutoff(now)
	for _, cand := range s.hours.Candidates(day) {
		if cand.Start.Before(cutoff) || overlapsAny(cand, blocked) {
			continue
		}
		slots = append(slots, entities.Slot{
			StartISO: utils.FormatUTC(cand.Start),
			EndISO:   utils.FormatUTC(cand.End),
		})
	}
	return slots, nil
}

func overlapsAny(iv utils.Interval, blocked []utils.Interval) bool {
	for _, b := range blocked {
		if iv.Overlaps(b) {
			return true
		}
	}
	return false
}
