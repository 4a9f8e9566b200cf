package utils

import (
	"fmt"
	"strings"
	"time"
)

// DocTimeLayout is how absolute times are persisted. Fixed width and always
// UTC, so string order matches time order in every store backend.
const DocTimeLayout = "2006-01-02T15:04:05.000Z"

const dateLayout = "2006-01-02"

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two half-open intervals share any instant.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// Expand widens the interval by d on both sides.
func (i Interval) Expand(d time.Duration) Interval {
	return Interval{Start: i.Start.Add(-d), End: i.End.Add(d)}
}

// BusinessHours describes when assessments can be held.
type BusinessHours struct {
	Location      *time.Location
	OpenHour      int
	CloseHour     int
	SlotLength    time.Duration
	Buffer        time.Duration
	LeadTime      time.Duration
	LookaheadDays int
}

func NewBusinessHours(timezone string, openHour, closeHour int, slot, buffer, lead time.Duration, lookaheadDays int) (BusinessHours, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return BusinessHours{}, fmt.Errorf("load business timezone %q: %w", timezone, err)
	}
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return BusinessHours{}, fmt.Errorf("invalid business hours %d-%d", openHour, closeHour)
	}
	if slot <= 0 || buffer < 0 {
		return BusinessHours{}, fmt.Errorf("slot length must be positive and buffer non-negative")
	}
	return BusinessHours{
		Location:      loc,
		OpenHour:      openHour,
		CloseHour:     closeHour,
		SlotLength:    slot,
		Buffer:        buffer,
		LeadTime:      lead,
		LookaheadDays: lookaheadDays,
	}, nil
}

// Step is the distance between consecutive slot starts.
func (b BusinessHours) Step() time.Duration {
	return b.SlotLength + b.Buffer
}

// ParseDate reads a YYYY-MM-DD calendar date as midnight in the business timezone.
func (b BusinessHours) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), b.Location)
}

// StartOfDay returns local midnight of the day containing t.
func (b BusinessHours) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(b.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, b.Location)
}

func (b BusinessHours) IsBusinessDay(day time.Time) bool {
	wd := day.In(b.Location).Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// InRange reports whether day can be offered at all given now: not in the
// past, not beyond the lookahead horizon and not on a weekend.
func (b BusinessHours) InRange(day, now time.Time) bool {
	day = b.StartOfDay(day)
	today := b.StartOfDay(now)
	y, m, d := today.Date()
	horizon := time.Date(y, m, d+b.LookaheadDays, 0, 0, 0, 0, b.Location)
	if day.Before(today) || day.After(horizon) {
		return false
	}
	return b.IsBusinessDay(day)
}

// Window returns the open and close instants for the given day.
func (b BusinessHours) Window(day time.Time) (open, closing time.Time) {
	y, m, d := day.In(b.Location).Date()
	open = time.Date(y, m, d, b.OpenHour, 0, 0, 0, b.Location)
	closing = time.Date(y, m, d, b.CloseHour, 0, 0, 0, b.Location)
	return open, closing
}

// Candidates lists every slot of the day on the open+n*Step grid that ends
// no later than closing time.
func (b BusinessHours) Candidates(day time.Time) []Interval {
	open, closing := b.Window(day)
	var out []Interval
	for cursor := open; !cursor.Add(b.SlotLength).After(closing); cursor = cursor.Add(b.Step()) {
		out = append(out, Interval{Start: cursor, End: cursor.Add(b.SlotLength)})
	}
	return out
}

// LeadCutoff is the earliest start a slot may have when booked at now.
func (b BusinessHours) LeadCutoff(now time.Time) time.Time {
	return now.Add(b.LeadTime)
}

// ParseLocal parses a start time. Values carrying an offset keep it; bare
// wall-clock values are read in the business timezone.
func (b BusinessHours) ParseLocal(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(b.Location), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, b.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// FormatUTC renders t in DocTimeLayout.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(DocTimeLayout)
}

// ParseUTC reads a persisted timestamp.
func ParseUTC(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// IDSafe makes a persisted timestamp usable inside a document identifier.
func IDSafe(s string) string {
	return strings.ReplaceAll(s, ":", "-")
}
