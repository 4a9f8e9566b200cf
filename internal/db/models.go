package db

import "time"

const (
	TypeBooking     = "assessmentBooking"
	TypeSessionLock = "assessmentSession"
	TypeFitRequest  = "fitRequest"

	StatusConfirmed = "CONFIRMED"
	StatusCanceled  = "CANCELED"
)

// Booking is one reserved assessment slot. Its ID is derived from the start
// time, so a second booking for the same start cannot be created.
type Booking struct {
	ID              string
	CustomerName    string
	CustomerEmail   string
	Notes           string
	Timezone        string
	StartsAt        time.Time
	EndsAt          time.Time
	StripeSessionID string
	Status          string
	CreatedAt       time.Time
}

func (b Booking) Confirmed() bool {
	return b.Status == StatusConfirmed
}

// SessionLock binds a payment session to the booking it produced.
type SessionLock struct {
	ID              string
	StripeSessionID string
	BookingID       string
	CreatedAt       time.Time
}

type FitRequest struct {
	ID        string
	Name      string
	Email     string
	Company   string
	Website   string
	Budget    string
	Timeline  string
	Services  []string
	Message   string
	Source    string
	CreatedAt time.Time
}
