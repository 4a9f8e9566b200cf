package entities

// Slot is one bookable interval, rendered as UTC ISO-8601 strings.
type Slot struct {
	StartISO string `json:"startIso"`
	EndISO   string `json:"endIso"`
}

type AvailabilityResponse struct {
	OK    bool   `json:"ok"`
	Slots []Slot `json:"slots"`
}
