package api

// Error body for JSON endpoints.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// FitErrorResponse keeps the fit form's historical "error" key.
type FitErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type CheckoutResponse struct {
	OK  bool   `json:"ok"`
	URL string `json:"url"`
}

type SessionResponse struct {
	OK            bool   `json:"ok"`
	Paid          bool   `json:"paid"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

type FitResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id,omitempty"`
}

type LoginRequest struct {
	Key string `json:"key"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// AdminBooking is the JSON view of a booking for the admin API.
type AdminBooking struct {
	ID              string `json:"id"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	Notes           string `json:"notes,omitempty"`
	Timezone        string `json:"timezone"`
	StartsAtUTC     string `json:"startsAtUtc"`
	EndsAtUTC       string `json:"endsAtUtc"`
	StripeSessionID string `json:"stripeSessionId"`
	Status          string `json:"status"`
}

type AdminBookingsResponse struct {
	OK       bool           `json:"ok"`
	Bookings []AdminBooking `json:"bookings"`
}
