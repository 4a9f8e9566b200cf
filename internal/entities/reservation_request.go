package entities

// BookingRequest is what the scheduler posts once checkout has succeeded.
type BookingRequest struct {
	SessionID     string `json:"sessionId" validate:"required" msg:"Missing sessionId"`
	CustomerName  string `json:"customerName" validate:"min=2" msg:"Name required"`
	CustomerEmail string `json:"customerEmail" validate:"emailshape" msg:"Valid email required"`
	Notes         string `json:"notes"`
	StartISO      string `json:"startIso" validate:"required" msg:"Missing start time"`
	Timezone      string `json:"timezone"`
}

type BookingResponse struct {
	OK        bool   `json:"ok"`
	BookingID string `json:"bookingId,omitempty"`
	Message   string `json:"message,omitempty"`
}
