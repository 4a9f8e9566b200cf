package api

import (
	"net/http"
	"time"

	"assessments/internal/entities"
	"assessments/internal/logger"
	"assessments/internal/service"
)

type UserBookingHandler struct {
	Availability *service.AvailabilityService
	Reservations *service.ReservationService
	log          *logger.Logger
	now          func() time.Time
}

func NewUserBookingHandler(avail *service.AvailabilityService, reservations *service.ReservationService, log *logger.Logger) *UserBookingHandler {
	return &UserBookingHandler{Availability: avail, Reservations: reservations, log: log, now: time.Now}
}

// GetAvailability handles GET /availability?date=YYYY-MM-DD.
func (h *UserBookingHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Availability.Slots(r.Context(), r.URL.Query().Get("date"), h.now())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.AvailabilityResponse{OK: true, Slots: slots})
}

// CreateBooking handles POST /bookings.
func (h *UserBookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	id, err := h.Reservations.Book(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.BookingResponse{OK: true, BookingID: id})
}
