package api

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"assessments/internal/db"
	apperrors "assessments/internal/errors"
	"assessments/internal/logger"
	"assessments/internal/service"
	"assessments/internal/utils"
	"github.com/gorilla/mux"
)

//go:embed templates/*.html
var pageFS embed.FS

var pages = template.Must(template.ParseFS(pageFS, "templates/*.html"))

type bookingRow struct {
	BookingID     string
	CustomerName  string
	CustomerEmail string
	Notes         string
	DisplayStart  string
	DisplayEnd    string
	ZoneAbbrev    string
}

type bookingsPage struct {
	Key      string
	Bookings []bookingRow
}

type AdminHandler struct {
	Service  *service.AdminService
	location *time.Location
	log      *logger.Logger
	now      func() time.Time
}

func NewAdminHandler(svc *service.AdminService, location *time.Location, log *logger.Logger) *AdminHandler {
	return &AdminHandler{Service: svc, location: location, log: log, now: time.Now}
}

// BookingsPage handles GET /admin/bookings?key=.
func (h *AdminHandler) BookingsPage(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	bookings, err := h.Service.ListUpcoming(r.Context(), key, h.now())
	if err != nil {
		if apperrors.StatusCode(err) == http.StatusUnauthorized {
			h.render(w, http.StatusUnauthorized, "unauthorized.html", nil)
			return
		}
		h.log.Error("Failed to load admin bookings", "error", err)
		http.Error(w, "Could not load bookings", http.StatusInternalServerError)
		return
	}

	page := bookingsPage{Key: key, Bookings: make([]bookingRow, 0, len(bookings))}
	for _, b := range bookings {
		page.Bookings = append(page.Bookings, h.row(b))
	}
	h.render(w, http.StatusOK, "admin_bookings.html", page)
}

// CancelBookingForm handles the list page's POST /admin/cancel-booking form.
func (h *AdminHandler) CancelBookingForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, h.log, apperrors.ErrValidation("Invalid form"))
		return
	}
	key := r.PostFormValue("key")
	if err := h.Service.Cancel(r.Context(), key, r.PostFormValue("bookingId")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	http.Redirect(w, r, "/admin/bookings?key="+url.QueryEscape(key), http.StatusSeeOther)
}

// ListBookings handles GET /api/admin/bookings for token holders.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Service.ListUpcomingAuthorized(r.Context(), h.now())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	resp := AdminBookingsResponse{OK: true, Bookings: make([]AdminBooking, 0, len(bookings))}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, AdminBooking{
			ID:              b.ID,
			CustomerName:    b.CustomerName,
			CustomerEmail:   b.CustomerEmail,
			Notes:           b.Notes,
			Timezone:        b.Timezone,
			StartsAtUTC:     utils.FormatUTC(b.StartsAt),
			EndsAtUTC:       utils.FormatUTC(b.EndsAt),
			StripeSessionID: b.StripeSessionID,
			Status:          b.Status,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// CancelBooking handles POST /api/admin/bookings/{id}/cancel for token holders.
func (h *AdminHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.CancelAuthorized(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

func (h *AdminHandler) row(b db.Booking) bookingRow {
	start := b.StartsAt.In(h.location)
	return bookingRow{
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Notes:         b.Notes,
		DisplayStart:  start.Format("Mon, Jan 2 at 3:04 PM"),
		DisplayEnd:    b.EndsAt.In(h.location).Format("3:04 PM"),
		ZoneAbbrev:    start.Format("MST"),
	}
}

func (h *AdminHandler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("Failed to render page", "template", name, "error", err)
	}
}
