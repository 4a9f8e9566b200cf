package api

import (
	"net/http"

	"assessments/internal/auth"
	"github.com/gorilla/mux"
)

type Handlers struct {
	User      *UserBookingHandler
	Checkout  *CheckoutHandler
	Fit       *FitHandler
	Admin     *AdminHandler
	AdminAuth *AdminAuthHandler
	Tokens    auth.TokenValidator
}

// NewRouter wires every route. Middlewares run outermost first.
func NewRouter(h Handlers, middlewares ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public endpoints
	r.HandleFunc("/availability", h.User.GetAvailability).Methods(http.MethodGet)
	r.HandleFunc("/bookings", h.User.CreateBooking).Methods(http.MethodPost)
	r.HandleFunc("/checkout/assessment", h.Checkout.CreateAssessmentCheckout).Methods(http.MethodPost)
	r.HandleFunc("/checkout/session", h.Checkout.GetSession).Methods(http.MethodGet)
	r.HandleFunc("/fit", h.Fit.SubmitFit).Methods(http.MethodPost)
	r.HandleFunc("/fit/assessment", h.Fit.RequestAssessment).Methods(http.MethodPost)

	// Shared-key admin view
	r.HandleFunc("/admin/bookings", h.Admin.BookingsPage).Methods(http.MethodGet)
	r.HandleFunc("/admin/cancel-booking", h.Admin.CancelBookingForm).Methods(http.MethodPost)
	r.HandleFunc("/admin/login", h.AdminAuth.Login).Methods(http.MethodPost)

	// Admin API (bearer token)
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(h.Tokens))
	admin.HandleFunc("/bookings", h.Admin.ListBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id}/cancel", h.Admin.CancelBooking).Methods(http.MethodPost)

	return r
}
