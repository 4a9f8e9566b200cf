package api

import (
	"net/http"

	"assessments/internal/logger"
	"assessments/internal/service"
)

type CheckoutHandler struct {
	Service *service.CheckoutService
	log     *logger.Logger
}

func NewCheckoutHandler(svc *service.CheckoutService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{Service: svc, log: log}
}

// CreateAssessmentCheckout handles POST /checkout/assessment.
func (h *CheckoutHandler) CreateAssessmentCheckout(w http.ResponseWriter, r *http.Request) {
	url, err := h.Service.StartAssessmentCheckout(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckoutResponse{OK: true, URL: url})
}

// GetSession handles GET /checkout/session?session_id=.
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.SessionStatus(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{OK: true, Paid: summary.Paid, CustomerEmail: summary.CustomerEmail})
}
