package api

import (
	"net/http"

	"assessments/internal/entities"
	apperrors "assessments/internal/errors"
	"assessments/internal/logger"
	"assessments/internal/service"
)

type FitHandler struct {
	Service *service.FitService
	log     *logger.Logger
}

func NewFitHandler(svc *service.FitService, log *logger.Logger) *FitHandler {
	return &FitHandler{Service: svc, log: log}
}

// SubmitFit handles POST /fit. Errors use the form's {ok, error} shape.
func (h *FitHandler) SubmitFit(w http.ResponseWriter, r *http.Request) {
	var p entities.FitPayload
	if err := decodeJSON(w, r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, FitErrorResponse{Error: apperrors.PublicMessage(err, "Invalid request body")})
		return
	}
	id, err := h.Service.SubmitFit(r.Context(), p)
	if err != nil {
		status := apperrors.StatusCode(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("Fit request failed", "error", err)
		}
		writeJSON(w, status, FitErrorResponse{Error: apperrors.PublicMessage(err, "Server error. Please try again.")})
		return
	}
	writeJSON(w, http.StatusOK, FitResponse{OK: true, ID: id})
}

// RequestAssessment handles POST /fit/assessment.
func (h *FitHandler) RequestAssessment(w http.ResponseWriter, r *http.Request) {
	var req entities.AssessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := h.Service.RequestAssessment(r.Context(), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}
