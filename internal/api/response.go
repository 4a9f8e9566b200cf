package api

import (
	"encoding/json"
	"net/http"

	apperrors "assessments/internal/errors"
	"assessments/internal/logger"
	"assessments/internal/middleware"
)

const genericFailure = "Something went wrong. Please try again."

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err onto its status. Transient failures are logged with
// their cause and answered with the public message only.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed",
			"request_id", middleware.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, ErrorResponse{OK: false, Message: apperrors.PublicMessage(err, genericFailure)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return apperrors.ErrValidation("Invalid request body")
	}
	return nil
}
