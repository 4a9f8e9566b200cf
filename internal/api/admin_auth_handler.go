package api

import (
	"net/http"

	"assessments/internal/logger"
	"assessments/internal/service"
)

type AdminAuthHandler struct {
	service service.AdminAuthService
	log     *logger.Logger
}

func NewAdminAuthHandler(svc service.AdminAuthService, log *logger.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc, log: log}
}

// Login handles POST /admin/login.
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	token, err := h.service.Login(req.Key)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}
