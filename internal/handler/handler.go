// Package handler holds the HTTP handlers. Every error leaving a handler
// passes through fail, which owns the mapping from domain errors to HTTP
// statuses so no handler invents its own.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-appointment-api/internal/auth"
	"clinic-appointment-api/internal/media"
	"clinic-appointment-api/internal/metrics"
	"clinic-appointment-api/internal/store"
	"clinic-appointment-api/pkg/logging"
)

type Handler struct {
	store    store.Store
	tokens   *auth.TokenService
	uploader media.Uploader
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

func New(s store.Store, tokens *auth.TokenService, uploader media.Uploader, m *metrics.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:    s,
		tokens:   tokens,
		uploader: uploader,
		metrics:  m,
		logger:   logger,
	}
}

type errorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Status: status, Error: msg})
}

// fail maps domain errors to their stable HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrSlotTaken):
		writeError(w, http.StatusConflict, "this time slot has been booked")
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, auth.ErrTokenReused):
		writeError(w, http.StatusUnauthorized, "refresh token reused or superseded")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrPrincipalNotFound):
		writeError(w, http.StatusUnauthorized, "unauthorised request")
	case errors.Is(err, media.ErrUploadFailed):
		writeError(w, http.StatusBadGateway, "media upload failed")
	default:
		h.logger.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
