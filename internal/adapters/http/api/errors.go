package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/touchline/scoutbase/internal/app"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service sentinel errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err)
	case errors.Is(err, service.ErrAccountDisabled):
		writeError(w, http.StatusForbidden, "account_disabled", err)
	case errors.Is(err, service.ErrFeatureLocked):
		writeError(w, http.StatusPaymentRequired, "feature_locked", err)
	case errors.Is(err, service.ErrQuotaExceeded):
		writeError(w, http.StatusPaymentRequired, "quota_exceeded", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrSessionExpired):
		writeError(w, http.StatusGone, "session_expired", err)
	case errors.Is(err, service.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, "already_completed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", nil)
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close() //nolint:errcheck
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
