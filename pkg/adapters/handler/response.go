package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnavailable  = "UNAVAILABLE"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeTooLarge     = "PAYLOAD_TOO_LARGE"
	ErrCodeStore        = "STORE_UNAVAILABLE"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// WriteJSON serializes payload with status and logs encoding failures.
func WriteJSON(log logrus.FieldLogger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && log != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

func writeError(log logrus.FieldLogger, w http.ResponseWriter, status int, code, msg, details string) {
	WriteJSON(log, w, status, ErrorResponse{Error: msg, Code: code, Details: details})
}

var errBodyTooLarge = errors.New("request body too large")

// handleError maps domain errors to HTTP responses.
func handleError(log logrus.FieldLogger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		writeError(log, w, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "Request body too large", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(log, w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid input", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(log, w, http.StatusUnauthorized, ErrCodeUnauthorized, "Sign in required", "")
	case errors.Is(err, domain.ErrForbidden):
		writeError(log, w, http.StatusForbidden, ErrCodeForbidden, "Access denied", err.Error())
	case errors.Is(err, domain.ErrPlaceInactive):
		writeError(log, w, http.StatusNotFound, ErrCodeUnavailable, "This page is currently unavailable", "")
	case errors.Is(err, domain.ErrNotFound):
		writeError(log, w, http.StatusNotFound, ErrCodeNotFound, "Not found", err.Error())
	case errors.Is(err, domain.ErrStore):
		log.WithError(err).WithField("path", r.URL.Path).Error("store unavailable")
		writeError(log, w, http.StatusServiceUnavailable, ErrCodeStore, "Service temporarily unavailable", "")
	default:
		log.WithError(err).WithField("path", r.URL.Path).Error("unexpected error")
		writeError(log, w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", "")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return bodyError(err, "invalid request body")
	}
	return nil
}

// bodyError reports a read past the MaxBytesReader limit as errBodyTooLarge
// and anything else as a validation error.
func bodyError(err error, msg string) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}

const maxBodyBytes = 2 << 20

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
// Only meaningful behind a proxy that sets these headers itself.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
