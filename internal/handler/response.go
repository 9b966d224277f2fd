package handler

// RESPONSE HELPERS:
// Every JSON endpoint answers through writeJSON/writeError so errors always
// have the same shape:
//
//	{"error": "not_found", "message": "snapshot not found with id abc123"}
//
// HTML pages use writePageError, which maps errors the same way but answers
// in plain text.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
)

// maxBodyBytes caps request bodies. A 5000-contributor snapshot with daily
// activity stays well under this.
const maxBodyBytes = 16 << 20

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone already; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// classify maps a domain error to an HTTP status and a machine-readable type.
// Anything that is not an *apperror.AppError is a 500 and its text is never
// shown to the client.
func classify(err error) (status int, errorType, message, field string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "internal_error", "An internal error occurred", ""
	}

	status, errorType = http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status, errorType = http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrNotFound):
		status, errorType = http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrUnauthorized):
		status, errorType = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		status, errorType = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrConflict):
		status, errorType = http.StatusConflict, "conflict"
	}
	return status, errorType, appErr.Message, appErr.Field
}

func writeError(w http.ResponseWriter, err error) {
	status, errorType, message, field := classify(err)
	writeJSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: message,
		Field:   field,
	})
}

func writePageError(w http.ResponseWriter, err error) {
	status, _, message, _ := classify(err)
	http.Error(w, message, status)
}

// decodeJSON reads a JSON body into dst. Malformed or oversized bodies come
// back as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ValidationFailed("body", fmt.Sprintf("request body must be %d bytes or less", tooLarge.Limit))
		}
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}

// queryInt returns the integer query parameter name, or def when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed(name, fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}
