package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"customercare/internal/apperr"
)

type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]any, requestID string) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Error:     &Error{Code: code, Message: message, Details: details},
		RequestID: requestID,
	})
}

// FailError maps the service error taxonomy onto HTTP statuses: validation
// failures are 400 with their details, missing records are 404, everything
// else is 500.
func FailError(w http.ResponseWriter, err error, requestID string) {
	var validation *apperr.ValidationError
	var notFound *apperr.NotFoundError
	var infra *apperr.InfrastructureError

	switch {
	case errors.As(err, &validation):
		FailWithDetails(w, http.StatusBadRequest, "validation_error", validation.Message, validation.Details, requestID)
	case errors.As(err, &notFound):
		Fail(w, http.StatusNotFound, "not_found", notFound.Message, requestID)
	case errors.As(err, &infra):
		Fail(w, http.StatusInternalServerError, "infrastructure_error", infra.Message, requestID)
	default:
		Fail(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred", requestID)
	}
}
