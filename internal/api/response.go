package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// Response represents a standard API response.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// WriteMarkdown writes a text/markdown body.
func WriteMarkdown(w http.ResponseWriter, body string) error {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte(body))
	return err
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message string, code ...string) error {
	errInfo := ErrorInfo{
		Message: message,
	}
	if len(code) > 0 {
		errInfo.Code = code[0]
	}

	return WriteJSON(w, status, Response{
		Success: false,
		Error:   &errInfo,
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, message, "NOT_FOUND")
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message, "BAD_REQUEST")
}

// WriteUnprocessable writes a 422 response for dates and places the
// ephemeris cannot resolve, such as polar day or night.
func WriteUnprocessable(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnprocessableEntity, message, "EPHEMERIS_UNAVAILABLE")
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusUnauthorized, message, "UNAUTHORIZED")
}

// WriteServiceUnavailable writes a 503 response.
func WriteServiceUnavailable(w http.ResponseWriter, message, code string) error {
	return WriteError(w, http.StatusServiceUnavailable, message, code)
}

// writeReportError maps a generation failure to a status code.
func writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, panchang.ErrInvalidInput):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, panchang.ErrEphemeris):
		WriteUnprocessable(w, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		WriteServiceUnavailable(w, "Request canceled before the panchang was calculated", "REQUEST_CANCELED")
	default:
		WriteInternalError(w, "Error calculating panchang")
	}
}
