// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/dmvault/internal/errors"
)

// retryAfterSeconds is advertised on 503 responses.
const retryAfterSeconds = "1"

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// errorMapping binds a sentinel error to its HTTP representation. An empty
// message means the error text itself is returned to the client.
type errorMapping struct {
	sentinel   error
	statusCode int
	code       string
	message    string
}

// errorMappings is checked in order; the first sentinel found in the error
// chain wins. ErrCorrupted comes first: a corrupted store error also carries
// the crypto cause, which wraps ErrInvalidInput.
var errorMappings = []errorMapping{
	{apperrors.ErrCorrupted, http.StatusInternalServerError, "internal_error", "An internal error occurred"},
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "You don't have permission to access this resource"},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "Storage is temporarily unavailable"},
}

// internalError is used for errors that match no sentinel. Details stay in the logs.
var internalError = errorMapping{
	statusCode: http.StatusInternalServerError,
	code:       "internal_error",
	message:    "An internal error occurred",
}

func mappingFor(err error) errorMapping {
	for _, m := range errorMappings {
		if apperrors.Is(err, m.sentinel) {
			return m
		}
	}
	return internalError
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON
// error response. Client errors are logged at warn level, server errors at
// error level.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	m := mappingFor(err)
	response := ErrorResponse{Error: m.code, Message: m.message}
	if response.Message == "" {
		response.Message = err.Error()
	}

	if logger != nil {
		level := slog.LevelWarn
		if m.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(context.Background(), level, "request failed",
			slog.Int("status_code", m.statusCode),
			slog.String("error_code", m.code),
			slog.Any("error", err),
		)
	}

	if m.statusCode == http.StatusServiceUnavailable {
		c.Header("Retry-After", retryAfterSeconds)
	}

	c.JSON(m.statusCode, response)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors using Gin.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
