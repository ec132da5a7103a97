// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/todos/internal/errors"
)

// ErrorResponse represents a structured error response.
// Error is human readable, Code is stable for programmatic handling.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON response using Gin.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errorResponse = ErrorResponse{
			Error: apperrors.Message(err, "Invalid input"),
			Code:  "validation_error",
		}

	case apperrors.Is(err, apperrors.ErrPublish):
		statusCode = http.StatusBadGateway
		errorResponse = ErrorResponse{
			Error: "The event could not be published",
			Code:  "publish_failed",
		}

	case apperrors.Is(err, apperrors.ErrUnavailable):
		statusCode = http.StatusServiceUnavailable
		errorResponse = ErrorResponse{
			Error: "A dependency is unavailable",
			Code:  "unavailable",
		}

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error: "An internal error occurred",
			Code:  "internal_error",
		}
	}

	LogError(c.Request.Context(), logger, statusCode, errorResponse.Code, err)

	c.JSON(statusCode, errorResponse)
}

// LogError logs a failed request. Client errors are logged at warn level.
func LogError(ctx context.Context, logger *slog.Logger, statusCode int, code string, err error) {
	if logger == nil {
		return
	}

	level := slog.LevelError
	if statusCode < http.StatusInternalServerError {
		level = slog.LevelWarn
	}

	logger.Log(ctx, level, "request failed",
		slog.Int("status_code", statusCode),
		slog.String("error_code", code),
		slog.Any("error", err),
	)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error: err.Error(),
		Code:  "bad_request",
	}

	c.JSON(http.StatusBadRequest, errorResponse)
}

// HandleValidationErrorGin writes a 400 Bad Request response for validation errors using Gin.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error: apperrors.Message(err, err.Error()),
		Code:  "validation_error",
	}

	c.JSON(http.StatusBadRequest, errorResponse)
}
