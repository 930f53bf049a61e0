package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/SscSPs/personal_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// errorStatus maps service errors to HTTP statuses. Order matters: the more
// specific sentinels wrap the general ones.
func errorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperrors.ErrLocked):
		return http.StatusLocked
	case errors.Is(err, apperrors.ErrUnauthenticated),
		errors.Is(err, apperrors.ErrInvalidCredential),
		errors.Is(err, apperrors.ErrWrongPin):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrForeignBackup):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrAlreadyAuthenticated),
		errors.Is(err, apperrors.ErrNotLocked):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidPin),
		errors.Is(err, apperrors.ErrPinMismatch),
		errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and answers with the mapped status. Internal failures
// are reported with a generic message.
func writeError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: "Failed to " + action})
		return
	}
	logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// bindJSON decodes the request body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return false
	}
	return true
}
