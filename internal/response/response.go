package response

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	apperrors "deliverus/internal/errors"
	"deliverus/internal/infrastructure/logger"
)

type ErrorResponse struct {
	TraceID   string                       `json:"traceId,omitempty"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func Message(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, MessageResponse{Message: message})
}

func write(w http.ResponseWriter, r *http.Request, status int, code, message string, details []apperrors.ValidationDetail) {
	JSON(w, r, status, ErrorResponse{
		TraceID:   logger.TraceID(r.Context()),
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	write(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func Forbidden(w http.ResponseWriter, r *http.Request, message string) {
	write(w, r, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	write(w, r, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func TooManyRequests(w http.ResponseWriter, r *http.Request, message string) {
	write(w, r, http.StatusTooManyRequests, "RATE_LIMITED", message, nil)
}

func Validation(w http.ResponseWriter, r *http.Request, ve *apperrors.ValidationError) {
	write(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", ve.Message, ve.Details)
}

// Error maps typed application errors to their status codes. Anything
// untyped is logged and reported as a 500 without leaking the cause.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		Validation(w, r, ve)
		return
	}
	if be, ok := apperrors.IsBadRequestError(err); ok {
		write(w, r, http.StatusBadRequest, "BAD_REQUEST", be.Message, nil)
		return
	}
	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		write(w, r, http.StatusUnauthorized, "UNAUTHORIZED", ue.Message, nil)
		return
	}
	if fe, ok := apperrors.IsForbiddenError(err); ok {
		write(w, r, http.StatusForbidden, "FORBIDDEN", fe.Message, nil)
		return
	}
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		write(w, r, http.StatusNotFound, "NOT_FOUND", nfe.Message, nil)
		return
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		write(w, r, http.StatusConflict, "CONFLICT", ce.Message, nil)
		return
	}

	logger.FromContext(r.Context(), log).Error("unexpected error", zap.Error(err))
	write(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}
