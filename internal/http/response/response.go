package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

// ErrorBody is the JSON error envelope: {timestamp, status, error, message},
// plus a field-to-message map when request validation fails.
type ErrorBody struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorBody{
		Timestamp: time.Now(),
		Status:    statusCode,
		Error:     http.StatusText(statusCode),
		Message:   message,
	})
}

func WriteFieldErrors(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, ErrorBody{
		Timestamp: time.Now(),
		Status:    http.StatusBadRequest,
		Error:     http.StatusText(http.StatusBadRequest),
		Message:   "validation failed",
		Errors:    fields,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func RateLimited(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// DomainError maps a service error onto the wire. Validation failures carry
// their field map; precondition failures (including misses) are 400;
// ownership mismatches 403; anything unclassified is logged and reported as
// 500.
func DomainError(ctx context.Context, w http.ResponseWriter, err error) {
	if fields := domain.FieldErrors(err); fields != nil {
		WriteFieldErrors(w, fields)
		return
	}
	switch domain.KindOf(err) {
	case domain.KindBadRequest:
		BadRequest(w, err.Error())
	case domain.KindUnauthorized:
		Unauthorized(w, err.Error())
	case domain.KindForbidden:
		Forbidden(w, err.Error())
	default:
		logger.ErrorContext(ctx, "Request failed", "error", err)
		InternalError(w, "an unexpected error occurred")
	}
}
