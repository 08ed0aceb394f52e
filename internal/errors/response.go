package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrorDetail is the wire shape of a single error
type ErrorDetail struct {
	Message       string                 `json:"message"`
	InternalError string                 `json:"internal_error,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope returned by the API
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the wire representation of an error. The hint, when
// present, is the user facing message; the raw error text is kept in
// internal_error for operators.
func NewErrorResponse(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	detail := ErrorDetail{
		Message: err.Error(),
		Details: ReportableDetails(err),
	}
	if hint := Hint(err); hint != "" {
		detail.Message = hint
		detail.InternalError = err.Error()
	}

	return &ErrorResponse{
		Success: false,
		Error:   detail,
	}
}

// HTTPStatusFromErr maps the error taxonomy onto HTTP status codes
func HTTPStatusFromErr(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidOperation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
