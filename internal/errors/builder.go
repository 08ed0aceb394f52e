package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError carries a cause, an operator-facing hint and a set of
// reportable details through the call stack. It is created with NewError,
// NewErrorf or WithError and finished with Mark, which tags it with one of
// the marker errors from errors.go.
type InternalError struct {
	err               error
	hint              string
	reportableDetails map[string]interface{}
}

// NewError creates a new InternalError with the given message
func NewError(message string) *InternalError {
	return &InternalError{
		err: errors.New(message),
	}
}

// NewErrorf creates a new InternalError with a formatted message
func NewErrorf(format string, args ...interface{}) *InternalError {
	return &InternalError{
		err: errors.Newf(format, args...),
	}
}

// WithError wraps an existing error into an InternalError
func WithError(err error) *InternalError {
	return &InternalError{
		err: err,
	}
}

// WithHint attaches a human readable hint surfaced in API responses
func (e *InternalError) WithHint(hint string) *InternalError {
	e.hint = hint
	return e
}

// WithHintf attaches a formatted hint
func (e *InternalError) WithHintf(format string, args ...interface{}) *InternalError {
	e.hint = fmt.Sprintf(format, args...)
	return e
}

// WithReportableDetails attaches structured details surfaced in API responses
func (e *InternalError) WithReportableDetails(details map[string]interface{}) *InternalError {
	e.reportableDetails = details
	return e
}

// Mark tags the error with the given marker and returns it as a plain error.
// Mark is always the last call in the builder chain.
func (e *InternalError) Mark(marker error) error {
	return errors.Mark(e, marker)
}

// Error implements the error interface
func (e *InternalError) Error() string {
	return e.err.Error()
}

// Unwrap exposes the cause for errors.Is / errors.As
func (e *InternalError) Unwrap() error {
	return e.err
}

// Hint returns the hint closest to the surface of the error chain
func Hint(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.hint
	}
	return ""
}

// ReportableDetails returns the reportable details from the error chain
func ReportableDetails(err error) map[string]interface{} {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.reportableDetails
	}
	return nil
}
