package errors

import (
	"github.com/cockroachdb/errors"
)

// Marker errors for the error taxonomy. Errors built through this package
// are tagged with exactly one marker via Mark; callers branch on the marker
// with errors.Is or the Is* helpers below, never on message text.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrVersionConflict  = errors.New("version conflict")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrPermissionDenied = errors.New("permission denied")
	ErrDatabase         = errors.New("database error")
	ErrInternal         = errors.New("internal error")
	ErrSystem           = errors.New("system error")
)

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsVersionConflict checks if an error is an optimistic concurrency conflict
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsDatabase checks if an error is a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}
