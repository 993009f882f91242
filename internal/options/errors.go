package options

import (
	"errors"
	"fmt"
)

// ErrCodeInvalidOptions identifies a descriptor with a malformed shape.
const ErrCodeInvalidOptions = "INVALID_OPTIONS"

// ValidationError reports a descriptor entry of the wrong shape. It is raised
// before any compilation and is never retryable: the caller must fix the
// descriptor.
type ValidationError struct {
	Code string

	// Key is the offending descriptor key ("fields", "filter", ...).
	Key string

	// Got is the Go type found under Key.
	Got string

	Message string

	// Descriptor is the descriptor that failed validation.
	Descriptor Descriptor

	// Err is the underlying decode error, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Got != "" {
		msg += fmt.Sprintf(" (got %s)", e.Got)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError returns true if err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func newValidationError(d Descriptor, key string, got any, message string) *ValidationError {
	return &ValidationError{
		Code:       ErrCodeInvalidOptions,
		Key:        key,
		Got:        fmt.Sprintf("%T", got),
		Message:    message,
		Descriptor: d,
	}
}
