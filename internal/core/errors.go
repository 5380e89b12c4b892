// internal/core/errors.go
package core

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Unusable input: ids are well formed but cannot be analysed
	ErrMissingDependent   = &Error{Code: "MISSING_DEPENDENT", Message: "missing dependent variable data"}
	ErrMissingIndependent = &Error{Code: "MISSING_INDEPENDENT", Message: "missing independent variable data"}
	ErrNoOverlappingDates = &Error{Code: "NO_OVERLAPPING_DATES", Message: "no overlapping dates, cannot run analysis"}

	// Window errors
	ErrWindowTooLong = &Error{Code: "WINDOW_TOO_LONG", Message: "window length longer than the data"}
	ErrInvalidWindow = &Error{Code: "INVALID_WINDOW", Message: "window length must be positive"}

	// Analysis errors
	ErrInsufficientData = &Error{Code: "INSUFFICIENT_DATA", Message: "insufficient data for analysis"}

	// Series errors
	ErrSeriesNotFound = &Error{Code: "SERIES_NOT_FOUND", Message: "series not found"}
	ErrSeriesInvalid  = &Error{Code: "SERIES_INVALID", Message: "series invalid"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)

// Kind returns the code of the first *Error in err's chain, or "" if none.
func Kind(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsUnusableInput reports whether err rejects the asset ids themselves:
// missing dependent or independent data, or no shared dates.
func IsUnusableInput(err error) bool {
	return errors.Is(err, ErrMissingDependent) ||
		errors.Is(err, ErrMissingIndependent) ||
		errors.Is(err, ErrNoOverlappingDates)
}
