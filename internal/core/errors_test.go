// internal/core/errors_test.go
package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should return cause")
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	wrapped := WrapError(ErrNoOverlappingDates, errors.New("assets 1, 2"))
	if !errors.Is(wrapped, ErrNoOverlappingDates) {
		t.Error("wrapped error should match its base code")
	}
	if errors.Is(wrapped, ErrWindowTooLong) {
		t.Error("different codes should not match")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("original")
	wrapped := WrapError(ErrSeriesInvalid, cause)
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrSeriesInvalid.Code {
		t.Error("code not preserved")
	}
}

func TestKind(t *testing.T) {
	err := fmt.Errorf("running rolling: %w", WrapError(ErrWindowTooLong, errors.New("window 30, 12 dates")))
	if got := Kind(err); got != "WINDOW_TOO_LONG" {
		t.Errorf("Kind() = %q, want WINDOW_TOO_LONG", got)
	}
	if got := Kind(errors.New("plain")); got != "" {
		t.Errorf("Kind() = %q, want empty", got)
	}
}

func TestIsUnusableInput(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrMissingDependent, true},
		{WrapError(ErrMissingIndependent, errors.New("asset 7")), true},
		{fmt.Errorf("ctx: %w", ErrNoOverlappingDates), true},
		{ErrWindowTooLong, false},
		{ErrInsufficientData, false},
		{errors.New("other"), false},
	}

	for _, tt := range tests {
		if got := IsUnusableInput(tt.err); got != tt.want {
			t.Errorf("IsUnusableInput(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
