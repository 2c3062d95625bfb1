package serrors

import (
	"errors"
	"fmt"
)

// Error is a stable, coded error crossing component boundaries. Code is
// machine-readable and safe to surface to callers; Hint is optional
// operator guidance.
type Error struct {
	Code    string
	Message string
	Hint    string
}

func NewError(code, message, hint string) *Error {
	return &Error{Code: code, Message: message, Hint: hint}
}

func (e *Error) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Hint)
}

// Is matches by code so wrapped copies of the same coded error compare equal.
func (e *Error) Is(target error) bool {
	var se *Error
	if !errors.As(target, &se) {
		return false
	}
	return e.Code == se.Code
}

// WithMessage returns a copy with a more specific message, same code.
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Code: e.Code, Message: fmt.Sprintf(format, args...), Hint: e.Hint}
}

// CodeOf extracts the error code from err, empty if err carries none.
func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
