package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUpstream          = errors.New("upstream failure")
)

// Validation codes say why a field was rejected. Reason carries the English
// detail; handlers localise on Field and Code.
const (
	CodeRequired    = "required"
	CodeTooShort    = "too_short"
	CodeMalformed   = "malformed"
	CodeUnsupported = "unsupported"
	CodeNegative    = "negative"
)

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Field  string
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a *ValidationError for field.
func Invalid(field, code, reason string) error {
	return &ValidationError{Field: field, Code: code, Reason: reason}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
