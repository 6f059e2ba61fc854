package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when a request is rejected
// without mutating state: a malformed changeset, a patch that became empty
// after exclusion and no-op elimination, or an entity that vanished before a
// contribution could be accepted.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDependenciesNotMet is returned when a contribution decision is attempted
// on a contribution that has already been accepted or declined.
// Callers should re-fetch the contribution. Handlers map this to HTTP 409.
var ErrDependenciesNotMet = errors.New("dependencies not met")

// ErrConversion is matched by every *ConversionError.
// It signals schema drift between stored history and the live model and is
// never defaulted away.
var ErrConversion = errors.New("conversion error")

// ErrForbidden is returned by the HTTP boundary when the caller's permissions
// do not satisfy an operation's capability check.
var ErrForbidden = errors.New("forbidden")

// ConversionError reports a historical enum value that has no live counterpart.
type ConversionError struct {
	// Enum is the name of the historical type being converted.
	Enum string
	// Value is the offending stored value, formatted for humans.
	Value string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion error: %s has no live variant for %s", e.Enum, e.Value)
}

// Is lets errors.Is(err, ErrConversion) match any ConversionError.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// NewConversionError builds a ConversionError for enum with the given value.
func NewConversionError(enum string, value any) *ConversionError {
	return &ConversionError{Enum: enum, Value: fmt.Sprint(value)}
}
