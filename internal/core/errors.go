package core

import "errors"

// Error categories. The HTTP layer maps each of them to one status code.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	ErrInvalidAmount = errors.New("invalid amount")
)

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a *ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Failure pairs an error category with a message meant for the caller.
type Failure struct {
	Kind    error
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Kind
}

// Fail builds a *Failure of the given category.
func Fail(kind error, message string) error {
	return &Failure{Kind: kind, Message: message}
}

// PublicMessage returns the caller-facing message carried by err, if any.
func PublicMessage(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Message, true
	}
	return "", false
}
