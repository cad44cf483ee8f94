// Package errors defines the typed domain errors surfaced by the core
// services. Every failed operation returns a *DomainError whose Kind tells
// the invoking layer how to respond; handlers map kinds to HTTP statuses.
package errors

import "fmt"

// Kind classifies a domain error.
type Kind string

const (
	// KindValidation: malformed input rejected before any mutation.
	KindValidation Kind = "VALIDATION"
	// KindNotFound: unknown entity id, no partial effect.
	KindNotFound Kind = "NOT_FOUND"
	// KindStateConflict: transition attempted from an incompatible status.
	KindStateConflict Kind = "STATE_CONFLICT"
	// KindUnauthorized: actor does not own the shop or order.
	KindUnauthorized Kind = "UNAUTHORIZED"
)

type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	// Fields carries per-field messages for validation failures.
	Fields map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is lets errors.Is match two domain errors by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func Validation(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

func StateConflict(code, message string) *DomainError {
	return &DomainError{Kind: KindStateConflict, Code: code, Message: message}
}

func Unauthorized(code, message string) *DomainError {
	return &DomainError{Kind: KindUnauthorized, Code: code, Message: message}
}

// ValidationFields wraps a validator's error map.
func ValidationFields(code string, fields map[string]string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    code,
		Message: "validation failed",
		Fields:  fields,
	}
}

// Validationf is Validation with a formatted message.
func Validationf(code, format string, args ...interface{}) *DomainError {
	return Validation(code, fmt.Sprintf(format, args...))
}
