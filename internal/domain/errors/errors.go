package errors

import (
	"errors"
	"fmt"
)

var (
	// Vault errors
	ErrMalformedEnvelope = errors.New("credential envelope is malformed")
	ErrEnvelopeIntegrity = errors.New("credential envelope failed integrity check")
	ErrCredentialDecode  = errors.New("credential blob is not a valid JSON object")

	// Order errors
	ErrOrderNotFound = errors.New("order not found")

	// Lock errors
	ErrLockNotHeld = errors.New("lock not held")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
