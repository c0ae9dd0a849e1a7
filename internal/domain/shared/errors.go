package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewInvalidStateError creates the standard error for a transition the state
// machine forbids; it always names both the current and the requested state.
func NewInvalidStateError(aggregate, current, requested string) *DomainError {
	return NewDomainError("INVALID_STATE",
		fmt.Sprintf("%s in %s state cannot transition to %s", aggregate, current, requested))
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrExceedsBalance      = NewDomainError("EXCEEDS_BALANCE", "Amount exceeds the remaining balance")
	ErrExceedsAmount       = NewDomainError("EXCEEDS_AMOUNT", "Amount exceeds the original entry amount")
)
