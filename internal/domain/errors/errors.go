package errors

import (
	"errors"
	"fmt"
)

var (
	// Checkout errors
	ErrCartUnavailable    = errors.New("cart service unavailable")
	ErrCartNotFound       = errors.New("cart not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPaymentUnavailable = errors.New("payment service unavailable")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this user")

	// Order errors
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderPersistFailed     = errors.New("order persistence failed after payment decision")
	ErrInvalidStateTransition = errors.New("invalid order state transition")

	// Shipping errors
	ErrInvalidPostalCode = errors.New("invalid postal code")
	ErrNoShippingOptions = errors.New("no shipping options for this postal code")

	// Gateway errors
	ErrGatewayTimeout     = errors.New("gateway request timeout")
	ErrGatewayUnavailable = errors.New("gateway unavailable")

	// Idempotency errors
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// Lock errors
	ErrLockAcquisitionFailed = errors.New("failed to acquire lock")
	ErrLockNotHeld           = errors.New("lock not held")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
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
