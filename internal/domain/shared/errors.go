package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so errors.Is matches
// sentinels against errors built with NewDomainError.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// validationCodes lists codes that classify as input validation failures
var validationCodes = map[string]bool{
	"INVALID_INPUT":          true,
	"INVALID_CUSTOMER":       true,
	"INVALID_ITEMS":          true,
	"INVALID_QUANTITY":       true,
	"INVALID_RATE":           true,
	"INVALID_DISCOUNT":       true,
	"INVALID_PAYMENT_MODE":   true,
	"INVALID_CREDIT_TERM":    true,
	"INVALID_AMOUNT_PAID":    true,
	"INVALID_PAYMENT_AMOUNT": true,
	"INVALID_REASON":         true,
	"INVALID_SETTINGS":       true,
	"INVALID_FILE":           true,
	"INVALID_CATEGORY":       true,
	"ITEM_INACTIVE":          true,
}

// IsValidationError reports whether err is a domain error caused by bad input
func IsValidationError(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return validationCodes[de.Code]
}

// ErrorCode extracts the domain error code from err, or "" if err is not a DomainError
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
