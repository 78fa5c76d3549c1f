package shared

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

// Error codes shared across the financial engine. Constructors and use-case
// guards use the same codes so callers do not need to distinguish "invalid on
// create" from "invalid on update".
const (
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeInvalidValue         = "INVALID_VALUE"
	CodeTransitionNotAllowed = "TRANSITION_NOT_ALLOWED"
	CodeAlreadyFinalized     = "ALREADY_FINALIZED"
	CodeConcurrencyConflict  = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidValue        = NewDomainError(CodeInvalidValue, "Invalid value provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
)

// NewInvalidValueError creates an INVALID_VALUE error with a specific message
func NewInvalidValueError(message string) *DomainError {
	return NewDomainError(CodeInvalidValue, message)
}

// NewAlreadyFinalizedError creates an ALREADY_FINALIZED error with a specific message
func NewAlreadyFinalizedError(message string) *DomainError {
	return NewDomainError(CodeAlreadyFinalized, message)
}
