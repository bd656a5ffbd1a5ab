package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures surfaced by the restaurant lookup stack
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates invalid caller input
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeUnauthorized indicates the upstream rejected our credentials
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates the transport could not complete the call
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeUpstreamStatus indicates the upstream answered with a non-2xx status
	ErrorTypeUpstreamStatus ErrorType = "UPSTREAM_STATUS"

	// ErrorTypeDecoding indicates the upstream body did not match the expected shape
	ErrorTypeDecoding ErrorType = "DECODING"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether any AppError in err's chain has the given type.
func IsType(err error, t ErrorType) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Type == t {
			return true
		}
		err = appErr.Err
	}
	return false
}

// TypeOf returns the type of the outermost AppError in err's chain, or "" if there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// NewExternalError creates a new transport error
func NewExternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, Err: err}
}

// NewUpstreamStatusError creates an error for a non-2xx upstream answer
func NewUpstreamStatusError(statusCode int) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstreamStatus,
		Message: fmt.Sprintf("upstream returned status %d", statusCode),
	}
}

// NewDecodingError creates a new decoding error
func NewDecodingError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeDecoding, Message: message, Err: err}
}
