package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeCache      ErrorType = "cache"
	// ErrorTypeFatal marks contract violations (e.g. a 2xx response whose body
	// is not JSON). They end the whole run, never just the current call.
	ErrorTypeFatal    ErrorType = "fatal"
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(t ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, message, cause)
}

// NewConfigError creates a new configuration error
func NewConfigError(message string, cause error) *AppError {
	return newError(ErrorTypeConfig, message, cause)
}

// NewAuthError creates a new authentication error
func NewAuthError(message string, cause error) *AppError {
	return newError(ErrorTypeAuth, message, cause)
}

// NewCacheError creates a new cache-related error
func NewCacheError(message string, cause error) *AppError {
	return newError(ErrorTypeCache, message, cause)
}

// NewFatalError creates an error that terminates the run
func NewFatalError(message string, cause error) *AppError {
	return newError(ErrorTypeFatal, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newError(ErrorTypeInternal, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	e.Context[key] = value
	return e
}

// IsType checks if the error, or any error it wraps, is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}
