// Package errors defines the typed error taxonomy shared by every
// pipeline stage. Each failure carries a machine-readable type, a
// human-readable message, the underlying cause, and optional context
// such as the offending column names.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a pipeline failure.
type ErrorType string

const (
	ErrTypeLoad              ErrorType = "LOAD"
	ErrTypeColumnNotFound    ErrorType = "COLUMN_NOT_FOUND"
	ErrTypeFilter            ErrorType = "FILTER"
	ErrTypeUnsupportedFormat ErrorType = "UNSUPPORTED_FORMAT"
	ErrTypeWrite             ErrorType = "WRITE"
	ErrTypeConfig            ErrorType = "CONFIG"
	ErrTypeValidation        ErrorType = "VALIDATION"
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
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType carried by err, or the empty string when
// err does not wrap an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// Helper functions for the stage error types

// NewLoadError creates a load-stage error (missing, unreadable, or
// unparsable input)
func NewLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, message, cause)
}

// NewColumnNotFoundError reports every missing column at once.
func NewColumnNotFoundError(missing []string) *AppError {
	err := NewAppError(ErrTypeColumnNotFound, fmt.Sprintf("columns not found: %v", missing), nil)
	return err.WithContext("missing_columns", missing)
}

// NewFilterError creates a filter-expression error
func NewFilterError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFilter, message, cause)
}

// NewUnsupportedFormatError creates an unknown-output-format error
func NewUnsupportedFormatError(format string) *AppError {
	err := NewAppError(ErrTypeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
	return err.WithContext("format", format)
}

// NewWriteError creates an output I/O error
func NewWriteError(message string, cause error) *AppError {
	return NewAppError(ErrTypeWrite, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewValidationError creates an options-validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}
