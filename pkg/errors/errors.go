package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Common sentinel errors for quick checks
var (
	// ErrNotFound is returned when a contact does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when request input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCancelled is returned to readers whose fetch was cancelled or
	// superseded before its response could be applied.
	ErrCancelled = errors.New("cancelled")

	// ErrServiceUnavailable is returned when the remote service cannot be used.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInternal is returned when an internal error occurs.
	ErrInternal = errors.New("internal error")
)

// Error is the base interface for all typed errors in this module.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// captureStack captures the current stack trace.
func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// ValidationError is a field-scoped input error. It blocks a submission
// before any network call is made.
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
			stack:   captureStack(1),
		},
		Field: field,
		Value: value,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	*BaseError
	Resource string
	ID       string
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		BaseError: &BaseError{
			code:    CodeNotFound,
			message: fmt.Sprintf("%s not found", resource),
			stack:   captureStack(1),
		},
		Resource: resource,
		ID:       id,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ServiceError is a non-success HTTP response from the remote contact service.
type ServiceError struct {
	*BaseError
	Service    string
	StatusCode int
	Body       string
}

// NewServiceError creates a new service error. The code follows the status.
func NewServiceError(service string, statusCode int, body string) *ServiceError {
	message := fmt.Sprintf("%s responded with status %d", service, statusCode)
	if body = strings.TrimSpace(body); body != "" {
		message = fmt.Sprintf("%s: %s", message, body)
	}
	return &ServiceError{
		BaseError: &BaseError{
			code:    HTTPStatusToCode(statusCode),
			message: message,
			stack:   captureStack(1),
		},
		Service:    service,
		StatusCode: statusCode,
		Body:       body,
	}
}

// NetworkError is a transport failure: the request produced no response.
type NetworkError struct {
	*BaseError
	Operation string
}

// NewNetworkError creates a new network error.
func NewNetworkError(operation string, cause error) *NetworkError {
	return &NetworkError{
		BaseError: &BaseError{
			code:    CodeNetworkError,
			message: fmt.Sprintf("%s request failed", operation),
			cause:   cause,
			stack:   captureStack(1),
		},
		Operation: operation,
	}
}

// NewSerializationError reports a body that could not be encoded or decoded.
func NewSerializationError(message string, cause error) error {
	return &BaseError{
		code:    CodeSerializationError,
		message: message,
		cause:   cause,
		stack:   captureStack(1),
	}
}

// NewCacheError reports a failed cache backend operation.
func NewCacheError(operation string, cause error) error {
	return &BaseError{
		code:    CodeCacheError,
		message: fmt.Sprintf("cache %s failed", operation),
		cause:   cause,
		stack:   captureStack(1),
	}
}

// NewStorageError reports a failed contact store operation.
func NewStorageError(operation string, cause error) error {
	return &BaseError{
		code:    CodeStorageError,
		message: fmt.Sprintf("store %s failed", operation),
		cause:   cause,
		stack:   captureStack(1),
	}
}

// InternalError represents an internal error.
type InternalError struct {
	*BaseError
	Operation string
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *InternalError {
	if message == "" {
		message = "internal error"
	}
	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
	}
}

// WithOperation sets the operation context.
func (e *InternalError) WithOperation(op string) *InternalError {
	e.Operation = op
	return e
}

// Wrap wraps an error with additional context.
// If the error is already one of our typed errors, the code is preserved.
// Otherwise, it creates an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var typed Error
	if errors.As(err, &typed) {
		return &BaseError{
			code:    typed.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   err,
			stack:   captureStack(1),
		},
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// New creates a new error with a message.
func New(message string) error {
	return &BaseError{
		code:    CodeInternal,
		message: message,
		stack:   captureStack(1),
	}
}

// Newf creates a new error with a formatted message.
func Newf(format string, args ...interface{}) error {
	return New(fmt.Sprintf(format, args...))
}

// Is and As re-export the standard library helpers so callers importing this
// package under the name errors keep them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
