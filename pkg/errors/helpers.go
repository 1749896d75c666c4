package errors

import (
	"context"
	"errors"
)

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) || errors.Is(err, ErrNotFound) {
		return true
	}
	return GetErrorCode(err) == CodeNotFound
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsServiceError checks if the remote service answered with a non-success status.
func IsServiceError(err error) bool {
	if err == nil {
		return false
	}

	var serviceErr *ServiceError
	return errors.As(err, &serviceErr)
}

// IsNetwork checks if an error is a transport failure.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}

	var networkErr *NetworkError
	return errors.As(err, &networkErr)
}

// IsCancelled checks if an error indicates a cancelled or superseded operation.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Code()
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidArgument
	case IsCancelled(err):
		return CodeCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, ErrServiceUnavailable):
		return CodeServiceUnavailable
	default:
		return CodeInternal
	}
}

// StackTrace returns the stack captured by the outermost error in the chain
// that carries one, or "" when none does.
func StackTrace(err error) string {
	var traced interface{ StackTrace() string }
	if errors.As(err, &traced) {
		return traced.StackTrace()
	}
	return ""
}
