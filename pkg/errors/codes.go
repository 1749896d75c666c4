package errors

// Error codes for categorizing errors.
// They map to HTTP status codes on the server side.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeCancelled indicates the operation was cancelled before it settled.
	CodeCancelled = "CANCELLED"

	// CodeInvalidArgument indicates the caller passed an invalid argument.
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound = "NOT_FOUND"

	// CodeInternal indicates internal errors.
	CodeInternal = "INTERNAL"

	// CodeValidation indicates input validation failed.
	CodeValidation = "VALIDATION_ERROR"

	// CodeTimeout indicates an operation timed out.
	CodeTimeout = "TIMEOUT"

	// CodeServiceUnavailable indicates the remote contact service failed.
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	// CodeNetworkError indicates the request never produced a response.
	CodeNetworkError = "NETWORK_ERROR"

	// CodeSerializationError indicates a body could not be encoded or decoded.
	CodeSerializationError = "SERIALIZATION_ERROR"

	// CodeStorageError indicates a store operation failed.
	CodeStorageError = "STORAGE_ERROR"

	// CodeCacheError indicates a cache backend operation failed.
	CodeCacheError = "CACHE_ERROR"

	// CodeConfigError indicates a configuration error.
	CodeConfigError = "CONFIG_ERROR"
)

// ErrorCategory represents a high-level error category.
type ErrorCategory string

const (
	// CategoryClient indicates a client-side error (4xx).
	CategoryClient ErrorCategory = "CLIENT_ERROR"

	// CategoryServer indicates a server-side error (5xx).
	CategoryServer ErrorCategory = "SERVER_ERROR"

	// CategoryNetwork indicates a network-related error.
	CategoryNetwork ErrorCategory = "NETWORK_ERROR"

	// CategoryValidation indicates a validation error.
	CategoryValidation ErrorCategory = "VALIDATION_ERROR"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodeValidation:
		return CategoryValidation

	case CodeInvalidArgument, CodeNotFound:
		return CategoryClient

	case CodeNetworkError, CodeServiceUnavailable, CodeTimeout:
		return CategoryNetwork

	default:
		return CategoryServer
	}
}
