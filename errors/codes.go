package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (retryable)
const (
	// ErrCodeCacheUnavailable indicates the cache backend could not be reached.
	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// ErrCodeDiscoveryUnavailable indicates the discovery backend could not be queried.
	ErrCodeDiscoveryUnavailable ErrorCode = "DISCOVERY_UNAVAILABLE"
	// ErrCodeServiceUnavailable indicates a dependency is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Request errors
const (
	// ErrCodeNotFound indicates no address could be resolved.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnauthorized indicates a missing or invalid bearer token.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates a valid token that lacks a required scope.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
)

// ErrCodeInternal indicates an unexpected internal failure.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeCacheUnavailable:     true,
	ErrCodeDiscoveryUnavailable: true,
	ErrCodeServiceUnavailable:   true,
	ErrCodeTimeout:              true,
	ErrCodeInternal:             false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
