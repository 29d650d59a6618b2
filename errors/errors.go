package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// CacheUnavailable wraps a cache backend failure for the given operation.
func CacheUnavailable(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCacheUnavailable, Message: fmt.Sprintf("cache %s failed", operation),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// DiscoveryUnavailable wraps a discovery backend failure for a lookup.
func DiscoveryUnavailable(namespace, service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDiscoveryUnavailable, Message: fmt.Sprintf("discovery lookup for %s/%s failed", namespace, service),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"namespace": namespace, "service": service}, Cause: cause,
	}
}

// ServiceUnavailable creates an error for a dependency that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates an error for an operation that exceeded its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// NotFound creates an error for a service with no resolvable address.
func NotFound(service string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("no address found for %s", service),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"service": service},
	}
}

// InvalidInput creates an error for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Unauthorized creates an error for a request without valid credentials.
func Unauthorized(reason string) *AppError {
	return &AppError{
		Code: ErrCodeUnauthorized, Message: fmt.Sprintf("unauthorized: %s", reason),
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// Forbidden creates an error for credentials missing the given scope.
func Forbidden(scope string) *AppError {
	return &AppError{
		Code: ErrCodeForbidden, Message: fmt.Sprintf("token lacks scope %s", scope),
		HTTPStatus: http.StatusForbidden, Retryable: false,
		Details: map[string]any{"scope": scope},
	}
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// FromContext maps context cancellation and deadline errors to AppErrors.
// It returns nil for any other error.
func FromContext(operation string, err error) *AppError {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return Timeout(operation).WithCause(err)
	case stderrors.Is(err, context.Canceled):
		return ServiceUnavailable(operation).WithCause(err)
	}
	return nil
}
