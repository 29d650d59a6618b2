// Package errors provides the structured error type used across locus.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable code, an HTTP status and a retryable flag. Backend
// failures keep the original error as Cause so errors.Is / errors.As see
// through them.
package errors
