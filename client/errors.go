package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kbukum/locus/errors"
)

// notFound reports whether r is the API saying it knows no such service. A
// 404 from anything else, such as a proxy or a wrong base URL, is not.
func notFound(r reply) bool {
	if r.status != http.StatusNotFound {
		return false
	}
	var resp errors.ErrorResponse
	if err := json.Unmarshal(r.body, &resp); err != nil {
		return false
	}
	return resp.Error.Code == errors.ErrCodeNotFound
}

// decodeError turns a non-2xx reply into an AppError. A body carrying the
// API's ErrorResponse keeps its code, message and details; anything else is
// classified by status.
func decodeError(status int, body []byte) *errors.AppError {
	var resp errors.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error.Code != "" {
		return &errors.AppError{
			Code:       resp.Error.Code,
			Message:    resp.Error.Message,
			Retryable:  resp.Error.Retryable,
			HTTPStatus: status,
			Details:    resp.Error.Details,
		}
	}

	msg := fmt.Sprintf("locus api answered %d", status)
	switch {
	case status == http.StatusNotFound:
		return errors.New(errors.ErrCodeInternal, msg+"; check the base url", status)
	case status == http.StatusUnauthorized:
		return errors.New(errors.ErrCodeUnauthorized, msg, status)
	case status == http.StatusForbidden:
		return errors.New(errors.ErrCodeForbidden, msg, status)
	case status == http.StatusGatewayTimeout:
		return errors.New(errors.ErrCodeTimeout, msg, status)
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusTooManyRequests:
		return errors.New(errors.ErrCodeServiceUnavailable, msg, status)
	case status >= 400 && status < 500:
		return errors.New(errors.ErrCodeInvalidInput, msg, status)
	}
	return errors.New(errors.ErrCodeInternal, msg, status)
}

// transportError classifies a failed round trip.
func transportError(op string, err error) *errors.AppError {
	if ae := errors.FromContext(op, err); ae != nil {
		return ae
	}
	return errors.ServiceUnavailable("locus api").WithCause(err).WithDetail("operation", op)
}

// retryable reports whether a failed call is worth another attempt.
func retryable(err error) bool {
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	return errors.IsRetryable(err)
}
