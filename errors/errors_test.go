package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeCacheUnavailable, true},
		{ErrCodeDiscoveryUnavailable, true},
		{ErrCodeServiceUnavailable, true},
		{ErrCodeTimeout, true},
		{ErrCodeNotFound, false},
		{ErrCodeInvalidInput, false},
		{ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			err := New(tc.code, "msg", http.StatusTeapot)
			if err.Retryable != tc.retryable {
				t.Errorf("Retryable = %v, want %v", err.Retryable, tc.retryable)
			}
			if err.HTTPStatus != http.StatusTeapot {
				t.Errorf("HTTPStatus = %d", err.HTTPStatus)
			}
		})
	}
}

func TestCacheUnavailable_WrapsCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := CacheUnavailable("get", cause)

	if err.Code != ErrCodeCacheUnavailable {
		t.Errorf("expected CACHE_UNAVAILABLE, got %s", err.Code)
	}
	if !err.Retryable {
		t.Error("cache failures should be retryable")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Details["operation"] != "get" {
		t.Errorf("operation detail = %v", err.Details["operation"])
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestDiscoveryUnavailable_Details(t *testing.T) {
	err := DiscoveryUnavailable("prod", "back", stderrors.New("throttled"))
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", err.HTTPStatus)
	}
	if err.Details["namespace"] != "prod" || err.Details["service"] != "back" {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("back")
	if err.Code != ErrCodeNotFound || err.HTTPStatus != http.StatusNotFound {
		t.Errorf("unexpected error %+v", err)
	}
	if err.Retryable {
		t.Error("NotFound should not be retryable")
	}
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("service", "must not be empty")
	if err.Details["field"] != "service" {
		t.Errorf("expected field=service, got %v", err.Details["field"])
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}

	if _, ok := InvalidInput("", "x").Details["field"]; ok {
		t.Error("expected no field detail when field is empty")
	}
}

func TestUnauthorizedAndForbidden(t *testing.T) {
	if err := Unauthorized("missing token"); err.HTTPStatus != http.StatusUnauthorized || err.Retryable {
		t.Errorf("unexpected error %+v", err)
	}
	err := Forbidden("cache:write")
	if err.Code != ErrCodeForbidden || err.HTTPStatus != http.StatusForbidden {
		t.Errorf("unexpected error %+v", err)
	}
	if err.Details["scope"] != "cache:write" {
		t.Errorf("expected scope detail, got %v", err.Details)
	}
}

func TestWithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details)
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext("resolve", context.DeadlineExceeded); got == nil || got.Code != ErrCodeTimeout {
		t.Errorf("deadline: got %v", got)
	}
	if got := FromContext("resolve", fmt.Errorf("wrapped: %w", context.Canceled)); got == nil || got.Code != ErrCodeServiceUnavailable {
		t.Errorf("canceled: got %v", got)
	}
	if got := FromContext("resolve", stderrors.New("other")); got != nil {
		t.Errorf("expected nil for unrelated error, got %v", got)
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	inner := NotFound("back")
	wrapped := fmt.Errorf("resolve: %w", inner)

	got, ok := AsAppError(wrapped)
	if !ok || got != inner {
		t.Fatalf("AsAppError() = %v, %v", got, ok)
	}
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error should not convert")
	}
}

func TestIsRetryableAndHTTPStatus(t *testing.T) {
	if !IsRetryable(fmt.Errorf("x: %w", CacheUnavailable("set", nil))) {
		t.Error("wrapped cache error should be retryable")
	}
	if IsRetryable(stderrors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	if HTTPStatus(InvalidInput("", "bad")) != http.StatusBadRequest {
		t.Error("expected 400")
	}
	if HTTPStatus(stderrors.New("plain")) != http.StatusInternalServerError {
		t.Error("expected 500 for plain errors")
	}
}

func TestToAppError(t *testing.T) {
	plain := stderrors.New("boom")
	got := ToAppError(plain)
	if got.Code != ErrCodeInternal || got.Cause != plain {
		t.Errorf("unexpected %+v", got)
	}
	nf := NotFound("x")
	if ToAppError(nf) != nf {
		t.Error("expected AppError to pass through")
	}
}

func TestToResponse(t *testing.T) {
	resp := DiscoveryUnavailable("ns", "svc", nil).ToResponse()
	if resp.Error.Code != ErrCodeDiscoveryUnavailable || !resp.Error.Retryable {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Error.Details["service"] != "svc" {
		t.Errorf("details not carried: %v", resp.Error.Details)
	}
}
