package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ClassifyStatus maps an HTTP status code and the service's error message to
// a wrapped sentinel. Returns nil for 2xx codes.
//
// A 429 whose message mentions quota, billing or exhaustion is a quota error
// rather than a transient rate limit (Gemini reports RESOURCE_EXHAUSTED for both).
func ClassifyStatus(status int, message string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusTooManyRequests:
		lower := strings.ToLower(message)
		if strings.Contains(lower, "quota") || strings.Contains(lower, "billing") {
			return fmt.Errorf("%s: %w", message, ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", message, ErrRateLimit)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", message, ErrQuotaExceeded)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", message, ErrAuthFailed)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", message, ErrTimeout)
	}

	if status >= 500 {
		return fmt.Errorf("service error %d: %s: %w", status, message, ErrServiceUnavailable)
	}
	if status >= 400 {
		return fmt.Errorf("%s: %w", message, ErrBadRequest)
	}
	return fmt.Errorf("unexpected status %d: %s", status, message)
}

// ClassifyTransport maps transport-level failures (no HTTP status) to sentinels.
// Context cancellation is returned unchanged so callers can detect interrupts.
func ClassifyTransport(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}
	return err
}

// IsKnown reports whether err wraps one of the package sentinels.
func IsKnown(err error) bool {
	for _, s := range []error{ErrRateLimit, ErrQuotaExceeded, ErrTimeout, ErrAuthFailed, ErrBadRequest, ErrEmptyResponse, ErrServiceUnavailable} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
