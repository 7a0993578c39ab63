// Package apierr provides shared error sentinels for the generation service
// clients. Every provider-specific failure is classified into one of these
// sentinels at the adapter boundary, so the workflow and its surfaces (web
// handlers, CLI exit codes) never inspect provider payloads.
//
// Providers wrap with fmt.Errorf("%s: %w", msg, sentinel).
// Callers check with errors.Is(err, apierr.ErrRateLimit) etc.
package apierr

import "errors"

// Sentinel errors for generation service failures.
var (
	// ErrRateLimit indicates the service rate limit was exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the account quota or billing limit was reached.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request or gateway timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrServiceUnavailable indicates a server-side failure (5xx other than 504).
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrAuthFailed indicates the credential was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrEmptyResponse indicates the service answered without any usable text
	// (no candidates, blocked content, or an empty message).
	ErrEmptyResponse = errors.New("empty response")
)
