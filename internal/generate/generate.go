// Package generate sends prompts to a text generation service and returns
// the generated text.
//
// Failures are classified into apierr sentinels. Nothing here retries: a
// failed call is reported to the caller, who decides whether to try again.
package generate

import (
	"context"
	"net/http"
)

// Generator produces text from a prompt.
//
// Implementations must be safe for concurrent use; the web server shares one
// Generator across sessions.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend in logs and progress messages.
	Name() string
}

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxResponseSize bounds the body read from the service (10MB).
const maxResponseSize = 10 * 1024 * 1024
