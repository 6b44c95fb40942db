package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRateLimited marks a transient rate-limit rejection from the provider.
// It is the only error class the generation call retries.
var ErrRateLimited = errors.New("llm: rate limited")

// ExhaustedError is terminal: every retry attempt for one chunk was consumed
// by rate limiting. It aborts the remaining pipeline for the request.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("llm: generation exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// statusCoder is satisfied by the provider SDK errors that expose an HTTP
// status code.
type statusCoder interface {
	StatusCode() int
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// IsRateLimited classifies a provider error as a retryable rate-limit
// rejection. The provider SDKs wrap their upstream errors differently, so
// after the typed checks this falls back to the provider's message markers.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var sc statusCoder
	if errors.As(err, &sc) && sc.StatusCode() == 429 {
		return true
	}
	var hsc httpStatusCoder
	if errors.As(err, &hsc) && hsc.HTTPStatusCode() == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "rate_limit", "resource_exhausted", "overloaded"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
