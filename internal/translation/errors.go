package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// The remote service has exactly two failure modes the pipeline reacts to
// differently: transient overload and rate limiting. A malformed response is
// a third, local-to-the-call kind that is retried like a transient failure.

// TransientError covers timeouts, overload, and 5xx responses. Retried on the
// short backoff schedule.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient service error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// RateLimitError marks quota exhaustion (HTTP 429 / RESOURCE_EXHAUSTED).
// Retried only after the long cooldown; short backoffs are useless here.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// ValidationError marks a structurally defective response: entry count or
// index mismatch, or an unparseable timestamp. It is a remote-output defect,
// not a local bug, and is retried like a transient failure.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("response validation failed: %s", e.Reason)
}

// PermanentError marks failures no retry can fix, such as an invalid API key
// or a nonexistent model.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent service error: %v", e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// IsRateLimit reports whether err is a rate-limit failure.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// IsPermanent reports whether err cannot be fixed by retrying.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// ClassifyError maps an SDK or transport error onto the pipeline's error
// kinds. Unknown failures default to transient, which only costs retry
// attempts, never correctness.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
			return &RateLimitError{Err: err}
		case apiErr.Code >= 500:
			return &TransientError{Err: err}
		case apiErr.Code >= 400:
			return &PermanentError{Err: err}
		}
	}

	return &TransientError{Err: err}
}
