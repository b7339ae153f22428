// Package domain defines fixed-window rate limiting types.
package domain

import (
	"time"

	"github.com/allisson/certify/internal/errors"
)

// UnknownClientKey is used when a request carries no client address headers.
// All such requests share a single window.
const UnknownClientKey = "unknown"

// ErrInvalidPolicy indicates a policy with a non-positive limit or window.
var ErrInvalidPolicy = errors.Wrap(errors.ErrInvalidInput, "invalid rate limit policy")

// Policy bounds how many requests a client may make per window.
type Policy struct {
	MaxRequests int
	Window      time.Duration
}

// Validate checks the policy can admit at least one request.
func (p Policy) Validate() error {
	if p.MaxRequests <= 0 || p.Window <= 0 {
		return ErrInvalidPolicy
	}
	return nil
}

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the whole seconds until the window resets, at least 1.
func (d Decision) RetryAfter(now time.Time) int {
	secs := int(d.ResetAt.Sub(now).Round(time.Second).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}
