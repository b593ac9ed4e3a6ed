// Package ratelimit gates the contact-intake path with a fixed-window
// counter per client IP. The window is fixed per key rather than a true
// sliding log, which admits brief bursts around window edges; that is an
// accepted approximation for abuse deterrence, not strict quota billing.
package ratelimit

import "context"

// UnknownKey is the shared bucket for requests whose client IP could not
// be determined. All unknown-IP clients count against one window.
const UnknownKey = "unknown"

// Limiter admits or denies a request for a key.
type Limiter interface {
	// Allow reports whether the request identified by key fits inside
	// the current window. The error return is only meaningful for
	// backends with I/O (Redis); the in-memory limiter never fails.
	Allow(ctx context.Context, key string) (bool, error)
}
