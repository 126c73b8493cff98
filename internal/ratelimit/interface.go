// Package ratelimit implements redis-backed request limiters keyed by an
// arbitrary caller-chosen string (the panel keys login attempts by client IP).
package ratelimit

import (
	"context"
	"time"
)

type Limiter interface {
	// Consumes one attempt for key and reports whether it is allowed
	Allow(ctx context.Context, key string) (bool, error)

	// Returns how many attempts key has left
	Remaining(ctx context.Context, key string) (int, error)

	Limit() int

	Window() time.Duration

	// Returns the time at which key regains its full allowance
	Reset(ctx context.Context, key string) (time.Time, error)
}
