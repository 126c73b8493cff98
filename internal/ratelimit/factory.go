package ratelimit

import (
	"fmt"
	"time"

	"github.com/aman-churiwal/root-panel/internal/storage"
)

// Creates a limiter for the configured algorithm
func NewLimiter(redis *storage.RedisClient, algorithm string, limit int, window time.Duration) (Limiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, fmt.Errorf("rate limit needs a positive limit and window, got %d per %v", limit, window)
	}

	switch algorithm {
	case "fixed_window", "":
		return NewFixedWindow(redis, limit, window), nil
	case "sliding_window":
		return NewSlidingWindow(redis, limit, window), nil
	case "token_bucket":
		return NewTokenBucket(redis, limit, window), nil
	default:
		return nil, fmt.Errorf("unknown rate limit algorithm: %s", algorithm)
	}
}
