package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aman-churiwal/root-panel/internal/storage"
	"github.com/redis/go-redis/v9"
)

// Allows bursts up to capacity and refills continuously so that a full
// bucket is regained after one window
type TokenBucket struct {
	redis      *storage.RedisClient
	capacity   int
	window     time.Duration
	refillRate float64 // tokens per second
}

type bucketState struct {
	Tokens     float64   `json:"tokens"`
	LastRefill time.Time `json:"last_refill"`
}

func NewTokenBucket(redis *storage.RedisClient, capacity int, window time.Duration) *TokenBucket {
	return &TokenBucket{
		redis:      redis,
		capacity:   capacity,
		window:     window,
		refillRate: float64(capacity) / window.Seconds(),
	}
}

func (t *TokenBucket) key(key string) string {
	return "ratelimit:bucket:" + key
}

// Loads the bucket for key and refills it up to now
func (t *TokenBucket) load(ctx context.Context, key string, now time.Time) (bucketState, error) {
	data, err := t.redis.Get(ctx, t.key(key))
	if errors.Is(err, redis.Nil) {
		return bucketState{Tokens: float64(t.capacity), LastRefill: now}, nil
	}
	if err != nil {
		return bucketState{}, err
	}

	var state bucketState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return bucketState{}, fmt.Errorf("corrupt bucket for %s: %w", key, err)
	}

	elapsed := now.Sub(state.LastRefill).Seconds()
	if elapsed > 0 {
		state.Tokens = math.Min(state.Tokens+elapsed*t.refillRate, float64(t.capacity))
	}
	state.LastRefill = now

	return state, nil
}

func (t *TokenBucket) Allow(ctx context.Context, key string) (bool, error) {
	state, err := t.load(ctx, key, time.Now())
	if err != nil {
		return false, err
	}

	allowed := state.Tokens >= 1
	if allowed {
		state.Tokens--
	}

	payload, _ := json.Marshal(state)
	if err := t.redis.Set(ctx, t.key(key), payload, t.window); err != nil {
		return false, err
	}

	return allowed, nil
}

func (t *TokenBucket) Remaining(ctx context.Context, key string) (int, error) {
	state, err := t.load(ctx, key, time.Now())
	if err != nil {
		return 0, err
	}

	return int(state.Tokens), nil
}

func (t *TokenBucket) Limit() int {
	return t.capacity
}

func (t *TokenBucket) Window() time.Duration {
	return t.window
}

// Returns when the bucket is full again
func (t *TokenBucket) Reset(ctx context.Context, key string) (time.Time, error) {
	now := time.Now()
	state, err := t.load(ctx, key, now)
	if err != nil {
		return time.Time{}, err
	}

	missing := float64(t.capacity) - state.Tokens
	return now.Add(time.Duration(missing / t.refillRate * float64(time.Second))), nil
}
