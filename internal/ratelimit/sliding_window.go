package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aman-churiwal/root-panel/internal/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Counts attempts in a sorted set scored by their timestamp
type SlidingWindowLimiter struct {
	redis  *storage.RedisClient
	limit  int
	window time.Duration
}

func NewSlidingWindow(redis *storage.RedisClient, limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		redis:  redis,
		limit:  limit,
		window: window,
	}
}

func (s *SlidingWindowLimiter) key(key string) string {
	return "ratelimit:sliding:" + key
}

func (s *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := s.key(key)
	now := time.Now()
	windowStart := now.Add(-s.window)

	pipe := s.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if countCmd.Val() >= int64(s.limit) {
		return false, nil
	}

	// the member embeds its timestamp so Reset can read it back
	member := fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString())
	if err := s.redis.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member}); err != nil {
		return false, err
	}
	if err := s.redis.Expire(ctx, redisKey, s.window); err != nil {
		return false, err
	}

	return true, nil
}

func (s *SlidingWindowLimiter) Remaining(ctx context.Context, key string) (int, error) {
	now := time.Now()
	windowStart := now.Add(-s.window)

	count, err := s.redis.ZCount(ctx, s.key(key),
		strconv.FormatInt(windowStart.UnixNano(), 10),
		strconv.FormatInt(now.UnixNano(), 10))
	if err != nil {
		return 0, err
	}

	return max(s.limit-int(count), 0), nil
}

func (s *SlidingWindowLimiter) Limit() int {
	return s.limit
}

func (s *SlidingWindowLimiter) Window() time.Duration {
	return s.window
}

// Returns when the oldest attempt leaves the window
func (s *SlidingWindowLimiter) Reset(ctx context.Context, key string) (time.Time, error) {
	oldest, err := s.redis.ZRange(ctx, s.key(key), 0, 0)
	if err != nil {
		return time.Time{}, err
	}
	if len(oldest) == 0 {
		return time.Now(), nil
	}

	stamp, _, _ := strings.Cut(oldest[0], "-")
	oldestNano, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return time.Now(), nil
	}

	return time.Unix(0, oldestNano).Add(s.window), nil
}
