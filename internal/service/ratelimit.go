package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verses-xyz/interdependence/internal/domain"
)

// RateLimiter bounds mutation requests per caller using redis counters.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:    redisClient,
		limit:  limit,
		window: window,
	}
}

// Allow counts a request for key and rejects it once the window's budget is
// spent. Redis being unreachable fails open.
func (r *RateLimiter) Allow(ctx context.Context, key string) error {
	redisKey := "interdependence:ratelimit:" + key

	count, err := r.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil
	}
	if count == 1 {
		r.rdb.Expire(ctx, redisKey, r.window)
	}
	if count > r.limit {
		return domain.RateLimitError{Key: key}
	}
	return nil
}
