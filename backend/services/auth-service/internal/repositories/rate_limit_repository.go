package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitRepository provides an atomic way to check and increment rate limit counters.
type RateLimitRepository interface {
	// IncrementAndCheck increments the counter for key and reports whether
	// the request is still allowed (count <= limit). The window starts on
	// the first hit.
	IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	// Reset drops the counter, e.g. after a successful login.
	Reset(ctx context.Context, key string) error
}

type rateLimitRepository struct {
	rdb redis.Cmdable
}

func NewRateLimitRepository(rdb redis.Cmdable) RateLimitRepository {
	return &rateLimitRepository{rdb: rdb}
}

const keyPrefix = "ratelimit:"

func (r *rateLimitRepository) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.rdb.Incr(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.rdb.Expire(ctx, keyPrefix+key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

func (r *rateLimitRepository) Reset(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, keyPrefix+key).Err()
}
