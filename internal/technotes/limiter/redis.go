package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blueplan/technotes-go/internal/technotes/pool"
)

// RedisLimiter counts requests in redis, one key per caller per minute, so
// the budget holds across replicas.
type RedisLimiter struct {
	mgr    *pool.RedisManager
	limit  int
	prefix string
}

// NewRedis creates a redis-backed limiter allowing limit requests per minute.
func NewRedis(mgr *pool.RedisManager, limit int) *RedisLimiter {
	return &RedisLimiter{
		mgr:    mgr,
		limit:  limit,
		prefix: "technotes:ratelimit",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	client := l.mgr.Client()
	rkey := l.windowKey(key, time.Now())

	count, err := client.Incr(ctx, rkey).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", rkey, err)
	}
	if count == 1 {
		// Two minutes covers the window plus clock skew between replicas.
		if err := client.Expire(ctx, rkey, 2*time.Minute).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", rkey, err)
		}
	}
	return count <= int64(l.limit), nil
}

func (l *RedisLimiter) Info(ctx context.Context, key string) (*Info, error) {
	client := l.mgr.Client()
	now := time.Now()

	count, err := client.Get(ctx, l.windowKey(key, now)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("get window for %s: %w", key, err)
		}
		count = 0
	}
	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return &Info{
		Limit:     l.limit,
		Remaining: remaining,
		ResetTime: windowStart(now).Add(time.Minute),
	}, nil
}

func (l *RedisLimiter) windowKey(key string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, key, windowStart(now).Format("200601021504"))
}
