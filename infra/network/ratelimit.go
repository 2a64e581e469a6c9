package network

import (
	"context"
	"fmt"
	"log"
	"time"

	redisx "github.com/phuhao00/pandaparty/infra/redis"
)

// RedisRateLimiter enforces a fixed-window per-method call budget using a
// Redis INCR+EXPIRE counter keyed by method name and window start, the
// standard fixed-window pattern - cheap, slightly bursty at window
// boundaries, good enough to shed load ahead of slow downstream services.
type RedisRateLimiter struct {
	client *redisx.RedisClient
	limit  int64
	window time.Duration
}

// NewRedisRateLimiter allows at most limit calls to any one method per
// window.
func NewRedisRateLimiter(client *redisx.RedisClient, limit int64, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether methodFullName is still within budget for the
// current window. On any Redis error it fails open (allows the call) and
// logs, since an unreachable rate limiter should not take the whole server
// down with it.
func (l *RedisRateLimiter) Allow(methodFullName string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	windowStart := time.Now().Truncate(l.window).Unix()
	key := fmt.Sprintf("rpc:ratelimit:%s:%d", methodFullName, windowStart)

	count, err := l.client.GetReal().Incr(ctx, key).Result()
	if err != nil {
		log.Printf("network: rate limiter incr %s: %v", methodFullName, err)
		return true
	}
	if count == 1 {
		if err := l.client.GetReal().Expire(ctx, key, l.window).Err(); err != nil {
			log.Printf("network: rate limiter expire %s: %v", methodFullName, err)
		}
	}
	return count <= l.limit
}
