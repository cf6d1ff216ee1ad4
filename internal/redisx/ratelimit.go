package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window request counter. A window is the current
// minute; the first INCR in a window sets the TTL so stale windows expire
// on their own. Redis failures fail open: admission control at the router
// must not take the API down with it.
type Limiter struct {
	RDB       *redis.Client
	PerMinute int
}

func (l *Limiter) Allow(ctx context.Context, client string) bool {
	if l == nil || l.RDB == nil || l.PerMinute <= 0 {
		return true
	}
	window := time.Now().Unix() / 60
	key := fmt.Sprintf(KeyRateWindow, client, window)

	n, err := l.RDB.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		_ = l.RDB.Expire(ctx, key, TTLRateWindow).Err()
	}
	return n <= int64(l.PerMinute)
}
