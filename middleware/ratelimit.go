package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Limiter issues rate-limiting middleware backed by Redis. The bypass flag
// is fixed at construction (test deployments); a nil client fails open.
type Limiter struct {
	rdb    *redis.Client
	bypass bool
}

// NewLimiter creates a Limiter over the given Redis client.
func NewLimiter(rdb *redis.Client, bypass bool) *Limiter {
	return &Limiter{rdb: rdb, bypass: bypass}
}

// Allow checks if a client has exceeded its rate limit for the named
// resource. Returns true if allowed, false if the limit is exceeded.
// Fails open whenever Redis is unavailable or errors.
func (l *Limiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if l.bypass || l.rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	// INCR and set EXPIRE if new
	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if cnt == 1 {
		l.rdb.Expire(ctx, key, window)
	}
	if cnt > int64(limit) {
		return false, nil
	}
	return true, nil
}

// Limit returns a Fiber middleware enforcing `limit` requests per `window`
// on the named resource. It keys by authenticated user ID when one is set
// in c.Locals("userID"), otherwise by remote IP.
func (l *Limiter) Limit(resource string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		} else {
			id = fmt.Sprintf("ip:%s", c.IP())
		}

		allowed, err := l.Allow(c.Context(), resource, id, limit, window)
		if err != nil {
			// Fail-open
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded, please try again later",
			})
		}
		return c.Next()
	}
}
