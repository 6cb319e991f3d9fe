package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(newTestRedis(t), false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "signup", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := l.Allow(ctx, "signup", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different client is unaffected
	allowed, err = l.Allow(ctx, "signup", "ip:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLimiterAllow_FailOpenWithoutRedis(t *testing.T) {
	l := NewLimiter(nil, false)
	allowed, err := l.Allow(context.Background(), "signup", "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLimiterAllow_Bypass(t *testing.T) {
	rdb := newTestRedis(t)
	l := NewLimiter(rdb, true)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		allowed, err := l.Allow(ctx, "signup", "ip:1.2.3.4", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	// Bypassed requests leave no trace in Redis
	keys, err := rdb.Keys(ctx, "rl:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLimiterMiddleware(t *testing.T) {
	l := NewLimiter(newTestRedis(t), false)

	app := fiber.New()
	app.Post("/signup", l.Limit("signup", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/signup", nil)
		res, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		_ = res.Body.Close()
	}

	req := httptest.NewRequest("POST", "/signup", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, res.StatusCode)
	_ = res.Body.Close()
}

func TestLimiterMiddleware_Bypass(t *testing.T) {
	l := NewLimiter(newTestRedis(t), true)

	app := fiber.New()
	app.Post("/signup", l.Limit("signup", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/signup", nil)
		res, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		_ = res.Body.Close()
	}
}
