// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis client. It stays nil when Redis is
// unreachable; callers treat a nil client as "cache disabled".
var Client *redis.Client

// InitRedis initializes the Redis client with the given address. Accepts
// either a plain host:port or a redis:// URL.
func InitRedis(addr string) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			slog.Warn("invalid REDIS_URL, continuing without cache", "addr", addr, "error", err)
			Client = nil
			return
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	Client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, continuing without cache", "error", err)
		Client = nil
	}
}

// GetClient returns the shared Redis client (nil when unavailable).
func GetClient() *redis.Client {
	return Client
}
