package store

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures a store driver.
type Option func(*config)

type config struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// WithRedisClient sets the client for the redis driver. Required for DriverRedis.
func WithRedisClient(client *redis.Client) Option {
	return func(c *config) { c.redisClient = client }
}

// WithTTL sets the session expiry for drivers that support it. Default: 24h.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}
