package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultRedisPrefix namespaces translation keys inside a shared Redis
// instance.
const defaultRedisPrefix = "arbtrans:"

const redisDialTimeout = 5 * time.Second

// RedisConfig holds connection settings for the Redis cache.
type RedisConfig struct {
	URL       string // Connection URL, e.g. "redis://localhost:6379"
	TTL       int    // Record TTL in seconds (0 = keep forever)
	KeyPrefix string // Key namespace (default: "arbtrans:")
}

// RedisCache stores translations in Redis so CI jobs and parallel
// translator instances share one cache instead of re-paying for the same
// provider calls.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient wraps an existing Redis client. Used by tests
// and by callers that manage their own connection pool.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = defaultRedisPrefix
	}

	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: keyPrefix,
	}
}

// Get retrieves a translation. Backend errors are reported as misses; a
// flaky Redis degrades to extra provider calls rather than a failed run.
func (c *RedisCache) Get(key string) (string, bool) {
	val, err := c.client.Get(context.Background(), c.prefix+key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false
	case err != nil:
		// Backend error, treat as a miss.
		return "", false
	}
	return val, true
}

// Set stores a translation, expiring after the configured TTL.
func (c *RedisCache) Set(key string, value string) error {
	return c.client.Set(context.Background(), c.prefix+key, value, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping checks that Redis is reachable.
func (c *RedisCache) Ping() error {
	return c.client.Ping(context.Background()).Err()
}

// Verify RedisCache implements TranslationCache
var _ TranslationCache = (*RedisCache)(nil)
