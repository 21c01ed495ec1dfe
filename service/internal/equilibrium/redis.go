package equilibrium

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// DefaultCacheTTL is how long a cached strategy lives in Redis.
const DefaultCacheTTL = 24 * time.Hour

// redisClient is the subset of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache is a read-through cache in front of another Provider.
// Cache failures are logged and fall through to the backing provider.
type RedisCache struct {
	client redisClient
	next   Provider
	ttl    time.Duration
}

// NewRedisCache wraps next with a Redis cache. A non-positive ttl uses DefaultCacheTTL.
func NewRedisCache(client redisClient, next Provider, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, next: next, ttl: ttl}
}

// CacheKey returns the Redis key holding the n-player strategy.
func CacheKey(n int) string { return fmt.Sprintf("donut:nash:%d", n) }

// Strategy implements Provider.
func (c *RedisCache) Strategy(ctx context.Context, n int) ([]float64, error) {
	key := CacheKey(n)
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		probs, decErr := decode(raw, n)
		if decErr == nil {
			return probs, nil
		}
		log.WithField("key", key).Warnf("Discarding cached strategy: %v", decErr)
	case errors.Is(err, redis.Nil):
		// miss
	default:
		log.WithField("key", key).Warnf("Redis lookup failed, using backing provider: %v", err)
	}

	probs, err := c.next.Strategy(ctx, n)
	if err != nil {
		return nil, err
	}
	payload, err := encode(probs)
	if err != nil {
		return probs, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.WithField("key", key).Warnf("Caching strategy failed: %v", err)
	}
	return probs, nil
}
