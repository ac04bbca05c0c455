package cache

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// RedisCache stores classification results in Redis so multiple instances
// share one result set.  TTL gets a ±10% jitter to keep a burst of inserts
// from expiring in lockstep.
type RedisCache struct {
	client     redis.UniversalClient
	logger     logging.Logger
	prefix     string
	ttl        time.Duration
	serializer Serializer
}

// RedisOption customises a RedisCache.
type RedisOption func(*RedisCache)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(c *RedisCache) { c.prefix = prefix }
}

// WithRedisSerializer replaces the JSON serializer.
func WithRedisSerializer(s Serializer) RedisOption {
	return func(c *RedisCache) { c.serializer = s }
}

// NewRedisCache builds the store over an established client.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, logger logging.Logger, opts ...RedisOption) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &RedisCache{
		client:     client,
		logger:     logger.Named("cache.redis"),
		prefix:     "hazwaste:result:",
		ttl:        ttl,
		serializer: jsonSerializer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) fullKey(key string) string { return c.prefix + key }

func (c *RedisCache) jitterTTL() time.Duration {
	jitter := float64(c.ttl) * 0.1 * (rand.Float64()*2 - 1)
	return c.ttl + time.Duration(jitter)
}

// Get retrieves key into dest, mapping redis.Nil to ErrMiss.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to get cached entry")
	}
	if err := c.serializer.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode cached entry")
	}
	return nil
}

// Set stores value under key with the jittered TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode cache entry")
	}
	if err := c.client.Set(ctx, c.fullKey(key), data, c.jitterTTL()).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to set cached entry")
	}
	return nil
}

// Delete removes the given keys.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = c.fullKey(k)
	}
	if err := c.client.Del(ctx, fullKeys...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to delete cached entries")
	}
	return nil
}

// Len counts entries under the cache prefix with a cursor scan.
func (c *RedisCache) Len(ctx context.Context) (int, error) {
	var count int
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return count, errors.Wrap(err, errors.ErrCodeCacheError, "failed to scan cache keys")
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// Ping verifies connectivity, for readiness checks.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis ping failed")
	}
	return nil
}
