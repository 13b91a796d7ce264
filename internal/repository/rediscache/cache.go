package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrCacheMiss indicates the key is absent or the cache is disabled.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a read-through TTL cache for catalog documents.
type Cache interface {
	Get(ctx context.Context, kind, id string, out interface{}) error
	Set(ctx context.Context, kind, id string, value interface{}) error
	Invalidate(ctx context.Context, kind, id string)
}

// RedisCache implements Cache on a redis backend. A nil client disables
// caching entirely: every Get misses and Set/Invalidate are no-ops.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache connects to redis. An empty addr returns a disabled cache.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration, logger *zap.Logger) (*RedisCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if addr == "" {
		logger.Info("catalog cache disabled")
		return &RedisCache{ttl: ttl, logger: logger}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl, logger: logger}, nil
}

func cacheKey(kind, id string) string {
	return fmt.Sprintf("catalog:%s:%s", kind, id)
}

// Get loads a cached document into out.
func (c *RedisCache) Get(ctx context.Context, kind, id string, out interface{}) error {
	if c.client == nil {
		return ErrCacheMiss
	}

	data, err := c.client.Get(ctx, cacheKey(kind, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get %s/%s: %w", kind, id, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("cache decode %s/%s: %w", kind, id, err)
	}
	return nil
}

// Set stores a document under the configured TTL.
func (c *RedisCache) Set(ctx context.Context, kind, id string, value interface{}) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s/%s: %w", kind, id, err)
	}

	if err := c.client.Set(ctx, cacheKey(kind, id), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s/%s: %w", kind, id, err)
	}
	return nil
}

// Invalidate drops a cached document. Failures are logged, not returned;
// a stale delete only shortens the TTL window.
func (c *RedisCache) Invalidate(ctx context.Context, kind, id string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(kind, id)).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
	}
}

// Close releases the redis connection.
func (c *RedisCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
