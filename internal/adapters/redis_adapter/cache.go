// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// CacheKeyPrefix defines prefixes for different cache types
type CacheKeyPrefix string

const (
	PrefixDashboard   CacheKeyPrefix = "dash"
	PrefixStats       CacheKeyPrefix = "stats"
	PrefixWarehouse   CacheKeyPrefix = "wh"
	PrefixIdempotency CacheKeyPrefix = "idem"
)

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = errors.New("cache miss")

// Cache provides caching functionality with Redis
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Statically assert that *Cache implements the CacheRepository interface.
var _ ports.CacheRepository = (*Cache)(nil)

// NewCache creates a new cache instance
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cache")),
	}
}

// Set stores a value in cache with default TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value in cache with custom TTL
func (c *Cache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to set cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis set error: %w", err)
	}

	c.logger.DebugContext(ctx, "cache set",
		slog.String("key", key),
		slog.Duration("ttl", ttl))
	return nil
}

// Get retrieves a value from cache. A missing key returns ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
			return ErrCacheMiss
		}
		c.logger.ErrorContext(ctx, "failed to get cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	c.logger.DebugContext(ctx, "cache hit", slog.String("key", key))
	return nil
}

// Delete removes keys from cache
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to delete cache",
			slog.Any("keys", keys),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis del error: %w", err)
	}

	c.logger.DebugContext(ctx, "cache deleted", slog.Any("keys", keys))
	return nil
}

// DeletePattern removes all keys matching a pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan error: %w", err)
	}

	return c.Delete(ctx, keys...)
}

// Exists reports whether every key exists
func (c *Cache) Exists(ctx context.Context, keys ...string) (bool, error) {
	n, err := c.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return n == int64(len(keys)), nil
}

// GetOrSet retrieves from cache or fetches and stores on a miss. A failed
// cache write is logged and the fetched value is still returned.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{},
	fetch func() (interface{}, error), ttl time.Duration) error {

	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.WarnContext(ctx, "cache read failed, falling back to source",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	value, err := fetch()
	if err != nil {
		return fmt.Errorf("fetch error: %w", err)
	}

	if err := c.SetWithTTL(ctx, key, value, ttl); err != nil {
		c.logger.WarnContext(ctx, "failed to cache value after fetch",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// SetNX sets a key only if it doesn't exist
func (c *Cache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("marshal error: %w", err)
	}

	ok, err := c.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx error: %w", err)
	}
	return ok, nil
}

// Ping checks if Redis is accessible
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}

// BuildKey creates a cache key with prefix
func BuildKey(prefix CacheKeyPrefix, parts ...string) string {
	key := string(prefix)
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

// CacheManager groups the invalidation rules for views derived from
// warehouse and inventory state.
type CacheManager struct {
	cache  ports.CacheRepository
	logger *slog.Logger
}

var _ ports.CacheInvalidator = (*CacheManager)(nil)

// NewCacheManager creates a new cache manager
func NewCacheManager(cache ports.CacheRepository, logger *slog.Logger) *CacheManager {
	return &CacheManager{
		cache:  cache,
		logger: logger.With(slog.String("component", "cache_manager")),
	}
}

// InvalidateInventoryViews drops the dashboard, stats and per-warehouse views.
// Every pattern is attempted; the first failure is returned.
func (m *CacheManager) InvalidateInventoryViews(ctx context.Context) error {
	patterns := []string{
		fmt.Sprintf("%s:*", PrefixDashboard),
		fmt.Sprintf("%s:*", PrefixStats),
		fmt.Sprintf("%s:*", PrefixWarehouse),
	}

	var firstErr error
	for _, pattern := range patterns {
		if err := m.cache.DeletePattern(ctx, pattern); err != nil {
			m.logger.WarnContext(ctx, "failed to invalidate cache pattern",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// IdempotencyStore keeps Idempotency-Key records in Redis. A key is claimed
// with SETNX as pending and replaced by the stored response on success.
type IdempotencyStore struct {
	cache ports.CacheRepository
	ttl   time.Duration
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// NewIdempotencyStore creates a store whose records expire after ttl
func NewIdempotencyStore(cache ports.CacheRepository, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{cache: cache, ttl: ttl}
}

func (s *IdempotencyStore) Begin(ctx context.Context, key, fingerprint string) (*ports.IdempotencyRecord, bool, error) {
	redisKey := BuildKey(PrefixIdempotency, key)

	claimed, err := s.cache.SetNX(ctx, redisKey, ports.IdempotencyRecord{
		Status:      ports.IdempotencyPending,
		Fingerprint: fingerprint,
	}, s.ttl)
	if err != nil {
		return nil, false, err
	}
	if claimed {
		return nil, true, nil
	}

	var existing ports.IdempotencyRecord
	if err := s.cache.Get(ctx, redisKey, &existing); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			// expired between SETNX and GET; claim again
			return s.Begin(ctx, key, fingerprint)
		}
		return nil, false, err
	}
	return &existing, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, fingerprint string, response any) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return s.cache.SetWithTTL(ctx, BuildKey(PrefixIdempotency, key), ports.IdempotencyRecord{
		Status:      ports.IdempotencyCompleted,
		Fingerprint: fingerprint,
		Response:    data,
	}, s.ttl)
}

func (s *IdempotencyStore) Abandon(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, BuildKey(PrefixIdempotency, key))
}
