// Package cache provides a Redis-backed cache used by the redirect module
// to memoize resolution lookups (cache-aside pattern).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Service defines the caching operations consumers use.
type Service interface {
	// Get retrieves a value and unmarshals it into dest. Returns true on a
	// cache hit, false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores a JSON-marshaled value with the default TTL.
	Set(ctx context.Context, key string, value any) error

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// Stats returns a snapshot of hit/miss counters.
	Stats() StatsSnapshot

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close closes the backing connection.
	Close() error
}

// StatsSnapshot is a point-in-time view of the cache counters.
type StatsSnapshot struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Sets      uint64  `json:"sets"`
	Errors    uint64  `json:"errors"`
	HitRate   float64 `json:"hit_rate"`
	TotalGets uint64  `json:"total_gets"`
}

// Config holds cache configuration.
type Config struct {
	RedisAddr string
	Prefix    string
	TTL       time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr: "localhost:6379",
		Prefix:    "redirect:",
		TTL:       5 * time.Minute,
	}
}

// redisService implements Service using go-redis.
type redisService struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits   uint64
	misses uint64
	sets   uint64
	errors uint64
}

// New creates a Service backed by the Redis server in cfg.
func New(cfg Config) Service {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	return &redisService{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

// Get retrieves a value from the cache.
func (c *redisService) Get(ctx context.Context, key string, dest any) (bool, error) {
	fullKey := c.prefix + key

	data, err := c.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			atomic.AddUint64(&c.misses, 1)
			return false, nil // Cache miss
		}
		atomic.AddUint64(&c.errors, 1)
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		atomic.AddUint64(&c.errors, 1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	atomic.AddUint64(&c.hits, 1)
	return true, nil
}

// Set stores a value in the cache with the default TTL.
func (c *redisService) Set(ctx context.Context, key string, value any) error {
	fullKey := c.prefix + key

	data, err := json.Marshal(value)
	if err != nil {
		atomic.AddUint64(&c.errors, 1)
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, fullKey, data, c.ttl).Err(); err != nil {
		atomic.AddUint64(&c.errors, 1)
		return fmt.Errorf("cache set error: %w", err)
	}

	atomic.AddUint64(&c.sets, 1)
	return nil
}

// Delete removes a value from the cache.
func (c *redisService) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		atomic.AddUint64(&c.errors, 1)
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// Stats returns the current cache counters.
func (c *redisService) Stats() StatsSnapshot {
	hits := atomic.LoadUint64(&c.hits)
	misses := atomic.LoadUint64(&c.misses)
	totalGets := hits + misses

	var hitRate float64
	if totalGets > 0 {
		hitRate = float64(hits) / float64(totalGets) * 100
	}

	return StatsSnapshot{
		Hits:      hits,
		Misses:    misses,
		Sets:      atomic.LoadUint64(&c.sets),
		Errors:    atomic.LoadUint64(&c.errors),
		HitRate:   hitRate,
		TotalGets: totalGets,
	}
}

// Ping checks if the Redis connection is healthy.
func (c *redisService) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *redisService) Close() error {
	return c.client.Close()
}
