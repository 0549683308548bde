// Package storage provides the key-value backend abstraction.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the redis backend.
type RedisConfig struct {
	// Addr is the host:port of the redis server.
	// Default: "127.0.0.1:6379"
	Addr string

	// Username and Password authenticate against redis ACLs (optional).
	Username string
	Password string

	// DB selects the redis logical database.
	DB int

	// DialTimeout bounds connection establishment.
	// Default: 5s
	DialTimeout time.Duration

	// PoolSize is the maximum number of socket connections.
	// Default: go-redis default (10 per CPU)
	PoolSize int
}

// DefaultRedisConfig returns the default redis configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:        "127.0.0.1:6379",
		DialTimeout: 5 * time.Second,
	}
}

// RedisBackend implements Backend over a network redis server.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend creates a redis-backed Backend.
func NewRedisBackend(cfg RedisConfig) *RedisBackend {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		PoolSize:    cfg.PoolSize,
	})

	return &RedisBackend{client: client}
}

// Get retrieves a value by key.
func (b *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	val, err := b.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("redis: get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value with a TTL (SET key value PX ttl).
func (b *RedisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", key, err)
	}
	return nil
}

// PExpire resets the TTL of an existing key.
func (b *RedisBackend) PExpire(ctx context.Context, key string, ttl time.Duration) error {
	if err := b.client.PExpire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis: pexpire %s: %w", key, err)
	}
	return nil
}

// Keys returns the keys matching a glob pattern.
//
// KEYS is an O(n) keyspace scan; acceptable while per-user session
// counts stay small. A deployment with a large keyspace should move the
// owner directory to a secondary index.
func (b *RedisBackend) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := b.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: keys %s: %w", pattern, err)
	}
	return keys, nil
}

// Ping verifies the backend is reachable.
func (b *RedisBackend) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
