package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis. Network failures are retried with
// backoff before surfacing as ErrUnavailable.
type RedisCache struct {
	client   *redis.Client
	prefix   string
	attempts int
	delay    time.Duration
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithPrefix namespaces every key.
func WithPrefix(prefix string) RedisOption {
	return func(c *RedisCache) { c.prefix = prefix }
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) RedisOption {
	return func(c *RedisCache) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewRedisCache connects to the Redis server at addr and verifies it
// answers PING.
func NewRedisCache(ctx context.Context, addr string, opts ...RedisOption) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	c := newRedisCache(client, opts...)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", ErrUnavailable, addr, err)
	}
	return c, nil
}

func newRedisCache(client *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, attempts: 3, delay: 200 * time.Millisecond}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var hit bool
	err := c.retry(ctx, func() error {
		b, err := c.client.Get(ctx, c.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		data, hit = b, true
		return nil
	})
	return data, hit, err
}

// Set stores a value in Redis.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.retry(ctx, func() error {
		return c.client.Set(ctx, c.key(key), data, ttl).Err()
	})
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry(ctx, func() error {
		return c.client.Del(ctx, c.key(key)).Err()
	})
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) retry(ctx context.Context, fn func() error) error {
	err := RetryWithBackoff(ctx, c.attempts, c.delay, func() error {
		err := fn()
		if isNetworkError(err) {
			return Retryable(err)
		}
		return err
	})
	if isNetworkError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var ne net.Error
	return errors.As(err, &ne) || errors.Is(err, redis.ErrClosed)
}

var _ Cache = (*RedisCache)(nil)
