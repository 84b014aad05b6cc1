// Package cache holds the Redis backed place cache and visitor rate limiter,
// plus the pass-through versions used when Redis is not configured.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

func placeKey(id string) string {
	return fmt.Sprintf("place:%s", id)
}

func rateLimitKey(identifier string, window time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", identifier, window.Unix()/60)
}

// RedisCache stores public place snapshots as JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.PlaceCache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// GetPlace returns nil, nil on a miss.
func (c *RedisCache) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	data, err := c.client.Get(ctx, placeKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var p domain.Place
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached place: %w", err)
	}
	return &p, nil
}

func (c *RedisCache) SetPlace(ctx context.Context, p *domain.Place) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal place: %w", err)
	}
	if err := c.client.Set(ctx, placeKey(p.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, placeKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// RedisRateLimiter counts requests per key in fixed one minute windows.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

var _ ports.RateLimiter = (*RedisRateLimiter)(nil)

func NewRedisRateLimiter(client *redis.Client, perMinute int) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: perMinute, window: time.Minute, now: time.Now}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := l.now().Truncate(l.window)
	k := rateLimitKey(key, window)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit incr failed: %w", err)
	}
	// Only the first hit of a window sets the expiry.
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return true, fmt.Errorf("rate limit expire failed: %w", err)
		}
	}
	return int(count) <= l.limit, nil
}
