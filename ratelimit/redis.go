package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed window counter shared by every instance using the
// same Redis. The first hit in a window sets the key's expiry.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	rule   Rule
}

// NewRedisLimiter creates a limiter storing counters under prefix
func NewRedisLimiter(client *redis.Client, prefix string, rule Rule) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, rule: rule}
}

// Allow counts a hit for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, redisKey, l.rule.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set expiry on %s: %w", redisKey, err)
		}
	}

	if count <= l.rule.Limit {
		return Decision{Allowed: true, Remaining: l.rule.Limit - count}, nil
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to read ttl of %s: %w", redisKey, err)
	}
	if ttl < 0 {
		// The expiry was lost; restart the window
		if err := l.client.PExpire(ctx, redisKey, l.rule.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set expiry on %s: %w", redisKey, err)
		}
		ttl = l.rule.Window
	}
	return Decision{Allowed: false, RetryAfter: ttl}, nil
}

// NewRedisClient connects to addr and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}
