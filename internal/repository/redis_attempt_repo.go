package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAttemptRepo implements domain.AttemptStore using Redis counters.
type RedisAttemptRepo struct {
	client redis.Cmdable
}

// NewRedisAttemptRepo creates a new repository instance.
func NewRedisAttemptRepo(client redis.Cmdable) *RedisAttemptRepo {
	return &RedisAttemptRepo{client: client}
}

// The key pattern is "auth:login_attempts:<key>" -> attempt count.
func attemptKey(key string) string {
	return fmt.Sprintf("auth:login_attempts:%s", key)
}

// RegisterAttempt increments the counter atomically and returns the new
// value. The first attempt opens a window of the given length; the counter
// disappears when it closes.
func (r *RedisAttemptRepo) RegisterAttempt(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := attemptKey(key)

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count login attempt in redis: %w", err)
	}

	if n == 1 {
		if err := r.client.Expire(ctx, k, window).Err(); err != nil {
			return n, fmt.Errorf("failed to set attempt window in redis: %w", err)
		}
	}

	return n, nil
}

// Reset removes the counter immediately.
// This is used after a successful login.
func (r *RedisAttemptRepo) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, attemptKey(key)).Err()
}
