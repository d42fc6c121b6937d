package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores each key as a plain Redis string, no TTL. It exists for
// users who already run a local Redis and want board state there instead
// of under .tagup/state.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV wraps an existing client. The caller owns the client's
// lifetime.
func NewRedisKV(client *redis.Client) *RedisKV {
	if client == nil {
		panic("store.NewRedisKV: client is nil")
	}
	return &RedisKV{client: client}
}

// Get reads the value stored under key.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// Set writes the value under key, replacing any previous content.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}
