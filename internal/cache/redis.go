package cache

import (
	"context"
	"errors"
	"fmt"
	"quizflare/internal/config"

	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled is returned when no Redis address is configured. Callers
// fall back to the in-process cache.
var ErrRedisDisabled = errors.New("redis address is empty")

// NewRedisClient creates and returns a new Redis client instance.
// It pings the server to ensure connectivity.
func NewRedisClient(ctx context.Context, redisCfg config.RedisConfig) (*redis.Client, error) {
	if redisCfg.Address == "" {
		return nil, ErrRedisDisabled
	}

	opt := &redis.Options{
		Addr:     redisCfg.Address,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	}

	client := redis.NewClient(opt)

	_, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", redisCfg.Address, err)
	}

	return client, nil
}
