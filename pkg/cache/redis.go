package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deskhub/offices-api/pkg/config"
)

// NewClient connects to redis and pings it with a short timeout. It returns
// nil on failure; callers degrade gracefully by running without idempotency
// caching rather than refusing to start.
func NewClient(cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
