package utils

import (
	"context"
	"fmt"

	"user-notification-system/internal/config"

	"github.com/go-redis/redis/v8"
)

// InitializeRedis builds a client for cfg.Redis and pings it.
func InitializeRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
