package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/internal-hackathon-7/int-hack-7/config"
)

// Connect builds a Redis client and verifies the connection with a ping.
// The client is handed to the store rather than held as package state so
// the storage dependency stays injectable.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
