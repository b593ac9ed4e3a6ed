package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"greeventech/telemetry/config"
)

// NewRedisClient connects to the shared counter store backing the rate
// limiter when the deployment runs more than one instance. Optional: the
// caller only asks for one when REDIS_ADDR is configured.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
	return client, nil
}
