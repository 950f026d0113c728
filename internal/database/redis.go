package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-catalog/config"
)

// NewRedisClient creates a new Redis client. It returns nil without error when
// no REDIS_URL is configured; sessions and rate limiting are then disabled.
func NewRedisClient(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not set, sessions and rate limiting disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.WithField("addr", opts.Addr).Info("successfully connected to Redis")
	return client, nil
}
