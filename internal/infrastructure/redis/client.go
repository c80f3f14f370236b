package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/payhub-io/payhub/internal/infrastructure/config"
	"github.com/payhub-io/payhub/pkg/retry"
	"github.com/redis/go-redis/v9"
)

// NewClient dials Redis and pings until it answers or the retry budget is
// spent. The worker's poll lock needs a live connection at startup, so a
// slow-starting Redis is waited out rather than failed fast.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = 5
	}
	delay := cfg.ConnectRetryDelay
	if delay <= 0 {
		delay = 1 * time.Second
	}

	err := retry.Do(ctx, retry.Config{
		MaxAttempts:  uint(attempts),
		InitialDelay: delay,
		MaxDelay:     30 * time.Second,
	}, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unreachable after %d attempts: %w", attempts, err)
	}

	return client, nil
}
