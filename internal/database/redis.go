// Package database provides connection setup for Redis, the optional shared
// store for calendar view sessions. The client is created once at startup
// and shared across the application via dependency injection.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/campuscal/internal/config"
)

// Ping retry settings. Redis may still be starting when the app container
// launches.
const (
	maxPingRetries = 5
	maxPingBackoff = 10 * time.Second
)

// NewRedis creates a new Redis client from the given config. It parses the
// URL, connects, and pings to verify connectivity before returning. Returns
// nil, nil when no URL is configured.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := ping(ctx, client, time.Second); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// ping retries with exponential backoff starting at backoff.
func ping(ctx context.Context, client *redis.Client, backoff time.Duration) error {
	var pingErr error
	for attempt := 1; attempt <= maxPingRetries; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pingErr = client.Ping(pctx).Err()
		cancel()

		if pingErr == nil {
			return nil
		}
		if attempt == maxPingRetries {
			break
		}

		slog.Warn("redis not ready, retrying...",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", maxPingRetries),
			slog.Duration("backoff", backoff),
			slog.Any("error", pingErr),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("pinging redis: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxPingBackoff)
	}
	return fmt.Errorf("pinging redis after %d attempts: %w", maxPingRetries, pingErr)
}
