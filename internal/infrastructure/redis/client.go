package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient creates a new Redis client. The first ping is retried with
// exponential backoff for up to maxWait so the server can start alongside
// redis.
func NewClient(ctx context.Context, redisURL string, maxWait time.Duration, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = maxWait

	// Verify connection
	err = backoff.RetryNotify(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		logger.Warn().Err(err).Dur("retry_in", next).Str("addr", opts.Addr).Msg("redis not reachable, retrying")
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
