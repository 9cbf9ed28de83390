package app

import (
	"context"
	"fmt"

	"github.com/guttosm/distribution-service/config"
	"github.com/guttosm/distribution-service/internal/lock"
	"github.com/rs/zerolog/log"
)

// LockComponents holds the locker shared by the stock services.
type LockComponents struct {
	Locker lock.Locker
	// HealthCheck pings Redis. It is nil when locking is disabled.
	HealthCheck func(ctx context.Context) error
	Close       func() error
}

// InitializeLocker connects the Redis locker. With locking disabled concurrent writers
// are still separated by versioned writes.
func InitializeLocker(ctx context.Context, cfg config.LockConfig) (*LockComponents, error) {
	if !cfg.Enabled {
		log.Info().Msg("Redis lock disabled - relying on versioned writes")
		return &LockComponents{
			Locker: lock.NoopLocker{},
			Close:  func() error { return nil },
		}, nil
	}

	rdb, err := lock.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("initialize lock: %w", err)
	}
	log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.TTL).Msg("Connected to Redis lock")

	return &LockComponents{
		Locker: lock.NewRedisLocker(rdb, lock.Options{
			TTL:        cfg.TTL,
			RetryEvery: cfg.RetryEvery,
			MaxRetries: cfg.MaxRetries,
		}),
		HealthCheck: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
		Close: rdb.Close,
	}, nil
}
