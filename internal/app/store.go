package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/websession/internal/config"
	"github.com/dmitrymomot/websession/pkg/logger"
	"github.com/dmitrymomot/websession/pkg/pg"
	"github.com/dmitrymomot/websession/pkg/redis"
	"github.com/dmitrymomot/websession/pkg/session"
	"github.com/dmitrymomot/websession/pkg/session/pgstore"
	"github.com/dmitrymomot/websession/pkg/session/redisstore"
)

// StoreHandle is an opened session store with its readiness probes.
// Close releases connections and background workers.
type StoreHandle struct {
	Store  session.Store
	Checks []func(context.Context) error
	Close  func()
}

// OpenStore opens the store selected by cfg.Store. The cookie store
// returns a nil Store: sessions then live only in the signed cookie.
func OpenStore(ctx context.Context, cfg config.Config, log *slog.Logger) (*StoreHandle, error) {
	log = log.With(logger.Component("store"), slog.String("kind", string(cfg.Store)))

	switch cfg.Store {
	case config.StoreCookie:
		log.WarnContext(ctx, "no session store configured, logout cannot revoke copied cookies")
		return &StoreHandle{Close: func() {}}, nil

	case config.StoreMemory:
		store := session.NewMemoryStore(cfg.Session.CleanupInterval)
		return &StoreHandle{
			Store: store,
			Close: func() { _ = store.Close() },
		}, nil

	case config.StoreRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &StoreHandle{
			Store:  redisstore.New(client),
			Checks: []func(context.Context) error{redis.Healthcheck(client)},
			Close: func() {
				if err := client.Close(); err != nil {
					log.Error("failed to close redis client", logger.Error(err))
				}
			},
		}, nil

	case config.StorePostgres:
		pool, err := pg.Connect(ctx, cfg.PG)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg.PG, log); err != nil {
			pool.Close()
			return nil, err
		}

		store := pgstore.New(pool)
		cleanupCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		go store.RunCleanup(cleanupCtx, cfg.Session.CleanupInterval, func(err error) {
			log.ErrorContext(cleanupCtx, "failed to delete expired sessions", logger.Error(err))
		})

		return &StoreHandle{
			Store:  store,
			Checks: []func(context.Context) error{pg.Healthcheck(pool)},
			Close: func() {
				cancel()
				pool.Close()
			},
		}, nil

	default:
		return nil, errors.Join(config.ErrUnknownStore, fmt.Errorf("%q", cfg.Store))
	}
}
