// Package bootstrap assembles the backends a process runs on.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agora/internal/cache"
	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/docstore"
	"agora/internal/observability"
	"agora/internal/repository"
	"agora/internal/service"
	"agora/internal/session"

	"github.com/redis/go-redis/v9"
)

const sweepInterval = time.Minute

// Runtime bundles the initialised backends.
type Runtime struct {
	Store      *repository.Store
	Sessions   session.Store
	Redis      *redis.Client
	Reconciler *service.Reconciler

	memory *session.MemoryStore
}

// OpenStore connects the configured database and returns its repositories.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		store, err := docstore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("document store connection failed: %w", err)
		}
		return store, nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return repository.NewGormStore(db, cfg.DBDriver), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// InitRuntime connects the store, Redis when configured, and the session store.
// Redis is required for redis sessions; otherwise an unreachable Redis is
// logged and left out.
func InitRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Store: store}

	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		switch {
		case err == nil:
			rt.Redis = rdb
		case cfg.SessionStore == config.SessionStoreRedis:
			_ = store.Close(ctx)
			return nil, fmt.Errorf("redis connection failed: %w", err)
		default:
			observability.L().Warn().Err(err).Msg("redis unavailable, continuing without it")
		}
	}

	if cfg.SessionStore == config.SessionStoreRedis {
		rt.Sessions = session.NewRedisStore(rt.Redis, cfg.SessionTTL)
	} else {
		rt.memory = session.NewMemoryStore(cfg.SessionTTL)
		rt.Sessions = rt.memory
	}

	rt.Reconciler = service.NewReconciler(store.Users, store.Contents, cfg.ReconcileInterval)

	observability.L().Info().
		Str("backend", store.Backend).
		Str("sessions", cfg.SessionStore).
		Bool("redis", rt.Redis != nil).
		Msg("runtime initialised")
	return rt, nil
}

// SweepSessions drops expired in-memory sessions every minute until ctx is
// done. It returns immediately for Redis sessions, which expire on their own,
// and when sessions never expire.
func (rt *Runtime) SweepSessions(ctx context.Context, ttl time.Duration) {
	if rt.memory == nil || ttl <= 0 {
		return
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	logger := observability.Component("session-sweeper")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rt.memory.Sweep(); n > 0 {
				logger.Debug().Int("removed", n).Msg("expired sessions swept")
			}
		}
	}
}

// Close releases Redis and the store.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := rt.Store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
