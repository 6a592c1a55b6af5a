// Command reconcile recomputes the denormalized counters once and exits.
package main

import (
	"context"
	"time"

	"agora/internal/bootstrap"
	"agora/internal/config"
	"agora/internal/observability"
	"agora/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.L().Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger(observability.LogConfig{Level: cfg.LogLevel, Pretty: cfg.LogPretty, ServiceName: "agora-reconcile"})
	logger := observability.L()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() { _ = store.Close(context.Background()) }()

	fixed, err := service.NewReconciler(store.Users, store.Contents, 0).Reconcile(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("reconcile failed")
	}
	logger.Info().Int64("corrected", fixed).Msg("counters reconciled")
}
