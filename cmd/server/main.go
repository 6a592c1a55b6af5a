// Command server is the entry point for the Agora API.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"agora/internal/bootstrap"
	"agora/internal/config"
	"agora/internal/observability"
	"agora/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.L().Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Pretty:      cfg.LogPretty,
		ServiceName: "agora-api",
	})
	logger := observability.L()

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "agora-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise tracing")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.InitRuntime(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise runtime")
	}

	if cfg.ReconcileInterval > 0 {
		rt.Reconciler.Start(ctx)
	}
	go rt.SweepSessions(ctx, cfg.SessionTTL)

	srv := server.NewServer(cfg, server.Deps{
		Store:    rt.Store,
		Sessions: rt.Sessions,
		Redis:    rt.Redis,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down server")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	if cfg.ReconcileInterval > 0 {
		rt.Reconciler.Stop()
		<-rt.Reconciler.Done()
	}
	if err := rt.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("runtime shutdown error")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown error")
	}
}
