package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tair/catalog-admin/internal/app"
	"github.com/tair/catalog-admin/pkg/config"
	"github.com/tair/catalog-admin/pkg/logger"
	"github.com/tair/catalog-admin/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("catalog-admin", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting catalog service")

	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.Tracing)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize every component with Wire DI
	application, cleanup, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer cleanup()

	// Run migrations
	if err := application.Migrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	// A missing placeholder is regenerated on first use, so this is not fatal
	if err := application.Placeholder.Ensure(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to provision default product image")
	}

	go application.Health.Run(ctx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           application.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			errCh <- err
			return
		}
		logger.Logger.Info().
			Str("port", cfg.GRPCPort).
			Msg("gRPC server started (health, reflection)")
		if err := application.GRPC.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		logger.Logger.Error().Err(serveErr).Msg("Server failed")
	}

	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	application.GRPC.GracefulStop()

	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
	}

	logger.Logger.Info().Msg("Server stopped")
	if serveErr != nil {
		// deferred cleanup does not run on os.Exit
		cleanup()
		os.Exit(1)
	}
}
