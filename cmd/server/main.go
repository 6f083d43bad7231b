package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auratrack_backend/internal/app/config"
	"auratrack_backend/internal/app/di"
	"auratrack_backend/internal/app/router"
	authhandler "auratrack_backend/internal/feature/auth/transport/handler"
	entryhandler "auratrack_backend/internal/feature/entries/transport/handler"
	"auratrack_backend/internal/platform/logger"
)

const (
	shutdownTimeout        = 10 * time.Second
	sessionCleanupInterval = time.Hour
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := di.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		app.Close(closeCtx)
	}()

	go app.RunSessionJanitor(ctx, sessionCleanupInterval)

	r := router.NewRouter(
		router.Options{
			JWTSecret:             cfg.JWT.Secret,
			CORSOrigins:           cfg.CORSOrigins,
			AuthAttemptsPerMinute: cfg.AuthRateLimit,
			HealthChecks:          app.HealthChecks(),
		},
		authhandler.NewAuthHandler(app.Auth),
		entryhandler.NewEntryHandler(app.Creator, app.Entries, app.Exporter, app.Insights),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
