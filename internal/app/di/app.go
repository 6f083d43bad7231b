package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"auratrack_backend/internal/app/config"
	authhandler "auratrack_backend/internal/feature/auth/transport/handler"
	authusecase "auratrack_backend/internal/feature/auth/usecase"
	entryhandler "auratrack_backend/internal/feature/entries/transport/handler"
	entryusecase "auratrack_backend/internal/feature/entries/usecase"
	"auratrack_backend/internal/platform/db"
	"auratrack_backend/internal/platform/docstore"
	jwtmw "auratrack_backend/internal/platform/jwt"
	infraredis "auratrack_backend/internal/platform/redis"
	"auratrack_backend/internal/platform/telemetry"
)

// App holds the use cases shared by the HTTP server and the CLI.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	Auth     authhandler.AuthUsecase
	Creator  entryhandler.EntryCreator
	Entries  entryhandler.EntriesUsecase
	Exporter entryhandler.ExportUsecase
	Insights entryhandler.InsightsUsecase

	sessions authusecase.SessionRepository
	tracker  *telemetry.AsyncTracker
}

// Build connects the configured backends and wires the use cases.
// Redis is optional: when it is unreachable the cache is bypassed and sessions
// fall back to the relational store.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if cfg.RedisConfigured() {
		rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, running without cache", "error", err)
		} else {
			app.Redis = rdb
		}
	}

	// The relational store also backs sessions when Redis is missing.
	if cfg.StorageBackend == config.StorageRelational || app.Redis == nil {
		gdb, err := db.Open(cfg.DB, Models()...)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		app.DB = gdb
	}

	var docs *docstore.Store
	if cfg.StorageBackend == config.StorageDocument {
		blob, err := NewBlobStore(ctx, cfg.Blob, app.Redis)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		docs = docstore.New(blob)
	}

	entries, err := NewEntryRepository(cfg.StorageBackend, app.DB, docs, app.Redis, cfg.CacheTTL)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	users, err := NewUserRepository(cfg.StorageBackend, app.DB, docs)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	tracker, err := NewTracker(cfg.Telemetry, app.Redis)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.tracker = tracker

	app.sessions = NewSessionRepository(app.Redis, app.DB)
	generator := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	app.Auth = authusecase.NewAuthUsecase(users, app.sessions, generator, cfg.Auth)
	app.Creator = entryusecase.NewCreateUsecase(entries, tracker, cfg.Telemetry.Salt)
	query := entryusecase.NewEntriesUsecase(entries)
	app.Entries = query
	app.Exporter = entryusecase.NewExportUsecase(query, entryusecase.ParseLocale(cfg.ExportLocale))
	app.Insights = entryusecase.NewInsightsUsecase(query)
	return app, nil
}

// RunSessionJanitor deletes expired sessions every interval until ctx is done.
func (a *App) RunSessionJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.sessions.DeleteExpired(ctx)
			if err != nil {
				slog.Warn("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions removed", "count", n)
			}
		}
	}
}

// Close flushes queued telemetry and releases connections. Errors are logged.
func (a *App) Close(ctx context.Context) {
	if a.tracker != nil {
		if err := a.tracker.Close(ctx); err != nil {
			slog.Warn("telemetry flush incomplete", "error", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Warn("failed to close Redis client", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Warn("failed to close database", "error", err)
			}
		}
	}
}
