// Package di provides factories that turn configuration into wired components.
package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"auratrack_backend/internal/app/config"
	authadapters "auratrack_backend/internal/feature/auth/adapters"
	authusecase "auratrack_backend/internal/feature/auth/usecase"
	entryadapters "auratrack_backend/internal/feature/entries/adapters"
	entryusecase "auratrack_backend/internal/feature/entries/usecase"
	"auratrack_backend/internal/platform/blobstore"
	"auratrack_backend/internal/platform/cache"
	"auratrack_backend/internal/platform/docstore"
	infrahttp "auratrack_backend/internal/platform/http"
)

// ErrRedisRequired is returned when a Redis-backed component is selected without Redis.
var ErrRedisRequired = errors.New("redis is required for this configuration")

// NewBlobStore builds the blob driver selected by cfg.Driver.
func NewBlobStore(ctx context.Context, cfg config.BlobConfig, rdb *redis.Client) (blobstore.Store, error) {
	switch cfg.Driver {
	case config.BlobJSONBin:
		if cfg.JSONBin.BinID == "" {
			return nil, errors.New("JSONBIN_BIN_ID is required for the jsonbin driver")
		}
		return blobstore.NewJSONBinStore(cfg.JSONBin, infrahttp.NewHTTPClient(cfg.JSONBin.Timeout)), nil
	case config.BlobS3:
		if cfg.S3.Bucket == "" {
			return nil, errors.New("S3_BUCKET is required for the s3 driver")
		}
		client, err := blobstore.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return blobstore.NewS3Store(client, cfg.S3.Bucket, cfg.S3.Key), nil
	case config.BlobRedis:
		if rdb == nil {
			return nil, fmt.Errorf("blob driver %q: %w", cfg.Driver, ErrRedisRequired)
		}
		return blobstore.NewRedisStore(rdb, cfg.RedisKey), nil
	case config.BlobFile:
		return blobstore.NewFileStore(cfg.FilePath), nil
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.Driver)
	}
}

// NewEntryRepository picks the backend for backend and wraps it in the read cache.
// The cache is a pass-through when rdb is nil.
func NewEntryRepository(backend string, db *gorm.DB, docs *docstore.Store, rdb *redis.Client, cacheTTL time.Duration) (entryusecase.EntryRepository, error) {
	var inner entryusecase.EntryRepository
	switch backend {
	case config.StorageRelational:
		if db == nil {
			return nil, errors.New("relational backend requires a database")
		}
		inner = entryadapters.NewEntryGorm(db)
	case config.StorageDocument:
		if docs == nil {
			return nil, errors.New("document backend requires a blob store")
		}
		inner = entryadapters.NewEntryDocument(docs)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
	return cache.NewCachingEntryRepository(rdb, cacheTTL, inner, cache.DefaultNamespace), nil
}

// NewUserRepository picks the user backend matching the entry backend.
func NewUserRepository(backend string, db *gorm.DB, docs *docstore.Store) (authusecase.UserRepository, error) {
	switch backend {
	case config.StorageRelational:
		if db == nil {
			return nil, errors.New("relational backend requires a database")
		}
		return authadapters.NewUserGorm(db), nil
	case config.StorageDocument:
		if docs == nil {
			return nil, errors.New("document backend requires a blob store")
		}
		return authadapters.NewUserDocument(docs), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}

// Models lists every relational model for AutoMigrate.
func Models() []any {
	return append(entryadapters.Models(), authadapters.Models()...)
}
