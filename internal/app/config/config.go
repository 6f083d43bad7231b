// Package config aggregates process configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	authusecase "auratrack_backend/internal/feature/auth/usecase"
	"auratrack_backend/internal/platform/blobstore"
	"auratrack_backend/internal/platform/cache"
	"auratrack_backend/internal/platform/db"
	"auratrack_backend/internal/platform/redis"
	"auratrack_backend/internal/platform/telemetry"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageRelational = "relational"
	StorageDocument   = "document"
)

// Blob drivers accepted by BLOB_DRIVER.
const (
	BlobJSONBin = "jsonbin"
	BlobS3      = "s3"
	BlobRedis   = "redis"
	BlobFile    = "file"
)

const (
	defaultAccessTTL     = 15 * time.Minute
	defaultAuthRateLimit = 10
)

type Config struct {
	HTTPAddr       string
	StorageBackend string
	ExportLocale   string
	CORSOrigins    []string
	CacheTTL       time.Duration
	AuthRateLimit  int // signup/login attempts per minute per client IP

	Log       LogConfig
	DB        db.Config
	Redis     redis.Config
	JWT       JWTConfig
	Auth      authusecase.Config
	Blob      BlobConfig
	Telemetry TelemetryConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

// BlobConfig selects and configures the document backend's blob driver.
type BlobConfig struct {
	Driver   string
	JSONBin  blobstore.JSONBinConfig
	S3       blobstore.S3Config
	RedisKey string
	FilePath string
}

type TelemetryConfig struct {
	Sink   string
	Stream string
	Salt   string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads .env (when present) and then the environment.
// Variables already set in the environment win over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:       getEnvOrDefault("HTTP_ADDR", ":8080"),
		StorageBackend: strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", StorageRelational)),
		ExportLocale:   getEnvOrDefault("EXPORT_LOCALE", "en"),
		CORSOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		DB:    db.LoadConfigFromEnv(),
		Redis: redis.LoadConfig(),
		JWT:   JWTConfig{Secret: os.Getenv("JWT_SECRET")},
		Blob: BlobConfig{
			Driver:   strings.ToLower(getEnvOrDefault("BLOB_DRIVER", BlobFile)),
			JSONBin:  blobstore.LoadJSONBinConfig(),
			S3:       blobstore.LoadS3Config(),
			RedisKey: getEnvOrDefault("BLOB_REDIS_KEY", blobstore.DefaultRedisKey),
			FilePath: getEnvOrDefault("BLOB_FILE_PATH", "auratrack-document.json"),
		},
		Telemetry: TelemetryConfig{
			Sink:   strings.ToLower(getEnvOrDefault("TELEMETRY_SINK", telemetry.SinkLog)),
			Stream: getEnvOrDefault("TELEMETRY_STREAM", telemetry.DefaultStream),
			Salt:   os.Getenv("TELEMETRY_SALT"),
		},
	}

	var err error
	if cfg.JWT.AccessTTL, err = getDurationOrDefault("JWT_ACCESS_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.Auth.SessionTTL, err = getDurationOrDefault("SESSION_TTL", authusecase.DefaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.Auth.MaxSessions, err = getIntOrDefault("MAX_SESSIONS", authusecase.DefaultMaxSessions); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDurationOrDefault("CACHE_TTL", cache.DefaultTTL); err != nil {
		return nil, err
	}
	if cfg.AuthRateLimit, err = getIntOrDefault("AUTH_RATE_LIMIT", defaultAuthRateLimit); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageRelational, StorageDocument:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}
	switch c.Blob.Driver {
	case BlobJSONBin, BlobS3, BlobRedis, BlobFile:
	default:
		return fmt.Errorf("unsupported BLOB_DRIVER %q", c.Blob.Driver)
	}
	switch c.Telemetry.Sink {
	case telemetry.SinkLog, telemetry.SinkRedis, telemetry.SinkNone:
	default:
		return fmt.Errorf("unsupported TELEMETRY_SINK %q", c.Telemetry.Sink)
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL must be positive")
	}
	return nil
}

// RedisConfigured reports whether a Redis host was given.
func (c *Config) RedisConfigured() bool {
	return c.Redis.Host != ""
}
