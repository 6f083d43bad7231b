package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"HTTP_ADDR", "STORAGE_BACKEND", "EXPORT_LOCALE", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	"JWT_SECRET", "JWT_ACCESS_TTL", "SESSION_TTL", "MAX_SESSIONS", "CACHE_TTL",
	"BLOB_DRIVER", "BLOB_REDIS_KEY", "BLOB_FILE_PATH",
	"TELEMETRY_SINK", "TELEMETRY_STREAM", "TELEMETRY_SALT", "REDIS_HOST", "AUTH_RATE_LIMIT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StorageRelational, cfg.StorageBackend)
	assert.Equal(t, BlobFile, cfg.Blob.Driver)
	assert.Equal(t, "log", cfg.Telemetry.Sink)
	assert.Equal(t, "aura-track:events", cfg.Telemetry.Stream)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 5, cfg.Auth.MaxSessions)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.AuthRateLimit)
	assert.Empty(t, cfg.CORSOrigins)
	assert.False(t, cfg.RedisConfigured())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "Document")
	t.Setenv("BLOB_DRIVER", "s3")
	t.Setenv("TELEMETRY_SINK", "redis")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("MAX_SESSIONS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, StorageDocument, cfg.StorageBackend)
	assert.Equal(t, BlobS3, cfg.Blob.Driver)
	assert.Equal(t, "redis", cfg.Telemetry.Sink)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 2, cfg.Auth.MaxSessions)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.RedisConfigured())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STORAGE_BACKEND", "mongo"},
		{"BLOB_DRIVER", "ftp"},
		{"TELEMETRY_SINK", "kafka"},
		{"SESSION_TTL", "a week"},
		{"MAX_SESSIONS", "many"},
		{"CACHE_TTL", "soon"},
		{"AUTH_RATE_LIMIT", "ten"},
		{"JWT_ACCESS_TTL", "-1m"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_ADDR=:9999\n"), 0o600))

	t.Chdir(dir)
	// godotenv never overrides variables that are already set, even to "".
	require.NoError(t, os.Unsetenv("HTTP_ADDR"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}
