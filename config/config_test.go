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
	"ENV_FILE", "PORT", "RATE_LIMIT", "RATE_WINDOW", "CORS_ORIGINS", "REQUEST_TIMEOUT",
	"CACHE_SIZE", "CACHE_TTL", "AUTH_ENABLED", "JWT_SECRET_KEY", "JWT_ISSUER", "JWT_TOKEN_TTL",
	"MONGODB_URI", "MONGODB_DATABASE", "MONGODB_ENABLED", "MONGODB_TRANSACTIONS",
	"REDIS_LOCK_ENABLED", "REDIS_ADDR", "REDIS_DB", "LOCK_TTL", "LOG_LEVEL", "LOG_PRETTY", "LOG_FILE",
}

// clearConfigEnv blanks every key Load reads; empty values count as unset.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestFromEnv(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		clearConfigEnv(t)

		cfg := FromEnv()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
		assert.Equal(t, 1000, cfg.Cache.Size)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, "distribution-service", cfg.Auth.Issuer)
		assert.Equal(t, "distribution", cfg.Database.DatabaseName)
		assert.True(t, cfg.Database.Enabled)
		assert.True(t, cfg.Database.Transactions)
		assert.False(t, cfg.Lock.Enabled)
		assert.Equal(t, 10*time.Second, cfg.Lock.TTL)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Empty(t, cfg.Log.File)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("PORT", "9090")
		t.Setenv("RATE_LIMIT", "50")
		t.Setenv("RATE_WINDOW", "30s")
		t.Setenv("CACHE_SIZE", "500")
		t.Setenv("CACHE_TTL", "10m")
		t.Setenv("AUTH_ENABLED", "true")
		t.Setenv("JWT_TOKEN_TTL", "1h")
		t.Setenv("MONGODB_TRANSACTIONS", "false")
		t.Setenv("REDIS_LOCK_ENABLED", "true")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("LOG_FILE", "/var/log/distribution.log")

		cfg := FromEnv()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, 500, cfg.Cache.Size)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.True(t, cfg.Auth.Enabled)
		assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
		assert.False(t, cfg.Database.Transactions)
		assert.True(t, cfg.Lock.Enabled)
		assert.Equal(t, 2, cfg.Lock.RedisDB)
		assert.Equal(t, "/var/log/distribution.log", cfg.Log.File)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("RATE_LIMIT", "invalid")
		t.Setenv("AUTH_ENABLED", "invalid")
		t.Setenv("RATE_WINDOW", "invalid")

		cfg := FromEnv()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	})

	t.Run("appends CORS origins to the local defaults", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("CORS_ORIGINS", " https://ops.example.com ,")

		cfg := FromEnv()

		assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000", "https://ops.example.com"}, cfg.Server.CORSOrigins)
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing env file is fine", func(t *testing.T) {
		clearConfigEnv(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
	})

	t.Run("reads env file without overriding real env", func(t *testing.T) {
		clearConfigEnv(t)
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("MONGODB_DATABASE=fromfile\nCACHE_SIZE=42\n"), 0o600))
		t.Setenv("ENV_FILE", path)
		t.Setenv("CACHE_SIZE", "7")
		t.Cleanup(func() { _ = os.Unsetenv("MONGODB_DATABASE") })

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "fromfile", cfg.Database.DatabaseName)
		assert.Equal(t, 7, cfg.Cache.Size)
	})
}
