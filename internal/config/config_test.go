package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"port": "9090", "environment": "production", "allowed_origins": ["https://panel.example"]},
		"database": {"dsn": "postgres://u:p@db/panel"},
		"redis": {"host": "cache", "port": "6380", "db": 2},
		"auth": {"jwt_secret": "file-secret", "expiry_hours": 12},
		"login_limit": {"algorithm": "sliding_window", "attempts": 3, "window_seconds": 30},
		"cache": {"profile_ttl_seconds": 60}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://panel.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres://u:p@db/panel", cfg.Database.DSN)
	assert.Equal(t, "cache:6380", cfg.Redis.GetRedisAddr())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 12, cfg.Auth.ExpiryHours)
	assert.Equal(t, "sliding_window", cfg.LoginLimit.Algorithm)
	assert.Equal(t, 30*time.Second, cfg.LoginLimit.Window())
	assert.Equal(t, time.Minute, cfg.Cache.ProfileTTL())
	// untouched sections fall back to defaults
	assert.Equal(t, 100, cfg.Logs.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Logs.FlushInterval())
	assert.Equal(t, 30*24*time.Hour, cfg.Logs.Retention())
}

func TestLoad_MissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PORT", "7070")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("ALLOWED_ORIGINS", "http://a.local, http://b.local,")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Redis.DB)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.GetRedisAddr())
	assert.Equal(t, "fixed_window", cfg.LoginLimit.Algorithm)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	path := writeConfig(t, `{"auth": {"jwt_secret": "from-file"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load(writeConfig(t, `{}`))
		assert.ErrorContains(t, err, "jwt_secret")
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := Load(writeConfig(t, `{"server":`))
		assert.ErrorContains(t, err, "failed to parse config")
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		_, err := Load(writeConfig(t, `{"auth":{"jwt_secret":"x"},"login_limit":{"algorithm":"leaky"}}`))
		assert.ErrorContains(t, err, "unknown login_limit.algorithm")
	})

	t.Run("bad redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "two")
		_, err := Load(writeConfig(t, `{"auth":{"jwt_secret":"x"}}`))
		assert.ErrorContains(t, err, "REDIS_DB")
	})
}
