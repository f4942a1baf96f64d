package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_DRIVER", "DATABASE_URL", "CACHE_BACKEND", "REDIS_ADDR", "REDIS_PASSWORD",
		"REDIS_DB", "JWT_SECRET", "ACCOUNT_CACHE_TTL", "HISTORY_CACHE_TTL", "SINGLE_ACCOUNT_PER_OWNER",
		"VERIFY_WITHDRAWALS", "VERIFY_DEPOSITS", "GATEWAY_DELAY", "LOG_LEVEL", "EVENTS_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, 5*time.Minute, cfg.AccountCacheTTL)
	assert.Equal(t, 2*time.Minute, cfg.HistoryCacheTTL)
	assert.True(t, cfg.SingleAccountPerOwner)
	assert.False(t, cfg.VerifyWithdrawals)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.UsesRedis())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", "file:ledger.db?_txlock=immediate&_fk=1")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("ACCOUNT_CACHE_TTL", "30s")
	t.Setenv("SINGLE_ACCOUNT_PER_OWNER", "false")
	t.Setenv("VERIFY_WITHDRAWALS", "true")
	t.Setenv("GATEWAY_DELAY", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.AccountCacheTTL)
	assert.False(t, cfg.SingleAccountPerOwner)
	assert.True(t, cfg.VerifyWithdrawals)
	assert.Equal(t, 250*time.Millisecond, cfg.GatewayDelay)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.UsesRedis())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "unknown driver", env: map[string]string{"JWT_SECRET": "x", "DATABASE_DRIVER": "mysql"}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "x", "ACCOUNT_CACHE_TTL": "five"}},
		{name: "bad bool", env: map[string]string{"JWT_SECRET": "x", "VERIFY_DEPOSITS": "maybe"}},
		{name: "events without redis", env: map[string]string{"JWT_SECRET": "x", "CACHE_BACKEND": "memory"}},
		{name: "negative ttl", env: map[string]string{"JWT_SECRET": "x", "HISTORY_CACHE_TTL": "-1m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
