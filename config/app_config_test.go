package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremi-ah/bankledger/config"
)

func TestLoadAppConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := config.LoadAppConfig(slog.Default(), "does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "test-secret", cfg.Jwt.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Jwt.Expiry)
	assert.Equal(t, 5, cfg.Ledger.MaxRetries)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoadAppConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("LEDGER_MAX_RETRIES", "12")
	t.Setenv("DATABASE_URL", "postgres://ledger:pw@localhost:5432/ledger")

	cfg, err := config.LoadAppConfig(slog.Default(), "does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 12, cfg.Ledger.MaxRetries)
	assert.Equal(t, "postgres://ledger:pw@localhost:5432/ledger", cfg.DB.Url)
}
