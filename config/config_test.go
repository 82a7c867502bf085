package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.NotEmpty(t, cfg.App.SweepSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("PUBLIC_RATE_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 2.5, cfg.Server.PublicRateRPS)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidateProductionRequiresFirebase(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("FIREBASE_CREDENTIALS_PATH", "")

	_, err := Load()
	assert.Error(t, err)
}
