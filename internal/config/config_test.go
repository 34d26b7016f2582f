package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "GeotabProcessedReport.xlsx", cfg.ReportFileName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("UPLOAD_MAX_SIZE", "1024")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 1024, cfg.UploadMaxSize)
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	assert.Equal(t, 3, getEnvAsInt("REDIS_DB", 3))
}

func TestWarningsFlagSecretInDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development", JWTSecret: "s3cret"}
	require.Len(t, cfg.Warnings(), 1)
	assert.Contains(t, cfg.Warnings()[0], "APP_ENV")

	cfg.AppEnv = "production"
	assert.Empty(t, cfg.Warnings())

	cfg = &Config{AppEnv: "development"}
	assert.Empty(t, cfg.Warnings())
}

func TestLoadWithSecretButNoEnvStaysInDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.NotEmpty(t, cfg.Warnings())
}
