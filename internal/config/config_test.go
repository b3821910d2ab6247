package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5.0, cfg.ClickThreshold)
	assert.Equal(t, EngineMemory, cfg.Engine)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "modularsynth:engine:", cfg.Redis.Prefix)
	assert.Equal(t, 2*time.Second, cfg.Redis.Timeout)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MODULARSYNTH_ENGINE", "redis")
	t.Setenv("MODULARSYNTH_REDIS_ADDR", "redis:6380")
	t.Setenv("MODULARSYNTH_REDIS_TIMEOUT", "500ms")
	t.Setenv("MODULARSYNTH_CLICK_THRESHOLD", "8")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, EngineRedis, cfg.Engine)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.Redis.Timeout)
	assert.Equal(t, 8.0, cfg.ClickThreshold)
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MODULARSYNTH_HTTP_ADDR=0.0.0.0:9090\nMODULARSYNTH_LOG_LEVEL=debug\n"), 0o644))
	// Variables already set take precedence over the file.
	t.Setenv("MODULARSYNTH_LOG_LEVEL", "warn")
	// godotenv writes into the process environment; register cleanup for it.
	t.Setenv("MODULARSYNTH_HTTP_ADDR", "")
	require.NoError(t, os.Unsetenv("MODULARSYNTH_HTTP_ADDR"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.HTTPAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Run("engine", func(t *testing.T) {
		t.Setenv("MODULARSYNTH_ENGINE", "jack")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "unknown engine")
	})

	t.Run("threshold", func(t *testing.T) {
		t.Setenv("MODULARSYNTH_CLICK_THRESHOLD", "-1")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "must not be negative")
	})

	t.Run("parse", func(t *testing.T) {
		t.Setenv("MODULARSYNTH_REDIS_DB", "zero")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "parse env:")
	})
}
