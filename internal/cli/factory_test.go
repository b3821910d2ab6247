package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaroNakasendo/modularsynth/internal/config"
	"github.com/TaroNakasendo/modularsynth/internal/logging"
	"github.com/TaroNakasendo/modularsynth/pkg/adapters/memory"
	"github.com/TaroNakasendo/modularsynth/pkg/adapters/redis"
	"github.com/TaroNakasendo/modularsynth/pkg/observability"
)

func TestNewEngine(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		engine, closer, err := NewEngine(config.Config{Engine: config.EngineMemory})
		require.NoError(t, err)
		assert.IsType(t, &memory.Engine{}, engine)
		assert.NoError(t, closer())
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		engine, closer, err := NewEngine(config.Config{
			Engine: config.EngineRedis,
			Redis:  config.RedisConfig{Addr: mr.Addr(), Prefix: "t:"},
		})
		require.NoError(t, err)
		assert.IsType(t, &redis.Engine{}, engine)
		assert.NoError(t, closer())
	})

	t.Run("Traced", func(t *testing.T) {
		engine, _, err := NewEngine(config.Config{Engine: config.EngineMemory, OTelEndpoint: "http://localhost:4318"})
		require.NoError(t, err)
		assert.IsType(t, &observability.TracingEngine{}, engine)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := NewEngine(config.Config{Engine: "alsa"})
		assert.Error(t, err)
	})
}

func TestBuildRack_Default(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, slog.LevelDebug, false)

	rack, closer, err := BuildRack(context.Background(), config.Config{Engine: config.EngineMemory}, logger)
	require.NoError(t, err)
	defer closer()

	assert.Len(t, rack.Cables(), 6)
	assert.Contains(t, logs.String(), "Cable Connected")
}

func TestBuildRack_RedisMirror(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Config{
		Engine: config.EngineRedis,
		Redis:  config.RedisConfig{Addr: mr.Addr(), Prefix: "rack:"},
	}

	rack, closer, err := BuildRack(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer closer()

	members, err := mr.Members("rack:connections")
	require.NoError(t, err)
	assert.Len(t, members, len(rack.Cables()))
}

func TestBuildRack_RackFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
modules:
  - kind: noise
  - kind: vcf
patch:
  - from: NOISE.OUT
    to: VCF.IN
`), 0o644))

	rack, _, err := BuildRack(context.Background(), config.Config{RackFile: path}, logging.NewNop())
	require.NoError(t, err)
	require.Len(t, rack.CurrentCables(), 1)
	assert.Equal(t, "NOISE.OUT", rack.CurrentCables()[0].Source)

	_, _, err = BuildRack(context.Background(), config.Config{RackFile: filepath.Join(t.TempDir(), "none.yaml")}, logging.NewNop())
	assert.Error(t, err)
}
