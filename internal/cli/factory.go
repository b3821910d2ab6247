package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TaroNakasendo/modularsynth"
	"github.com/TaroNakasendo/modularsynth/internal/config"
	"github.com/TaroNakasendo/modularsynth/pkg/adapters/memory"
	"github.com/TaroNakasendo/modularsynth/pkg/adapters/redis"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/observability"
	"github.com/TaroNakasendo/modularsynth/pkg/ports"
	"github.com/TaroNakasendo/modularsynth/pkg/rackfile"
)

// Closer releases engine resources. It is never nil.
type Closer func() error

// NewEngine builds the signal engine selected by cfg. Engines are wrapped in
// a tracing decorator when an OTLP endpoint is configured.
func NewEngine(cfg config.Config) (ports.SignalEngine, Closer, error) {
	var (
		engine ports.SignalEngine
		closer Closer = func() error { return nil }
	)

	switch cfg.Engine {
	case config.EngineMemory, "":
		engine = memory.NewEngine()
	case config.EngineRedis:
		r := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTimeout(cfg.Redis.Timeout),
		)
		engine, closer = r, r.Close
	default:
		return nil, closer, fmt.Errorf("unknown engine %q", cfg.Engine)
	}

	if cfg.OTelEndpoint != "" {
		engine = observability.NewTracingEngine(engine)
	}
	return engine, closer, nil
}

// LoadRackFile reads the rack description at path, or the embedded default
// rack when path is empty.
func LoadRackFile(path string) (*rackfile.File, error) {
	if path == "" {
		return rackfile.Default(), nil
	}
	f, err := rackfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rack %s: %w", path, err)
	}
	return f, nil
}

// BuildRack assembles the rack described by cfg with the given hooks.
// Engine failures while applying the initial patch are logged, not fatal:
// the rack comes up with whatever cables the engine accepted.
func BuildRack(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*modularsynth.Rack, Closer, error) {
	f, err := LoadRackFile(cfg.RackFile)
	if err != nil {
		return nil, nil, err
	}

	engine, closer, err := NewEngine(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []modularsynth.Option{
		modularsynth.WithEngine(engine),
		modularsynth.WithLogger(logger),
		modularsynth.WithClickThreshold(cfg.ClickThreshold),
		modularsynth.WithLifecycleHooks(DebugHooks(logger)),
	}
	for _, h := range hooks {
		opts = append(opts, modularsynth.WithLifecycleHooks(h))
	}

	rack, err := modularsynth.FromFile(ctx, f, opts...)
	if rack == nil {
		_ = closer()
		return nil, nil, err
	}
	if err != nil {
		logger.Warn("initial patch incomplete", "error", err)
	}
	return rack, closer, nil
}

// DebugHooks logs every patch event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConnect: func(ctx context.Context, e *domain.CableEvent) {
			logger.Debug("Cable Connected", "source", e.Source, "sink", e.Sink, "color", e.Color, "cables", e.Cables)
		},
		OnDisconnect: func(ctx context.Context, e *domain.CableEvent) {
			logger.Debug("Cable Disconnected", "source", e.Source, "sink", e.Sink, "cables", e.Cables)
		},
		OnMaterializeError: func(ctx context.Context, e *domain.CableEvent) {
			logger.Debug("Connection Refused", "source", e.Source, "sink", e.Sink, "err", e.Error)
		},
		OnSeverError: func(ctx context.Context, e *domain.CableEvent) {
			logger.Debug("Teardown Failed", "source", e.Source, "sink", e.Sink, "err", e.Error)
		},
		OnClear: func(ctx context.Context, e *domain.ClearEvent) {
			logger.Debug("Patch Cleared", "removed", e.Removed)
		},
	}
}
