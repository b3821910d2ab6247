package ports

import (
	"context"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

// SignalEngine is the boundary to the real-time processing backend.
// The graph is the source of truth; the engine is a best-effort mirror of it.
type SignalEngine interface {
	// Materialize establishes a physical connection.
	// A failure must not disturb other connections.
	Materialize(ctx context.Context, source, sink domain.Endpoint) error

	// Sever removes a physical connection.
	// It must succeed (or fail harmlessly) when the connection does not exist.
	Sever(ctx context.Context, source, sink domain.Endpoint) error
}

// Resetter is implemented by engines that can drop every connection at once,
// e.g. after the underlying processing context was recreated.
type Resetter interface {
	Reset(ctx context.Context) error
}

// ParamSetter is implemented by engines that accept knob values.
type ParamSetter interface {
	SetParam(ctx context.Context, target domain.Endpoint, value float64) error
}

// Inspector is implemented by engines that can report what they currently carry.
type Inspector interface {
	Connections(ctx context.Context) ([]domain.Connection, error)
}

// InspectableEngine is an engine whose state can be verified by the contract suite.
type InspectableEngine interface {
	SignalEngine
	Inspector
}
