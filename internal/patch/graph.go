package patch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TaroNakasendo/modularsynth/internal/logging"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/ports"
)

// Graph owns the set of cables and keeps the engine in sync with it.
type Graph struct {
	engine    ports.SignalEngine
	cables    []domain.Cable
	connected map[domain.JackID]bool

	colors ColorSource
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Graph.
type Option func(*Graph)

// WithLogger sets the logger used for teardown failures and absorbed requests.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Graph) {
		g.hooks = hooks
	}
}

// WithColorSource overrides how new cables are colored.
func WithColorSource(colors ColorSource) Option {
	return func(g *Graph) {
		g.colors = colors
	}
}

// NewGraph creates an empty graph bound to engine.
func NewGraph(engine ports.SignalEngine, opts ...Option) *Graph {
	g := &Graph{
		engine:    engine,
		connected: make(map[domain.JackID]bool),
		colors:    RandomHue(),
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// normalize orders a and b as (source, sink).
// ok is false for nil jacks, self loops and same-direction pairs.
func normalize(a, b *domain.Jack) (src, dst *domain.Jack, ok bool) {
	if a == nil || b == nil || a.ID() == b.ID() {
		return nil, nil, false
	}
	switch {
	case a.Direction() == domain.Source && b.Direction() == domain.Sink:
		return a, b, true
	case a.Direction() == domain.Sink && b.Direction() == domain.Source:
		return b, a, true
	}
	return nil, nil, false
}

// Connect wires a and b, in either order.
//
// Invalid pairs (same jack, same direction) are absorbed: Connect returns nil, nil.
// An existing cable is returned as is, without calling the engine again.
// If the engine cannot materialize the connection, nothing is recorded and the
// error (wrapping domain.ErrMaterialize) is returned.
func (g *Graph) Connect(ctx context.Context, a, b *domain.Jack) (*domain.Cable, error) {
	src, dst, ok := normalize(a, b)
	if !ok {
		g.logger.Debug("connect request absorbed", "a", describe(a), "b", describe(b))
		return nil, nil
	}

	if i := g.index(src, dst); i >= 0 {
		c := g.cables[i]
		return &c, nil
	}

	if err := g.engine.Materialize(ctx, src.Endpoint(), dst.Endpoint()); err != nil {
		g.logger.Warn("materialize failed", "source", src.QualifiedName(), "sink", dst.QualifiedName(), "error", err)
		if g.hooks.OnMaterializeError != nil {
			g.hooks.OnMaterializeError(ctx, g.cableEvent(domain.EventMaterializeError, domain.Cable{Source: src, Sink: dst}, err))
		}
		return nil, fmt.Errorf("%w: %s -> %s: %w", domain.ErrMaterialize, src.QualifiedName(), dst.QualifiedName(), err)
	}

	cable := domain.Cable{Source: src, Sink: dst, Color: g.colors()}
	g.cables = append(g.cables, cable)
	g.refreshConnected()

	g.logger.Debug("cable connected", "source", src.QualifiedName(), "sink", dst.QualifiedName(), "color", cable.Color)
	if g.hooks.OnConnect != nil {
		g.hooks.OnConnect(ctx, g.cableEvent(domain.EventConnect, cable, nil))
	}
	return &cable, nil
}

// DisconnectAll removes every cable touching jack and returns them.
// Engine teardown failures are logged and reported via hooks, never returned:
// the cables are removed from the graph regardless.
func (g *Graph) DisconnectAll(ctx context.Context, jack *domain.Jack) []domain.Cable {
	if jack == nil {
		return nil
	}

	var removed, kept []domain.Cable
	for _, c := range g.cables {
		if c.Touches(jack) {
			removed = append(removed, c)
		} else {
			kept = append(kept, c)
		}
	}
	if len(removed) == 0 {
		return nil
	}

	for _, c := range removed {
		g.sever(ctx, c)
	}

	g.cables = kept
	g.refreshConnected()

	if g.hooks.OnDisconnect != nil {
		for _, c := range removed {
			g.hooks.OnDisconnect(ctx, g.cableEvent(domain.EventDisconnect, c, nil))
		}
	}
	return removed
}

// Clear tears down every cable (best effort) and empties the graph.
func (g *Graph) Clear(ctx context.Context) {
	removed := len(g.cables)
	for _, c := range g.cables {
		g.sever(ctx, c)
	}
	g.cables = nil
	g.refreshConnected()

	g.logger.Debug("graph cleared", "removed", removed)
	if g.hooks.OnClear != nil {
		g.hooks.OnClear(ctx, &domain.ClearEvent{
			EventBase: domain.EventBase{Timestamp: g.now(), Type: domain.EventClear},
			Removed:   removed,
		})
	}
}

// Resync materializes every cable again, e.g. against a freshly reset engine.
// The graph is not modified; failures are joined into the returned error.
func (g *Graph) Resync(ctx context.Context) error {
	var errs []error
	for _, c := range g.cables {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := g.engine.Materialize(ctx, c.Source.Endpoint(), c.Sink.Endpoint()); err != nil {
			g.logger.Warn("resync failed", "source", c.Source.QualifiedName(), "sink", c.Sink.QualifiedName(), "error", err)
			errs = append(errs, fmt.Errorf("%s -> %s: %w", c.Source.QualifiedName(), c.Sink.QualifiedName(), err))
		}
	}
	return errors.Join(errs...)
}

// Exists reports whether a cable source -> sink is recorded.
func (g *Graph) Exists(source, sink *domain.Jack) bool {
	if source == nil || sink == nil {
		return false
	}
	return g.index(source, sink) >= 0
}

// CablesTouching returns the cables with jack at either end.
func (g *Graph) CablesTouching(jack *domain.Jack) []domain.Cable {
	if jack == nil {
		return nil
	}
	var out []domain.Cable
	for _, c := range g.cables {
		if c.Touches(jack) {
			out = append(out, c)
		}
	}
	return out
}

// Cables returns a copy of all cables in creation order.
func (g *Graph) Cables() []domain.Cable {
	out := make([]domain.Cable, len(g.cables))
	copy(out, g.cables)
	return out
}

// Len returns the number of cables.
func (g *Graph) Len() int {
	return len(g.cables)
}

// IsConnected reports whether any cable touches the jack.
func (g *Graph) IsConnected(jack *domain.Jack) bool {
	if jack == nil {
		return false
	}
	return g.connected[jack.ID()]
}

func (g *Graph) index(src, dst *domain.Jack) int {
	key := domain.CableKey{Source: src.ID(), Sink: dst.ID()}
	for i, c := range g.cables {
		if c.Key() == key {
			return i
		}
	}
	return -1
}

func (g *Graph) sever(ctx context.Context, c domain.Cable) {
	if err := g.engine.Sever(ctx, c.Source.Endpoint(), c.Sink.Endpoint()); err != nil {
		g.logger.Warn("disconnect error", "source", c.Source.QualifiedName(), "sink", c.Sink.QualifiedName(), "error", err)
		if g.hooks.OnSeverError != nil {
			g.hooks.OnSeverError(ctx, g.cableEvent(domain.EventSeverError, c, err))
		}
	}
}

// refreshConnected rebuilds the connected flags from the cable list.
func (g *Graph) refreshConnected() {
	g.connected = make(map[domain.JackID]bool, len(g.cables)*2)
	for _, c := range g.cables {
		g.connected[c.Source.ID()] = true
		g.connected[c.Sink.ID()] = true
	}
}

func (g *Graph) cableEvent(t domain.EventType, c domain.Cable, err error) *domain.CableEvent {
	e := &domain.CableEvent{
		EventBase: domain.EventBase{Timestamp: g.now(), Type: t},
		Source:    c.Source.QualifiedName(),
		Sink:      c.Sink.QualifiedName(),
		Color:     c.Color,
		Cables:    len(g.cables),
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

func describe(j *domain.Jack) string {
	if j == nil {
		return "<nil>"
	}
	return j.String()
}
