package modularsynth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/TaroNakasendo/modularsynth/internal/logging"
	"github.com/TaroNakasendo/modularsynth/internal/patch"
	"github.com/TaroNakasendo/modularsynth/pkg/adapters/memory"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/modules"
	"github.com/TaroNakasendo/modularsynth/pkg/ports"
	"github.com/TaroNakasendo/modularsynth/pkg/rackfile"
)

// HitRadius is how close to a jack center a point must be to count as "over" it.
const HitRadius = 12.0

// Rack is the high-level entry point: a set of mounted modules, the patch
// graph between their jacks and the drag controller that edits it.
//
// All mutation is serialized behind one lock; readers (renderers, HTTP, MCP)
// receive snapshots and may observe a cable appear or disappear between reads.
type Rack struct {
	mu sync.RWMutex

	modules []*domain.Module
	byName  map[string]*domain.Module
	jacks   map[domain.JackID]*domain.Jack

	engine    ports.SignalEngine
	positions ports.Positioner
	graph     *patch.Graph
	drag      *patch.DragController

	threshold float64
	colors    patch.ColorSource
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Rack.
type Option func(*Rack)

// WithEngine sets the signal engine. The default is an in-memory engine.
func WithEngine(engine ports.SignalEngine) Option {
	return func(r *Rack) {
		r.engine = engine
	}
}

// WithPositioner sets how jack positions are resolved. The default is a GridLayout.
func WithPositioner(p ports.Positioner) Option {
	return func(r *Rack) {
		r.positions = p
	}
}

// WithClickThreshold sets the pointer travel under which a release is a click.
func WithClickThreshold(threshold float64) Option {
	return func(r *Rack) {
		r.threshold = threshold
	}
}

// WithColorSource overrides cable coloring.
func WithColorSource(colors patch.ColorSource) Option {
	return func(r *Rack) {
		r.colors = colors
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Rack) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rack) {
		r.logger = logger
	}
}

// New creates an empty rack.
func New(opts ...Option) *Rack {
	r := &Rack{
		byName:    make(map[string]*domain.Module),
		jacks:     make(map[domain.JackID]*domain.Jack),
		threshold: domain.DefaultClickThreshold,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		r.engine = memory.NewEngine()
	}
	if r.positions == nil {
		r.positions = NewGridLayout()
	}

	graphOpts := []patch.Option{
		patch.WithLogger(r.logger),
		patch.WithLifecycleHooks(r.hooks),
	}
	if r.colors != nil {
		graphOpts = append(graphOpts, patch.WithColorSource(r.colors))
	}
	r.graph = patch.NewGraph(r.engine, graphOpts...)
	r.drag = patch.NewDragController(r.graph, r.positions, r.threshold)
	return r
}

// FromFile assembles a rack from a rack description and applies its patch.
// Module and jack errors fail loudly with a nil rack. Engine errors on the initial
// patch are returned together with the rack, after the remaining cables were attempted.
func FromFile(ctx context.Context, f *rackfile.File, opts ...Option) (*Rack, error) {
	r := New(opts...)
	for _, spec := range f.Modules {
		m, err := modules.New(spec.Kind, spec.Name)
		if err != nil {
			return nil, err
		}
		if err := r.AddModule(m); err != nil {
			return nil, err
		}
		for label, v := range spec.Knobs {
			if _, err := r.SetKnob(ctx, m.Name, label, v); err != nil {
				return nil, err
			}
		}
	}
	if err := r.ApplyPatch(ctx, f.Patch); err != nil {
		if errors.Is(err, domain.ErrMaterialize) {
			return r, err
		}
		return nil, err
	}
	return r, nil
}

// Engine returns the signal engine the rack drives.
func (r *Rack) Engine() ports.SignalEngine {
	return r.engine
}

// AddModule mounts a module. Names must be unique within the rack.
func (r *Rack) AddModule(m *domain.Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[m.Name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateModule, m.Name)
	}
	r.modules = append(r.modules, m)
	r.byName[m.Name] = m
	for _, j := range m.Jacks() {
		r.jacks[j.ID()] = j
	}
	if p, ok := r.positions.(Placer); ok {
		p.Place(m)
	}
	r.logger.Debug("module mounted", "module", m.Name, "kind", m.Kind, "jacks", len(m.Jacks()))
	return nil
}

// Modules returns the mounted modules in mount order.
func (r *Rack) Modules() []*domain.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// Module returns a mounted module by name.
func (r *Rack) Module(name string) (*domain.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.module(name)
}

func (r *Rack) module(name string) (*domain.Module, error) {
	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
	}
	return m, nil
}

// Jack returns a jack by id.
func (r *Rack) Jack(id domain.JackID) (*domain.Jack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jack(id)
}

func (r *Rack) jack(id domain.JackID) (*domain.Jack, error) {
	j, ok := r.jacks[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", domain.ErrJackNotFound, id)
	}
	return j, nil
}

// Resolve finds a jack by its qualified name ("VCO-1.OUT").
func (r *Rack) Resolve(qualified string) (*domain.Jack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(qualified)
}

func (r *Rack) resolve(qualified string) (*domain.Jack, error) {
	modName, jackName, err := rackfile.SplitQualified(qualified)
	if err != nil {
		return nil, err
	}
	m, err := r.module(modName)
	if err != nil {
		return nil, err
	}
	return m.Resolve(jackName)
}

// JackAt returns the jack closest to p within HitRadius, or nil.
func (r *Rack) JackAt(p domain.Point) *domain.Jack {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *domain.Jack
	bestDist := HitRadius
	for _, m := range r.modules {
		for _, j := range m.Jacks() {
			if d := r.positions.PositionOf(j).Distance(p); d <= bestDist {
				best, bestDist = j, d
			}
		}
	}
	return best
}

// Connect wires two jacks given by qualified name, in either order.
// Unknown names are reported; invalid pairs are absorbed (nil, nil).
func (r *Rack) Connect(ctx context.Context, a, b string) (*domain.Cable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ja, err := r.resolve(a)
	if err != nil {
		return nil, err
	}
	jb, err := r.resolve(b)
	if err != nil {
		return nil, err
	}
	return r.graph.Connect(ctx, ja, jb)
}

// DisconnectAll removes every cable on the named jack.
func (r *Rack) DisconnectAll(ctx context.Context, qualified string) ([]domain.Cable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, err := r.resolve(qualified)
	if err != nil {
		return nil, err
	}
	return r.graph.DisconnectAll(ctx, j), nil
}

// Clear removes every cable.
func (r *Rack) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graph.Clear(ctx)
}

// ApplyPatch connects each cable in order. Unknown jacks fail immediately;
// engine failures are collected and the remaining cables are still attempted.
func (r *Rack) ApplyPatch(ctx context.Context, cables []rackfile.CableSpec) error {
	var errs []error
	for _, c := range cables {
		_, err := r.Connect(ctx, c.From, c.To)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrMaterialize):
			errs = append(errs, err)
		default:
			return fmt.Errorf("patch %s -> %s: %w", c.From, c.To, err)
		}
	}
	return errors.Join(errs...)
}

// Rebuild resets the engine (when it supports it) and replays every cable.
func (r *Rack) Rebuild(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rs, ok := r.engine.(ports.Resetter); ok {
		if err := rs.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset engine: %w", err)
		}
	}
	if err := r.graph.Resync(ctx); err != nil {
		return fmt.Errorf("resync incomplete: %w", err)
	}
	r.logger.Info("engine rebuilt", "cables", r.graph.Len())
	return nil
}

// SetKnob moves a knob and forwards the clamped value to the engine when the
// knob drives a parameter and the engine accepts parameters.
func (r *Rack) SetKnob(ctx context.Context, module, label string, value float64) (domain.Knob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.module(module)
	if err != nil {
		return domain.Knob{}, err
	}
	k, err := m.SetKnob(label, value)
	if err != nil {
		return domain.Knob{}, err
	}
	if ps, ok := r.engine.(ports.ParamSetter); ok && !k.Target.IsZero() {
		if err := ps.SetParam(ctx, k.Target, k.Value); err != nil {
			return k, fmt.Errorf("failed to set %s.%s: %w", module, label, err)
		}
	}
	return k, nil
}

// PressOn starts a gesture on the jack. It returns false when a gesture is
// already in progress.
func (r *Rack) PressOn(id domain.JackID, at domain.Point) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, err := r.jack(id)
	if err != nil {
		return false, err
	}
	return r.drag.Press(j, at), nil
}

// MoveTo tracks the pointer during a gesture.
func (r *Rack) MoveTo(at domain.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drag.Move(at)
}

// ReleaseAt ends the gesture. An empty id means no jack is under the pointer;
// an unknown id is treated the same way.
func (r *Rack) ReleaseAt(ctx context.Context, at domain.Point, id domain.JackID) (domain.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var target *domain.Jack
	if id != "" {
		target = r.jacks[id]
	}
	return r.drag.Release(ctx, at, target)
}

// CancelDrag abandons the gesture in progress, if any.
func (r *Rack) CancelDrag() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drag.Cancel()
}

// Cables returns a snapshot of the patch.
func (r *Rack) Cables() []domain.Cable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.graph.Cables()
}

// CablesTouching returns the cables on a jack.
func (r *Rack) CablesTouching(id domain.JackID) ([]domain.Cable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, err := r.jack(id)
	if err != nil {
		return nil, err
	}
	return r.graph.CablesTouching(j), nil
}

// IsConnected reports whether any cable touches the jack.
func (r *Rack) IsConnected(id domain.JackID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.graph.IsConnected(r.jacks[id])
}

// CurrentCables returns what renderers draw for the patch.
func (r *Rack) CurrentCables() []domain.CableView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.cableViews()
}

func (r *Rack) cableViews() []domain.CableView {
	cables := r.graph.Cables()
	out := make([]domain.CableView, 0, len(cables))
	for _, c := range cables {
		out = append(out, domain.CableView{
			Source:    c.Source.QualifiedName(),
			Sink:      c.Sink.QualifiedName(),
			SourcePos: r.positions.PositionOf(c.Source),
			SinkPos:   r.positions.PositionOf(c.Sink),
			Color:     c.Color,
		})
	}
	return out
}

// CurrentDragPath returns what renderers draw for the gesture in progress.
func (r *Rack) CurrentDragPath() (domain.DragPath, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.drag.Path()
}

// PositionOf returns the on-screen position of a jack.
func (r *Rack) PositionOf(j *domain.Jack) domain.Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.positions.PositionOf(j)
}

// ApplyDefaultPatch wires the embedded default rack's patch. The rack must
// contain the modules it names.
func (r *Rack) ApplyDefaultPatch(ctx context.Context) error {
	return r.ApplyPatch(ctx, rackfile.Default().Patch)
}

// JackView is the render-ready description of a jack.
type JackView struct {
	ID        domain.JackID    `json:"id"`
	Name      string           `json:"name"`
	Direction domain.Direction `json:"direction"`
	Handle    string           `json:"handle"`
	Position  domain.Point     `json:"position"`
	Connected bool             `json:"connected"`
}

// ModuleView is the render-ready description of a module.
type ModuleView struct {
	Name  string        `json:"name"`
	Kind  string        `json:"kind"`
	Jacks []JackView    `json:"jacks"`
	Knobs []domain.Knob `json:"knobs"`
}

// Snapshot is a consistent view of the whole rack for renderers.
type Snapshot struct {
	Modules []ModuleView       `json:"modules"`
	Cables  []domain.CableView `json:"cables"`
	Drag    *domain.DragPath   `json:"drag,omitempty"`
}

// Inspect returns a consistent snapshot of modules, cables and the drag path.
func (r *Rack) Inspect() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{
		Modules: make([]ModuleView, 0, len(r.modules)),
		Cables:  r.cableViews(),
	}
	for _, m := range r.modules {
		mv := ModuleView{Name: m.Name, Kind: m.Kind, Knobs: m.Knobs()}
		for _, j := range m.Jacks() {
			mv.Jacks = append(mv.Jacks, JackView{
				ID:        j.ID(),
				Name:      j.Name(),
				Direction: j.Direction(),
				Handle:    j.Handle(),
				Position:  r.positions.PositionOf(j),
				Connected: r.graph.IsConnected(j),
			})
		}
		snap.Modules = append(snap.Modules, mv)
	}
	if path, ok := r.drag.Path(); ok {
		snap.Drag = &path
	}
	return snap
}
