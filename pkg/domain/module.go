package domain

import (
	"fmt"
	"math"
)

// Knob is a bounded control on a module.
// Target is the engine parameter it drives; it is zero for knobs that only
// affect module-internal behaviour (envelope times, mix ratios).
type Knob struct {
	Label  string   `json:"label"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Value  float64  `json:"value"`
	Target Endpoint `json:"target"`
}

// Clamp limits v to the knob range.
func (k Knob) Clamp(v float64) float64 {
	return math.Max(k.Min, math.Min(k.Max, v))
}

// Module is a named processing unit that owns a registry of jacks.
// Modules are assembled once and live for the lifetime of the rack.
type Module struct {
	Name string
	Kind string

	jacks     map[string]*Jack
	jackOrder []string
	knobs     map[string]*Knob
	knobOrder []string
}

// NewModule creates an empty module.
func NewModule(kind, name string) *Module {
	if name == "" {
		name = kind
	}
	return &Module{
		Name:  name,
		Kind:  kind,
		jacks: make(map[string]*Jack),
		knobs: make(map[string]*Knob),
	}
}

// DeclarePort registers a jack on the module.
// It fails with ErrDuplicatePort if the name is taken.
func (m *Module) DeclarePort(name string, dir Direction, endpoint Endpoint) (*Jack, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("port %s.%s: invalid direction %q", m.Name, name, dir)
	}
	if _, exists := m.jacks[name]; exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrDuplicatePort, m.Name, name)
	}

	j := &Jack{
		id:        NewJackID(),
		module:    m.Name,
		name:      name,
		direction: dir,
		endpoint:  endpoint,
		handle:    m.Name + "-" + name,
	}
	m.jacks[name] = j
	m.jackOrder = append(m.jackOrder, name)
	return j, nil
}

// Resolve returns the jack declared under name.
func (m *Module) Resolve(name string) (*Jack, error) {
	j, ok := m.jacks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrJackNotFound, m.Name, name)
	}
	return j, nil
}

// Jacks returns the module's jacks in declaration order.
func (m *Module) Jacks() []*Jack {
	out := make([]*Jack, 0, len(m.jackOrder))
	for _, name := range m.jackOrder {
		out = append(out, m.jacks[name])
	}
	return out
}

// DeclareKnob registers a knob initialised to def (clamped to [min, max]).
func (m *Module) DeclareKnob(label string, min, max, def float64, target Endpoint) (*Knob, error) {
	if min > max {
		return nil, fmt.Errorf("%w: %s.%s [%g, %g]", ErrInvalidKnobRange, m.Name, label, min, max)
	}
	if _, exists := m.knobs[label]; exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateKnob, m.Name, label)
	}
	k := &Knob{Label: label, Min: min, Max: max, Target: target}
	k.Value = k.Clamp(def)
	m.knobs[label] = k
	m.knobOrder = append(m.knobOrder, label)
	return k, nil
}

// SetKnob updates a knob and returns the clamped value that was stored.
func (m *Module) SetKnob(label string, v float64) (Knob, error) {
	k, ok := m.knobs[label]
	if !ok {
		return Knob{}, fmt.Errorf("%w: %s.%s", ErrKnobNotFound, m.Name, label)
	}
	k.Value = k.Clamp(v)
	return *k, nil
}

// Knobs returns a copy of the module's knobs in declaration order.
func (m *Module) Knobs() []Knob {
	out := make([]Knob, 0, len(m.knobOrder))
	for _, label := range m.knobOrder {
		out = append(out, *m.knobs[label])
	}
	return out
}
