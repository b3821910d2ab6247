// Package modules is the catalog of module kinds a rack can be assembled from.
//
// Each factory declares the jacks and knobs of one kind. Signal endpoints are
// named after the module instance ("VCO-1/oscillator") so two instances of the
// same kind never share an engine node.
package modules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

// Factory builds a module instance with the given name.
type Factory func(name string) (*domain.Module, error)

var catalog = map[string]Factory{
	"KEYBOARD": keyboard,
	"SEQ-8":    sequencer,
	"VCO":      vco,
	"LFO":      lfo,
	"NOISE":    noise,
	"VCF":      vcf,
	"VCA":      vca,
	"ADSR":     adsr,
	"DELAY":    delay,
	"REVERB":   reverb,
	"VOCODER":  vocoder,
	"OUTPUT":   output,
}

// New builds a module of the given kind. An empty name defaults to the kind.
func New(kind, name string) (*domain.Module, error) {
	f, ok := catalog[strings.ToUpper(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownModuleKind, kind)
	}
	if name == "" {
		name = strings.ToUpper(kind)
	}
	m, err := f(name)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %q: %w", kind, name, err)
	}
	return m, nil
}

// Kinds lists the registered kinds in alphabetical order.
func Kinds() []string {
	out := make([]string, 0, len(catalog))
	for k := range catalog {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type port struct {
	name  string
	dir   domain.Direction
	node  string
	param string
}

type knob struct {
	label         string
	min, max, def float64
	node, param   string
}

// build declares ports and knobs on a fresh module and stops at the first error.
func build(kind, name string, ports []port, knobs []knob) (*domain.Module, error) {
	m := domain.NewModule(kind, name)
	for _, p := range ports {
		ep := domain.Endpoint{Node: m.Name + "/" + p.node, Param: p.param}
		if _, err := m.DeclarePort(p.name, p.dir, ep); err != nil {
			return nil, err
		}
	}
	for _, k := range knobs {
		var target domain.Endpoint
		if k.node != "" {
			target = domain.Endpoint{Node: m.Name + "/" + k.node, Param: k.param}
		}
		if _, err := m.DeclareKnob(k.label, k.min, k.max, k.def, target); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func out(name, node string) port { return port{name: name, dir: domain.Source, node: node} }
func in(name, node string) port  { return port{name: name, dir: domain.Sink, node: node} }
func param(name, node, p string) port {
	return port{name: name, dir: domain.Sink, node: node, param: p}
}
