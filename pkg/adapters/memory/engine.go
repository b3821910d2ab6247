package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

// FaultFunc lets tests make an engine call fail for selected connections.
type FaultFunc func(source, sink domain.Endpoint) error

// Engine implements ports.SignalEngine in memory.
// It records connections and parameter values instead of processing audio.
// Safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	conns  map[domain.Connection]struct{}
	params map[domain.Endpoint]float64

	materializeFault FaultFunc
	severFault       FaultFunc

	materializeCalls int
	severCalls       int
}

// Option configures the Engine.
type Option func(*Engine)

// WithMaterializeFault makes Materialize fail whenever fn returns an error.
func WithMaterializeFault(fn FaultFunc) Option {
	return func(e *Engine) {
		e.materializeFault = fn
	}
}

// WithSeverFault makes Sever fail whenever fn returns an error.
// The connection is left in place, as a broken backend would.
func WithSeverFault(fn FaultFunc) Option {
	return func(e *Engine) {
		e.severFault = fn
	}
}

// NewEngine creates an empty in-memory engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		conns:  make(map[domain.Connection]struct{}),
		params: make(map[domain.Endpoint]float64),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Materialize records the connection.
func (e *Engine) Materialize(ctx context.Context, source, sink domain.Endpoint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.materializeCalls++
	if e.materializeFault != nil {
		if err := e.materializeFault(source, sink); err != nil {
			return err
		}
	}
	if source.IsZero() || sink.IsZero() {
		return fmt.Errorf("cannot connect %s to %s: empty endpoint", source, sink)
	}

	e.conns[domain.Connection{Source: source, Sink: sink}] = struct{}{}
	return nil
}

// Sever forgets the connection. Absent connections are not an error.
func (e *Engine) Sever(ctx context.Context, source, sink domain.Endpoint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.severCalls++
	if e.severFault != nil {
		if err := e.severFault(source, sink); err != nil {
			return err
		}
	}

	delete(e.conns, domain.Connection{Source: source, Sink: sink})
	return nil
}

// Reset drops every connection. Parameter values survive, like knob positions
// survive a restart of the processing context.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.conns = make(map[domain.Connection]struct{})
	return nil
}

// SetParam stores a parameter value.
func (e *Engine) SetParam(ctx context.Context, target domain.Endpoint, value float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params[target] = value
	return nil
}

// Param returns the last value set on target.
func (e *Engine) Param(target domain.Endpoint) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.params[target]
	return v, ok
}

// Connections returns the connections currently carried, sorted for stable output.
func (e *Engine) Connections(ctx context.Context) ([]domain.Connection, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Connection, 0, len(e.conns))
	for c := range e.conns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out, nil
}

// Connected reports whether the engine carries source -> sink.
func (e *Engine) Connected(source, sink domain.Endpoint) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.conns[domain.Connection{Source: source, Sink: sink}]
	return ok
}

// MaterializeCalls returns how many times Materialize was invoked.
func (e *Engine) MaterializeCalls() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.materializeCalls
}

// SeverCalls returns how many times Sever was invoked.
func (e *Engine) SeverCalls() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.severCalls
}
