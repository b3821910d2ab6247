package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/ports"
)

const tracerName = "github.com/TaroNakasendo/modularsynth/pkg/observability"

// TracingEngine wraps a signal engine and records one span per engine call.
// Optional capabilities (Resetter, ParamSetter, Inspector) are forwarded when
// the wrapped engine has them.
type TracingEngine struct {
	next   ports.SignalEngine
	tracer trace.Tracer
}

// TracingOption configures a TracingEngine.
type TracingOption func(*TracingEngine)

// WithTracerProvider uses tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(e *TracingEngine) {
		e.tracer = tp.Tracer(tracerName)
	}
}

// NewTracingEngine decorates next.
func NewTracingEngine(next ports.SignalEngine, opts ...TracingOption) *TracingEngine {
	e := &TracingEngine{next: next}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

func (e *TracingEngine) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func edge(source, sink domain.Endpoint) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("patch.source", source.String()),
		attribute.String("patch.sink", sink.String()),
	}
}

// Materialize implements ports.SignalEngine.
func (e *TracingEngine) Materialize(ctx context.Context, source, sink domain.Endpoint) error {
	ctx, span := e.start(ctx, "engine.materialize", edge(source, sink)...)
	err := e.next.Materialize(ctx, source, sink)
	end(span, err)
	return err
}

// Sever implements ports.SignalEngine.
func (e *TracingEngine) Sever(ctx context.Context, source, sink domain.Endpoint) error {
	ctx, span := e.start(ctx, "engine.sever", edge(source, sink)...)
	err := e.next.Sever(ctx, source, sink)
	end(span, err)
	return err
}

// Reset implements ports.Resetter. It is a no-op for engines that cannot reset.
func (e *TracingEngine) Reset(ctx context.Context) error {
	rs, ok := e.next.(ports.Resetter)
	if !ok {
		return nil
	}
	ctx, span := e.start(ctx, "engine.reset")
	err := rs.Reset(ctx)
	end(span, err)
	return err
}

// SetParam implements ports.ParamSetter. It is a no-op for engines without parameters.
func (e *TracingEngine) SetParam(ctx context.Context, target domain.Endpoint, value float64) error {
	ps, ok := e.next.(ports.ParamSetter)
	if !ok {
		return nil
	}
	ctx, span := e.start(ctx, "engine.set_param",
		attribute.String("patch.target", target.String()),
		attribute.Float64("patch.value", value),
	)
	err := ps.SetParam(ctx, target, value)
	end(span, err)
	return err
}

// Connections implements ports.Inspector. Engines that cannot list their
// connections report none.
func (e *TracingEngine) Connections(ctx context.Context) ([]domain.Connection, error) {
	in, ok := e.next.(ports.Inspector)
	if !ok {
		return nil, nil
	}
	ctx, span := e.start(ctx, "engine.connections")
	conns, err := in.Connections(ctx)
	span.SetAttributes(attribute.Int("patch.connections", len(conns)))
	end(span, err)
	return conns, err
}
