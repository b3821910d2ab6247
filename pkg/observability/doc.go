/*
Package observability turns patch graph activity into telemetry.

Metrics exposes Prometheus counters and a cable gauge through
domain.LifecycleHooks, so it plugs into a Rack with WithLifecycleHooks.
TracingEngine decorates any ports.SignalEngine with OpenTelemetry spans, and
Setup configures the OTLP exporter those spans are shipped with.
*/
package observability
