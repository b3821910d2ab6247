package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by the patch graph.
type Metrics struct {
	connected         prometheus.Counter
	disconnected      prometheus.Counter
	materializeErrors prometheus.Counter
	severErrors       prometheus.Counter
	cables            prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		connected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "modularsynth_cables_connected_total",
			Help: "Total number of cables connected",
		}),
		disconnected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "modularsynth_cables_disconnected_total",
			Help: "Total number of cables removed, including clears",
		}),
		materializeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "modularsynth_materialize_errors_total",
			Help: "Total number of connections the engine refused",
		}),
		severErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "modularsynth_sever_errors_total",
			Help: "Total number of engine teardown failures",
		}),
		cables: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "modularsynth_cables",
			Help: "Number of cables currently patched",
		}),
	}
	for _, c := range []prometheus.Collector{m.connected, m.disconnected, m.materializeErrors, m.severErrors, m.cables} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConnect: func(_ context.Context, e *domain.CableEvent) {
			m.connected.Inc()
			m.cables.Set(float64(e.Cables))
		},
		OnDisconnect: func(_ context.Context, e *domain.CableEvent) {
			m.disconnected.Inc()
			m.cables.Set(float64(e.Cables))
		},
		OnMaterializeError: func(context.Context, *domain.CableEvent) {
			m.materializeErrors.Inc()
		},
		OnSeverError: func(context.Context, *domain.CableEvent) {
			m.severErrors.Inc()
		},
		OnClear: func(_ context.Context, e *domain.ClearEvent) {
			m.disconnected.Add(float64(e.Removed))
			m.cables.Set(0)
		},
	}
}
