package ports

import (
	"context"
	"testing"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSignalEngineContract runs a suite of tests to verify that a SignalEngine
// implementation adheres to the adapter contract the patch graph relies on.
// The engine must start empty.
func RunSignalEngineContract(t *testing.T, engine InspectableEngine) {
	ctx := context.Background()

	osc := domain.Endpoint{Node: "contract/osc"}
	filter := domain.Endpoint{Node: "contract/filter"}
	gain := domain.Endpoint{Node: "contract/vca", Param: "gain"}

	t.Run("Materialize and Sever", func(t *testing.T) {
		require.NoError(t, engine.Materialize(ctx, osc, filter))

		conns, err := engine.Connections(ctx)
		require.NoError(t, err)
		assert.Contains(t, conns, domain.Connection{Source: osc, Sink: filter})

		require.NoError(t, engine.Sever(ctx, osc, filter))

		conns, err = engine.Connections(ctx)
		require.NoError(t, err)
		assert.NotContains(t, conns, domain.Connection{Source: osc, Sink: filter})
	})

	t.Run("Sever Absent Connection", func(t *testing.T) {
		assert.NoError(t, engine.Sever(ctx, osc, gain), "severing an absent connection must not fail")
		assert.NoError(t, engine.Sever(ctx, osc, gain), "repeated teardown must not fail")
	})

	t.Run("Parameter Endpoints Are Distinct", func(t *testing.T) {
		require.NoError(t, engine.Materialize(ctx, osc, gain))
		require.NoError(t, engine.Materialize(ctx, osc, filter))
		defer func() {
			_ = engine.Sever(ctx, osc, gain)
			_ = engine.Sever(ctx, osc, filter)
		}()

		// Tearing down the node input leaves the parameter input alone.
		require.NoError(t, engine.Sever(ctx, osc, filter))

		conns, err := engine.Connections(ctx)
		require.NoError(t, err)
		assert.Contains(t, conns, domain.Connection{Source: osc, Sink: gain})
		assert.NotContains(t, conns, domain.Connection{Source: osc, Sink: filter})
	})

	t.Run("Fan Out", func(t *testing.T) {
		require.NoError(t, engine.Materialize(ctx, osc, filter))
		require.NoError(t, engine.Materialize(ctx, osc, gain))

		conns, err := engine.Connections(ctx)
		require.NoError(t, err)
		assert.Len(t, conns, 2)

		require.NoError(t, engine.Sever(ctx, osc, filter))
		require.NoError(t, engine.Sever(ctx, osc, gain))
	})

	if r, ok := engine.(Resetter); ok {
		t.Run("Reset", func(t *testing.T) {
			require.NoError(t, engine.Materialize(ctx, osc, filter))
			require.NoError(t, r.Reset(ctx))

			conns, err := engine.Connections(ctx)
			require.NoError(t, err)
			assert.Empty(t, conns)
		})
	}
}
