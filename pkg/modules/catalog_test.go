package modules_test

import (
	"errors"
	"testing"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AllKinds(t *testing.T) {
	for _, kind := range modules.Kinds() {
		t.Run(kind, func(t *testing.T) {
			m, err := modules.New(kind, "")
			require.NoError(t, err)
			assert.Equal(t, kind, m.Name)
			assert.Equal(t, kind, m.Kind)
			assert.NotEmpty(t, m.Jacks(), "every kind exposes at least one jack")
		})
	}
}

func TestNew_VCA(t *testing.T) {
	m, err := modules.New("vca", "VCA-2")
	require.NoError(t, err)

	cv, err := m.Resolve("CV")
	require.NoError(t, err)
	assert.Equal(t, domain.Sink, cv.Direction())
	assert.Equal(t, domain.Endpoint{Node: "VCA-2/gain", Param: "gain"}, cv.Endpoint())

	in, err := m.Resolve("IN")
	require.NoError(t, err)
	assert.Equal(t, domain.Endpoint{Node: "VCA-2/gain"}, in.Endpoint())

	outJack, err := m.Resolve("OUT")
	require.NoError(t, err)
	assert.Equal(t, domain.Source, outJack.Direction())
}

func TestNew_InstancesDoNotShareEndpoints(t *testing.T) {
	a, err := modules.New("VCO", "VCO-1")
	require.NoError(t, err)
	b, err := modules.New("VCO", "VCO-2")
	require.NoError(t, err)

	outA, _ := a.Resolve("OUT")
	outB, _ := b.Resolve("OUT")
	assert.NotEqual(t, outA.Endpoint(), outB.Endpoint())
	assert.NotEqual(t, outA.ID(), outB.ID())
}

func TestNew_Knobs(t *testing.T) {
	m, err := modules.New("ADSR", "")
	require.NoError(t, err)

	knobs := m.Knobs()
	require.Len(t, knobs, 4)
	assert.Equal(t, "A", knobs[0].Label)
	assert.True(t, knobs[0].Target.IsZero(), "envelope times are module-internal")

	o, err := modules.New("OUTPUT", "")
	require.NoError(t, err)
	vol := o.Knobs()[0]
	assert.Equal(t, 0.5, vol.Value)
	assert.Equal(t, domain.Endpoint{Node: "OUTPUT/master", Param: "gain"}, vol.Target)
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := modules.New("THEREMIN", "")
	assert.True(t, errors.Is(err, domain.ErrUnknownModuleKind))
}
