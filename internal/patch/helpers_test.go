package patch_test

import (
	"testing"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

type fixture struct {
	out  *domain.Jack // A.OUT (source)
	out2 *domain.Jack // A.AUX (source)
	in   *domain.Jack // B.IN (sink)
	cv   *domain.Jack // B.CV (sink, parameter input)
	in2  *domain.Jack // C.IN2 (sink)
	bOut *domain.Jack // B.OUT (source)
}

func declare(t *testing.T, m *domain.Module, name string, dir domain.Direction, ep domain.Endpoint) *domain.Jack {
	t.Helper()
	j, err := m.DeclarePort(name, dir, ep)
	if err != nil {
		t.Fatalf("DeclarePort(%s) failed: %v", name, err)
	}
	return j
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	a := domain.NewModule("OSC", "A")
	b := domain.NewModule("AMP", "B")
	c := domain.NewModule("AMP", "C")

	return fixture{
		out:  declare(t, a, "OUT", domain.Source, domain.Endpoint{Node: "A/osc"}),
		out2: declare(t, a, "AUX", domain.Source, domain.Endpoint{Node: "A/aux"}),
		in:   declare(t, b, "IN", domain.Sink, domain.Endpoint{Node: "B/gain"}),
		cv:   declare(t, b, "CV", domain.Sink, domain.Endpoint{Node: "B/gain", Param: "gain"}),
		bOut: declare(t, b, "OUT", domain.Source, domain.Endpoint{Node: "B/gain"}),
		in2:  declare(t, c, "IN2", domain.Sink, domain.Endpoint{Node: "C/gain"}),
	}
}
