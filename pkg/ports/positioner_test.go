package ports_test

import (
	"testing"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/ports"
)

func TestPositionFunc(t *testing.T) {
	m := domain.NewModule("LFO", "")
	out, err := m.DeclarePort("OUT", domain.Source, domain.Endpoint{Node: "LFO/osc"})
	if err != nil {
		t.Fatalf("DeclarePort failed: %v", err)
	}

	var p ports.Positioner = ports.PositionFunc(func(j *domain.Jack) domain.Point {
		if j.ID() == out.ID() {
			return domain.Point{X: 3, Y: 4}
		}
		return domain.Point{}
	})

	if got := p.PositionOf(out); got != (domain.Point{X: 3, Y: 4}) {
		t.Errorf("PositionOf = %v", got)
	}
}
