package modularsynth

import (
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

// Placer is implemented by positioners that need to learn about modules as
// they are mounted on the rack.
type Placer interface {
	Place(m *domain.Module)
}

// GridLayout places modules left to right, one column each, and stacks their
// jacks top to bottom. It stands in for a real UI when the rack runs headless.
type GridLayout struct {
	Left        float64
	Top         float64
	ModuleWidth float64
	JackSpacing float64

	columns   int
	positions map[domain.JackID]domain.Point
}

// NewGridLayout returns a layout with the rack's default panel geometry.
func NewGridLayout() *GridLayout {
	return &GridLayout{
		Left:        60,
		Top:         200,
		ModuleWidth: 120,
		JackSpacing: 40,
		positions:   make(map[domain.JackID]domain.Point),
	}
}

// Place assigns positions to every jack of m in the next free column.
func (g *GridLayout) Place(m *domain.Module) {
	if g.positions == nil {
		g.positions = make(map[domain.JackID]domain.Point)
	}
	x := g.Left + float64(g.columns)*g.ModuleWidth
	for i, j := range m.Jacks() {
		g.positions[j.ID()] = domain.Point{X: x, Y: g.Top + float64(i)*g.JackSpacing}
	}
	g.columns++
}

// PositionOf returns the center of the jack, or the origin for unknown jacks.
func (g *GridLayout) PositionOf(j *domain.Jack) domain.Point {
	if j == nil {
		return domain.Point{}
	}
	return g.positions[j.ID()]
}

