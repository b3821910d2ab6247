package ports

import "github.com/TaroNakasendo/modularsynth/pkg/domain"

// Positioner resolves the on-screen position of a jack.
// It is only consulted for presentation, never for correctness decisions.
type Positioner interface {
	PositionOf(j *domain.Jack) domain.Point
}

// PositionFunc adapts a function to the Positioner interface.
type PositionFunc func(j *domain.Jack) domain.Point

// PositionOf calls f(j).
func (f PositionFunc) PositionOf(j *domain.Jack) domain.Point {
	return f(j)
}
