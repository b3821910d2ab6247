package patch

import (
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorSource returns the color for a new cable.
type ColorSource func() string

// RandomHue picks a random hue at 70% saturation and 50% lightness.
func RandomHue() ColorSource {
	return func() string {
		return colorful.Hsl(rand.Float64()*360, 0.7, 0.5).Hex()
	}
}

// HueSequence cycles through evenly spaced hues. Useful when output must be reproducible.
func HueSequence(steps int) ColorSource {
	if steps <= 0 {
		steps = 12
	}
	i := 0
	return func() string {
		h := float64(i%steps) * 360 / float64(steps)
		i++
		return colorful.Hsl(h, 0.7, 0.5).Hex()
	}
}
