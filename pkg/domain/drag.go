package domain

import "math"

// DefaultClickThreshold is the pointer travel under which a release counts as a click.
const DefaultClickThreshold = 5.0

// DragColor is the color of the cable that follows the pointer during a drag.
const DragColor = "#ffffff"

// Point is a position in rack (canvas) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// DragSession is the state of one in-flight patching gesture.
type DragSession struct {
	Origin          *Jack
	PressPosition   Point
	CurrentPosition Point
}

// DragPath is what renderers draw while a gesture is in progress.
type DragPath struct {
	Origin string `json:"origin"`
	From   Point  `json:"from"`
	To     Point  `json:"to"`
	Color  string `json:"color"`
}

// Resolution describes how a gesture ended.
type Resolution string

const (
	// ResolutionIgnored means there was no gesture to resolve.
	ResolutionIgnored Resolution = "ignored"
	// ResolutionAbandoned means the release produced no mutation.
	ResolutionAbandoned Resolution = "abandoned"
	// ResolutionDisconnect means the origin jack was unpatched.
	ResolutionDisconnect Resolution = "disconnect"
	// ResolutionConnect means a connection between origin and target was attempted.
	ResolutionConnect Resolution = "connect"
)

// Outcome is the result of resolving a gesture.
// Cable is nil for connect attempts the graph absorbed as no-ops.
type Outcome struct {
	Resolution Resolution `json:"resolution"`
	Cable      *Cable     `json:"-"`
	Removed    []Cable    `json:"-"`
}
