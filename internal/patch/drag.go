package patch

import (
	"context"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/ports"
)

// Patcher is the subset of Graph the drag controller mutates.
type Patcher interface {
	Connect(ctx context.Context, a, b *domain.Jack) (*domain.Cable, error)
	DisconnectAll(ctx context.Context, jack *domain.Jack) []domain.Cable
}

// DragController is the gesture state machine: Idle -> Armed -> Idle.
// At most one drag session exists at a time.
type DragController struct {
	patcher   Patcher
	positions ports.Positioner
	threshold float64
	session   *domain.DragSession
}

// NewDragController creates an idle controller.
// A threshold <= 0 selects domain.DefaultClickThreshold.
func NewDragController(patcher Patcher, positions ports.Positioner, threshold float64) *DragController {
	if threshold <= 0 {
		threshold = domain.DefaultClickThreshold
	}
	if positions == nil {
		positions = ports.PositionFunc(func(*domain.Jack) domain.Point { return domain.Point{} })
	}
	return &DragController{
		patcher:   patcher,
		positions: positions,
		threshold: threshold,
	}
}

// Armed reports whether a gesture is in progress.
func (d *DragController) Armed() bool {
	return d.session != nil
}

// Session returns a copy of the current drag session.
func (d *DragController) Session() (domain.DragSession, bool) {
	if d.session == nil {
		return domain.DragSession{}, false
	}
	return *d.session, true
}

// Threshold returns the click-vs-drag distance.
func (d *DragController) Threshold() float64 {
	return d.threshold
}

// Press starts a gesture on jack. It is ignored (returns false) while a
// gesture is already in progress or when jack is nil.
func (d *DragController) Press(jack *domain.Jack, at domain.Point) bool {
	if d.session != nil || jack == nil {
		return false
	}
	d.session = &domain.DragSession{
		Origin:          jack,
		PressPosition:   at,
		CurrentPosition: d.positions.PositionOf(jack),
	}
	return true
}

// Move tracks the pointer. It never mutates the graph.
func (d *DragController) Move(to domain.Point) {
	if d.session == nil {
		return
	}
	d.session.CurrentPosition = to
}

// Release resolves the gesture and returns to Idle.
//
// A release closer than the threshold to the press point is a click and
// disconnects the origin jack, whatever lies under the pointer. A longer drag
// onto a jack of the opposite direction attempts a connection. Anything else
// is abandoned.
func (d *DragController) Release(ctx context.Context, at domain.Point, target *domain.Jack) (domain.Outcome, error) {
	if d.session == nil {
		return domain.Outcome{Resolution: domain.ResolutionIgnored}, nil
	}
	s := *d.session
	d.session = nil

	if s.PressPosition.Distance(at) < d.threshold {
		removed := d.patcher.DisconnectAll(ctx, s.Origin)
		return domain.Outcome{Resolution: domain.ResolutionDisconnect, Removed: removed}, nil
	}

	if target != nil && target.ID() != s.Origin.ID() && target.Direction() != s.Origin.Direction() {
		cable, err := d.patcher.Connect(ctx, s.Origin, target)
		return domain.Outcome{Resolution: domain.ResolutionConnect, Cable: cable}, err
	}

	return domain.Outcome{Resolution: domain.ResolutionAbandoned}, nil
}

// Cancel discards the current gesture without mutating the graph.
func (d *DragController) Cancel() {
	d.session = nil
}

// Path returns what a renderer should draw for the gesture in progress.
func (d *DragController) Path() (domain.DragPath, bool) {
	if d.session == nil {
		return domain.DragPath{}, false
	}
	return domain.DragPath{
		Origin: d.session.Origin.QualifiedName(),
		From:   d.positions.PositionOf(d.session.Origin),
		To:     d.session.CurrentPosition,
		Color:  domain.DragColor,
	}, true
}
