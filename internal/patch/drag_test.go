package patch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/TaroNakasendo/modularsynth/internal/patch"
	"github.com/TaroNakasendo/modularsynth/pkg/adapters/memory"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPatcher struct {
	mock.Mock
}

func (m *mockPatcher) Connect(ctx context.Context, a, b *domain.Jack) (*domain.Cable, error) {
	args := m.Called(ctx, a, b)
	cable, _ := args.Get(0).(*domain.Cable)
	return cable, args.Error(1)
}

func (m *mockPatcher) DisconnectAll(ctx context.Context, jack *domain.Jack) []domain.Cable {
	args := m.Called(ctx, jack)
	cables, _ := args.Get(0).([]domain.Cable)
	return cables
}

func fixedPositions(f fixture) ports.Positioner {
	pos := map[domain.JackID]domain.Point{
		f.out.ID(): {X: 10, Y: 10},
		f.in.ID():  {X: 200, Y: 40},
		f.in2.ID(): {X: 400, Y: 300},
	}
	return ports.PositionFunc(func(j *domain.Jack) domain.Point { return pos[j.ID()] })
}

func TestDragController_Press(t *testing.T) {
	f := newFixture(t)
	d := patch.NewDragController(&mockPatcher{}, fixedPositions(f), 0)

	assert.Equal(t, domain.DefaultClickThreshold, d.Threshold())
	assert.False(t, d.Armed())

	require.True(t, d.Press(f.out, domain.Point{X: 12, Y: 9}))
	s, ok := d.Session()
	require.True(t, ok)
	assert.Equal(t, f.out, s.Origin)
	assert.Equal(t, domain.Point{X: 12, Y: 9}, s.PressPosition)
	assert.Equal(t, domain.Point{X: 10, Y: 10}, s.CurrentPosition, "live end starts at the jack")

	// A second press while armed is ignored.
	assert.False(t, d.Press(f.in, domain.Point{X: 200, Y: 40}))
	s, _ = d.Session()
	assert.Equal(t, f.out, s.Origin)

	assert.False(t, patch.NewDragController(&mockPatcher{}, nil, 0).Press(nil, domain.Point{}))
}

func TestDragController_MoveDoesNotMutate(t *testing.T) {
	f := newFixture(t)
	p := &mockPatcher{}
	d := patch.NewDragController(p, fixedPositions(f), 5)

	d.Move(domain.Point{X: 1, Y: 1}) // idle: no-op
	_, armed := d.Session()
	assert.False(t, armed)

	d.Press(f.out, domain.Point{X: 10, Y: 10})
	d.Move(domain.Point{X: 50, Y: 60})
	d.Move(domain.Point{X: 70, Y: 80})

	path, ok := d.Path()
	require.True(t, ok)
	assert.Equal(t, "A.OUT", path.Origin)
	assert.Equal(t, domain.Point{X: 10, Y: 10}, path.From)
	assert.Equal(t, domain.Point{X: 70, Y: 80}, path.To)
	assert.Equal(t, domain.DragColor, path.Color)

	p.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything, mock.Anything)
	p.AssertNotCalled(t, "DisconnectAll", mock.Anything, mock.Anything)
}

func TestDragController_ClickDisconnects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name   string
		target func(f fixture) *domain.Jack
	}{
		{"Released On Origin", func(f fixture) *domain.Jack { return f.out }},
		{"Released On Nothing", func(f fixture) *domain.Jack { return nil }},
		{"Released On Valid Target", func(f fixture) *domain.Jack { return f.in }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockPatcher{}
			p.On("DisconnectAll", ctx, f.out).Return([]domain.Cable{{Source: f.out, Sink: f.in}}).Once()

			d := patch.NewDragController(p, fixedPositions(f), 5)
			d.Press(f.out, domain.Point{X: 10, Y: 10})
			out, err := d.Release(ctx, domain.Point{X: 11, Y: 11}, tt.target(f))

			require.NoError(t, err)
			assert.Equal(t, domain.ResolutionDisconnect, out.Resolution)
			assert.Len(t, out.Removed, 1)
			assert.False(t, d.Armed())
			p.AssertExpectations(t)
			p.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDragController_DragConnects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := &mockPatcher{}
	want := &domain.Cable{Source: f.out, Sink: f.in2, Color: "#d92626"}
	p.On("Connect", ctx, f.out, f.in2).Return(want, nil).Once()

	d := patch.NewDragController(p, fixedPositions(f), 5)
	d.Press(f.out, domain.Point{X: 10, Y: 10})
	d.Move(domain.Point{X: 400, Y: 300})
	out, err := d.Release(ctx, domain.Point{X: 400, Y: 300}, f.in2)

	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionConnect, out.Resolution)
	assert.Same(t, want, out.Cable)
	p.AssertExpectations(t)
}

func TestDragController_Abandoned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name   string
		target func(f fixture) *domain.Jack
	}{
		{"Empty Space", func(f fixture) *domain.Jack { return nil }},
		{"Same Direction", func(f fixture) *domain.Jack { return f.out2 }},
		{"Back On Origin", func(f fixture) *domain.Jack { return f.out }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockPatcher{}
			d := patch.NewDragController(p, fixedPositions(f), 5)
			d.Press(f.out, domain.Point{X: 10, Y: 10})
			out, err := d.Release(ctx, domain.Point{X: 300, Y: 10}, tt.target(f))

			require.NoError(t, err)
			assert.Equal(t, domain.ResolutionAbandoned, out.Resolution)
			assert.False(t, d.Armed())
			p.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything, mock.Anything)
			p.AssertNotCalled(t, "DisconnectAll", mock.Anything, mock.Anything)
		})
	}
}

func TestDragController_ReleaseWhileIdle(t *testing.T) {
	p := &mockPatcher{}
	d := patch.NewDragController(p, nil, 5)

	out, err := d.Release(context.Background(), domain.Point{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionIgnored, out.Resolution)
}

func TestDragController_ConnectErrorReturnsToIdle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	boom := errors.New("boom")
	p := &mockPatcher{}
	p.On("Connect", ctx, f.in, f.out).Return(nil, boom).Once()

	d := patch.NewDragController(p, fixedPositions(f), 5)
	d.Press(f.in, domain.Point{X: 200, Y: 40})
	out, err := d.Release(ctx, domain.Point{X: 10, Y: 10}, f.out)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.ResolutionConnect, out.Resolution)
	assert.Nil(t, out.Cable)
	assert.False(t, d.Armed())
}

func TestDragController_Cancel(t *testing.T) {
	f := newFixture(t)
	d := patch.NewDragController(&mockPatcher{}, nil, 5)
	d.Press(f.out, domain.Point{})
	d.Cancel()

	_, ok := d.Path()
	assert.False(t, ok)
	assert.True(t, d.Press(f.in, domain.Point{}), "controller accepts a new gesture after cancel")
}

// The literal gesture scenarios, run against a real graph.
func TestDragController_WithGraph(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	engine := memory.NewEngine()
	g := patch.NewGraph(engine)
	d := patch.NewDragController(g, fixedPositions(f), 5)

	// Drag OUT onto C.IN2.
	d.Press(f.out, domain.Point{X: 10, Y: 10})
	d.Move(domain.Point{X: 400, Y: 300})
	out, err := d.Release(ctx, domain.Point{X: 400, Y: 300}, f.in2)
	require.NoError(t, err)
	require.NotNil(t, out.Cable)
	assert.True(t, g.Exists(f.out, f.in2))
	assert.True(t, engine.Connected(f.out.Endpoint(), f.in2.Endpoint()))

	// Drag from the sink side back to OUT: same cable, no duplicate.
	d.Press(f.in2, domain.Point{X: 400, Y: 300})
	_, err = d.Release(ctx, domain.Point{X: 10, Y: 10}, f.out)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 1, engine.MaterializeCalls())

	// Click on OUT at (10,10), release at (11,11) over OUT: unpatch.
	d.Press(f.out, domain.Point{X: 10, Y: 10})
	out, err = d.Release(ctx, domain.Point{X: 11, Y: 11}, f.out)
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionDisconnect, out.Resolution)
	assert.Empty(t, g.CablesTouching(f.out))
	assert.Equal(t, 0, g.Len())

	// Clicking an unpatched jack is harmless.
	d.Press(f.out, domain.Point{X: 10, Y: 10})
	out, err = d.Release(ctx, domain.Point{X: 10, Y: 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionDisconnect, out.Resolution)
	assert.Empty(t, out.Removed)
}
