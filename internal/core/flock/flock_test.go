package flock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/flockbeat/internal/core/systems/physics"
)

func newTestFlock(t *testing.T, seed string, opts ...Option) *Flock {
	t.Helper()
	opts = append([]Option{WithRand(NewRand(seed))}, opts...)
	f, err := New(DefaultParams(), opts...)
	require.NoError(t, err)
	return f
}

func TestEmptyStepOnlyRenders(t *testing.T) {
	var frames []Snapshot
	f := newTestFlock(t, "empty", WithRenderer(func(s Snapshot) { frames = append(frames, s) }))

	require.NotPanics(t, f.Step)

	require.Len(t, frames, 1)
	assert.NotNil(t, frames[0].Boids)
	assert.Empty(t, frames[0].Boids)
	assert.NotNil(t, frames[0].Lines)
	assert.Empty(t, frames[0].Lines)
	assert.Equal(t, DefaultParams().Motion(), f.Params().Motion())
}

func TestSpeedNeverExceedsMaxVelocity(t *testing.T) {
	f := newTestFlock(t, "clamp")
	p := f.Params()
	require.NoError(t, f.Initialize(60, p.Lines))

	for tick := 0; tick < 400; tick++ {
		if tick%50 == 0 {
			p.ApplyBeat()
		}
		f.Step()
		for i := 0; i < f.Len(); i++ {
			b := f.Boid(i)
			require.True(t, physics.Finite(b.Position), "tick %d boid %d position %+v", tick, i, b.Position)
			require.LessOrEqual(t, physics.Magnitude(b.Velocity), p.MaxVelocity+1e-9,
				"tick %d boid %d", tick, i)
		}
	}
}

func TestStatsCountPerchedBoids(t *testing.T) {
	f := newTestFlock(t, "perch")
	require.NoError(t, f.Initialize(0, f.Params().Lines))
	lander := NewBoid(physics.P3(2, 5.3, 20))
	lander.Velocity = physics.P3(0, -0.05, 0)
	f.Add(lander)
	f.Add(NewBoid(physics.P3(0, -10, 35)))

	f.Step()

	assert.Equal(t, Stats{Tick: 1, Flying: 1, Perched: 1}, f.Stats())
	line, ok := f.Boid(0).Perch()
	require.True(t, ok)
	assert.Equal(t, 0, line)
}

func TestInitializePlacesBoidsOnWalls(t *testing.T) {
	f := newTestFlock(t, "init")
	p := f.Params()
	require.NoError(t, f.Initialize(25, p.Lines))

	require.Equal(t, 25, f.Len())
	require.Len(t, f.Lines(), p.Lines.Count)
	for i := 0; i < f.Len(); i++ {
		b := f.Boid(i)
		assert.True(t, b.IsFlying())
		assert.Equal(t, physics.Point3{}, b.Velocity)
		w := p.Frustum.HalfWidthAt(b.Position.Z)
		assert.True(t, almost(abs(b.Position.X), w) || almost(abs(b.Position.Y), w))
	}
	assert.Equal(t, Stats{Flying: 25}, f.Stats())
}

func TestInitializeRejectsBadInput(t *testing.T) {
	f := newTestFlock(t, "bad")
	assert.ErrorIs(t, f.Initialize(-1, f.Params().Lines), ErrNegativeCount)
	assert.ErrorIs(t, f.Initialize(1, Layout{Count: -2}), ErrInvalidLayout)

	p := DefaultParams()
	p.AttractDistance = 0
	_, err := New(p)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() Snapshot {
		f := newTestFlock(t, "replay")
		require.NoError(t, f.Initialize(30, f.Params().Lines))
		for i := 0; i < 100; i++ {
			f.Step()
		}
		return f.Snapshot()
	}
	assert.Equal(t, run(), run())
}

func TestSnapshotIsACopy(t *testing.T) {
	f := newTestFlock(t, "copy")
	f.Add(NewBoid(physics.P3(0, 0, 25)))
	f.AddLine(NewPowerLine(5, 20))

	s := f.Snapshot()
	s.Boids[0].Position.X = 99
	s.Lines[0].Position.Y = 99

	assert.Equal(t, 0.0, f.Boid(0).Position.X)
	assert.Equal(t, 5.0, f.Lines()[0].Y())
}

func TestDepthSortedFarthestFirst(t *testing.T) {
	s := Snapshot{Boids: []BoidView{
		{Index: 0, Position: physics.P3(0, 0, 10)},
		{Index: 1, Position: physics.P3(0, 0, 40)},
		{Index: 2, Position: physics.P3(0, 0, 25)},
	}}
	sorted := s.DepthSorted()
	assert.Equal(t, []int{1, 2, 0}, []int{sorted[0].Index, sorted[1].Index, sorted[2].Index})
	assert.Equal(t, 0, s.Boids[0].Index, "arena order untouched")
}

func TestStepAdvancesTick(t *testing.T) {
	var last Snapshot
	f := newTestFlock(t, "tick", WithRenderer(func(s Snapshot) { last = s }))
	f.Step()
	f.Step()
	assert.Equal(t, uint64(2), f.Tick())
	assert.Equal(t, uint64(2), last.Tick)
}
