package flock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/flockbeat/internal/core/systems/physics"
)

func TestApplyBeatToggles(t *testing.T) {
	p := DefaultParams()
	require.False(t, p.IsExcited())
	assert.Equal(t, Motion{CollisionDistance: 1, MaxVelocity: 1}, p.Motion())

	m := p.ApplyBeat()
	assert.True(t, p.IsExcited())
	assert.Equal(t, Motion{CollisionDistance: 2, MaxVelocity: 1.5}, m)
	assert.Equal(t, 2.0, p.CollisionDistance)
	assert.Equal(t, 1.5, p.MaxVelocity)

	p.ApplyBeat()
	assert.False(t, p.IsExcited())
	assert.Equal(t, p.Base, p.Motion())

	p.ApplyBeat()
	p.Reset()
	assert.Equal(t, p.Base, p.Motion())
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	var nilParams *Params
	assert.ErrorIs(t, nilParams.Validate(), ErrInvalidParams)

	cases := map[string]func(p *Params){
		"flat frustum":     func(p *Params) { p.Frustum.Top = p.Frustum.Base },
		"no attraction":    func(p *Params) { p.AttractDistance = 0 },
		"zero max speed":   func(p *Params) { p.MaxVelocity = 0 },
		"negative sit":     func(p *Params) { p.SitDistance = -1 },
		"step timing":      func(p *Params) { p.StepTiming = 0 },
		"negative size":    func(p *Params) { p.Size = -3 },
		"bad line spacing": func(p *Params) { p.Lines.Spacing = 0 },
	}
	for name, mutate := range cases {
		p := DefaultParams()
		mutate(p)
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams, name)
	}
}

func TestFrustumGeometry(t *testing.T) {
	f := DefaultParams().Frustum
	assert.InDelta(t, 5.0, f.HalfWidthAt(5), 1e-12)
	assert.InDelta(t, 50.0, f.HalfWidthAt(50), 1e-12)
	assert.InDelta(t, 20.0, f.HalfWidthAt(20), 1e-12)

	assert.True(t, f.Contains(physics.P3(0, 0, 25)))
	assert.False(t, f.Contains(physics.P3(30, 0, 25)))
	assert.False(t, f.Contains(physics.P3(0, 0, 51)))

	assert.Equal(t, physics.Point3{}, f.WallPush(physics.P3(0, 0, 25), 4))

	top := f.WallPush(physics.P3(0, 0, 48), 4)
	assert.InDelta(t, -2.0, top.Z, 1e-12)

	side := f.WallPush(physics.P3(19, -19, 20), 4)
	assert.InDelta(t, -3.0, side.X, 1e-12)
	assert.InDelta(t, 3.0, side.Y, 1e-12)
}

func TestBoundaryPointOnWalls(t *testing.T) {
	f := DefaultParams().Frustum
	rng := NewRand("walls")
	for i := 0; i < 200; i++ {
		p := f.BoundaryPoint(rng)
		require.GreaterOrEqual(t, p.Z, f.Base)
		require.LessOrEqual(t, p.Z, f.Top)
		w := f.HalfWidthAt(p.Z)
		onX := almost(abs(p.X), w)
		onY := almost(abs(p.Y), w)
		require.True(t, onX || onY, "point %+v not on a wall (w=%v)", p, w)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func almost(a, b float64) bool { return abs(a-b) < 1e-9 }
