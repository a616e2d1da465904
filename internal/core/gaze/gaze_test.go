package gaze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/flockbeat/internal/core/flock"
	"github.com/zeusync/flockbeat/internal/core/systems/physics"
)

func view(x, y, z float64) flock.BoidView {
	return flock.BoidView{Position: physics.P3(x, y, z)}
}

func TestProjection(t *testing.T) {
	p := DefaultConfig().Projection
	x, y, ok := p.Project(physics.P3(10, -5, 25))
	require.True(t, ok)
	assert.InDelta(t, 225*10/25.0+300, x, 1e-9)
	assert.InDelta(t, 225*-5/25.0+300, y, 1e-9)

	_, _, ok = p.Project(physics.P3(1, 1, 0))
	assert.False(t, ok)

	assert.InDelta(t, 62.5/25, p.Radius(25), 1e-9)
	assert.Equal(t, 0.0, p.Radius(0))
}

func TestFocusIsMeanOfProjectedPoints(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	f, ok := tr.Focus([]flock.BoidView{view(0, 0, 10), view(20, 0, 10), view(5, 5, -1)})
	require.True(t, ok)
	assert.Equal(t, 2, f.Count)
	assert.InDelta(t, 525.0, f.X, 1e-9) // (300 + 750) / 2
	assert.InDelta(t, 300.0, f.Y, 1e-9)
	assert.InDelta(t, 525.0/600, f.XRatio, 1e-9)
	assert.InDelta(t, 300.0/450, f.YRatio, 1e-9)

	_, ok = tr.Focus(nil)
	assert.False(t, ok)
}

func TestEyesFollowFocus(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	left := tr.Eyes(Focus{XRatio: 0})
	right := tr.Eyes(Focus{XRatio: 1})

	assert.InDelta(t, 60.0, left.Left.X, 1e-9)
	assert.InDelta(t, 138.0, left.Right.X, 1e-9)
	assert.InDelta(t, 300+150*0.66, left.Left.Y, 1e-9)
	assert.InDelta(t, 300+150*0.64, left.Right.Y, 1e-9)
	assert.InDelta(t, 38.0, right.Left.X-left.Left.X, 1e-9)
	assert.Equal(t, 1.0, left.Lid)
}

func TestUpdateKeepsLastFocusWhenEmpty(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	first := tr.Update([]flock.BoidView{view(10, 0, 10)})
	again := tr.Update(nil)
	assert.Equal(t, first, again)
}

func TestBlinkClosesThenOpens(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	b := tr.Blink()
	require.True(t, tr.Blinking())
	assert.Same(t, b, tr.Blink(), "a running blink is reused")

	var lids []float64
	for !b.Advance() {
		lids = append(lids, tr.Eyes(Focus{}).Lid)
	}
	assert.InDeltaSlice(t, []float64{2.0 / 3, 1.0 / 3, 0, 1.0 / 3, 2.0 / 3}, lids, 1e-9)
	assert.False(t, tr.Blinking())
	assert.Equal(t, 1.0, tr.Eyes(Focus{}).Lid)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	c := DefaultConfig()
	c.Canvas.Width = 0
	assert.Error(t, c.Validate())
	c = DefaultConfig()
	c.BlinkFrames = 1
	assert.Error(t, c.Validate())
}
