package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	a := P3(1, 2, 3)
	b := P3(4, -1, 0.5)

	assert.Equal(t, P3(5, 1, 3.5), Add(a, b))
	assert.Equal(t, P3(-3, 3, 2.5), Sub(a, b))
	assert.Equal(t, P3(2, 4, 6), Scale(a, 2))

	// value ops leave operands alone
	assert.Equal(t, P3(1, 2, 3), a)
}

func TestInPlace(t *testing.T) {
	p := P3(1, 1, 1)
	p.AddInPlace(P3(1, 2, 3))
	require.Equal(t, P3(2, 3, 4), p)

	p.SubInPlace(P3(2, 2, 2))
	require.Equal(t, P3(0, 1, 2), p)

	p.ScaleInPlace(-0.5)
	require.Equal(t, P3(0, -0.5, -1), p)
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(P3(0, 3, 4), Origin), 1e-12)
	assert.InDelta(t, math.Sqrt(3), Magnitude(P3(1, 1, 1)), 1e-12)
	assert.Equal(t, 0.0, Distance(P3(7, 7, 7), P3(7, 7, 7)))

	assert.True(t, IsNear(P3(0, 0, 0), P3(0, 3, 4), 5))
	assert.False(t, IsNear(P3(0, 0, 0), P3(0, 3, 4), 4.999))
}

func TestDropXAndNormalize(t *testing.T) {
	assert.Equal(t, P3(0, 2, 3), DropX(P3(9, 2, 3)))

	n := Normalize(P3(0, 3, 4))
	assert.InDelta(t, 1.0, Magnitude(n), 1e-12)
	assert.InDelta(t, 0.6, n.Y, 1e-12)

	assert.Equal(t, Point3{}, Normalize(Point3{}))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(P3(1, 2, 3)))
	assert.False(t, Finite(P3(math.NaN(), 0, 0)))
	assert.False(t, Finite(P3(0, math.Inf(-1), 0)))
}
