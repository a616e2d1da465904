package flock

import (
	"fmt"

	"github.com/zeusync/flockbeat/internal/core/systems/physics"
)

// PowerLine is a fixed horizontal line running along x at (y, z).
type PowerLine struct {
	Position physics.Point3
}

func NewPowerLine(y, z float64) PowerLine {
	return PowerLine{Position: physics.P3(0, y, z)}
}

func (l PowerLine) Y() float64 { return l.Position.Y }
func (l PowerLine) Z() float64 { return l.Position.Z }

// Distance is the distance from p to the line, measured in the (y, z) plane.
func (l PowerLine) Distance(p physics.Point3) float64 {
	return physics.Distance(physics.DropX(p), l.Position)
}

// DirectionalVelocity is the rate at which a point at p moving with v closes
// on the line: positive when approaching, negative when receding. A point on
// the line reports its full (y, z) speed as receding.
func (l PowerLine) DirectionalVelocity(p, v physics.Point3) float64 {
	d := l.Distance(p)
	if d > 0 {
		return ((l.Position.Y-p.Y)*v.Y + (l.Position.Z-p.Z)*v.Z) / d
	}
	return -physics.Magnitude(physics.DropX(v))
}

// Layout describes Count parallel lines at height Z, starting at Y and
// Spacing apart.
type Layout struct {
	Count   int     `yaml:"count" toml:"count"`
	Y       float64 `yaml:"y" toml:"y"`
	Z       float64 `yaml:"z" toml:"z"`
	Spacing float64 `yaml:"spacing" toml:"spacing"`
}

func (l Layout) Validate() error {
	if l.Count < 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidLayout, l.Count)
	}
	if l.Count > 1 && l.Spacing <= 0 {
		return fmt.Errorf("%w: spacing must be positive for %d lines", ErrInvalidLayout, l.Count)
	}
	return nil
}

// Build creates the lines described by the layout.
func (l Layout) Build() []PowerLine {
	lines := make([]PowerLine, 0, max(l.Count, 0))
	for i := 0; i < l.Count; i++ {
		lines = append(lines, NewPowerLine(l.Y+float64(i)*l.Spacing, l.Z))
	}
	return lines
}
