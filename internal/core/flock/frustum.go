package flock

import (
	"fmt"
	"math/rand"

	"github.com/zeusync/flockbeat/internal/core/systems/physics"
)

// Frustum is the pyramidal containment volume. Its square cross-section
// grows linearly from HalfWidthAtBase at z=Base to HalfWidthAtTop at z=Top.
type Frustum struct {
	Base            float64 `yaml:"base" toml:"base"`
	Top             float64 `yaml:"top" toml:"top"`
	HalfWidthAtBase float64 `yaml:"half_width_at_base" toml:"half_width_at_base"`
	HalfWidthAtTop  float64 `yaml:"half_width_at_top" toml:"half_width_at_top"`
}

func (f Frustum) Validate() error {
	if f.Top <= f.Base {
		return fmt.Errorf("frustum top %v must be above base %v", f.Top, f.Base)
	}
	if f.HalfWidthAtBase < 0 || f.HalfWidthAtTop < 0 {
		return fmt.Errorf("frustum half widths must not be negative")
	}
	return nil
}

// Slope is the half-width gained per unit of z.
func (f Frustum) Slope() float64 {
	return (f.HalfWidthAtTop - f.HalfWidthAtBase) / (f.Top - f.Base)
}

// HalfWidthAt interpolates the half-width at height z.
func (f Frustum) HalfWidthAt(z float64) float64 {
	return f.HalfWidthAtBase + (z-f.Base)*f.Slope()
}

// Contains reports whether p is inside the volume, walls included.
func (f Frustum) Contains(p physics.Point3) bool {
	if p.Z < f.Base || p.Z > f.Top {
		return false
	}
	w := f.HalfWidthAt(p.Z)
	return p.X >= -w && p.X <= w && p.Y >= -w && p.Y <= w
}

// WallPush is the correction steering p away from any wall or cap it is
// within margin of. It is zero deep inside the volume.
func (f Frustum) WallPush(p physics.Point3, margin float64) physics.Point3 {
	var push physics.Point3
	if p.Z > f.Top-margin {
		push.Z += f.Top - margin - p.Z
	}
	if p.Z < f.Base+margin {
		push.Z += f.Base + margin - p.Z
	}
	w := f.HalfWidthAt(p.Z)
	if p.X > w-margin {
		push.X += w - margin - p.X
	}
	if p.X < -w+margin {
		push.X += -w + margin - p.X
	}
	if p.Y > w-margin {
		push.Y += w - margin - p.Y
	}
	if p.Y < -w+margin {
		push.Y += -w + margin - p.Y
	}
	return push
}

// BoundaryPoint picks a random point on one of the four slanted walls.
func (f Frustum) BoundaryPoint(rng *rand.Rand) physics.Point3 {
	z := f.Base + (f.Top-f.Base)*rng.Float64()
	w := f.HalfWidthAt(z)
	along := 2*w*rng.Float64() - w
	switch rng.Intn(4) {
	case 0:
		return physics.P3(along, w, z)
	case 1:
		return physics.P3(along, -w, z)
	case 2:
		return physics.P3(w, along, z)
	default:
		return physics.P3(-w, along, z)
	}
}
