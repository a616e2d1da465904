package flock

import (
	"math"
	"math/rand"

	"github.com/zeusync/flockbeat/internal/core/systems/physics"
)

// State is either Flying or Perched. The zero Boid is flying.
type State interface {
	isState()
}

// Flying boids follow the flocking forces.
type Flying struct{}

// Perched boids sit on the power line with index Line.
type Perched struct {
	Line int
}

func (Flying) isState()  {}
func (Perched) isState() {}

// Boid is one member of the flock.
type Boid struct {
	Position physics.Point3
	Velocity physics.Point3

	state State
	// ticks since the last spacing adjustment, only counted while perched
	sinceAdjust int
}

func NewBoid(position physics.Point3) Boid {
	return Boid{Position: position, state: Flying{}}
}

func (b Boid) State() State {
	if b.state == nil {
		return Flying{}
	}
	return b.state
}

// Perch returns the line index the boid sits on.
func (b Boid) Perch() (line int, ok bool) {
	p, ok := b.state.(Perched)
	return p.Line, ok
}

func (b Boid) IsFlying() bool {
	_, perched := b.state.(Perched)
	return !perched
}

// Neighborhood lends a boid read access to the flock arena for one step.
// Boids[Self] is the stepping boid; it is the only entry Step mutates.
type Neighborhood struct {
	Self   int
	Boids  []Boid
	Lines  []PowerLine
	Params *Params
	Rand   *rand.Rand
}

// Step advances the boid by one tick.
func (b *Boid) Step(n Neighborhood) {
	switch s := b.State().(type) {
	case Perched:
		b.stepPerched(s.Line, n)
	case Flying:
		b.stepFlying(n)
	}
}

func (b *Boid) stepFlying(n Neighborhood) {
	p := n.Params
	var (
		center     physics.Point3
		avgVel     physics.Point3
		avoid      physics.Point3
		attraction physics.Point3
		damping    = 1.0
		flying     int
		mesmerized bool
	)

	for i, line := range n.Lines {
		distance := line.Distance(b.Position)
		if distance > p.AttractDistance {
			continue
		}
		closing := line.DirectionalVelocity(b.Position, b.Velocity)
		if closing < 0 {
			continue
		}
		attraction.Y += line.Y() - b.Position.Y
		attraction.Z += line.Z() - b.Position.Z
		if ratio := distance / p.AttractDistance; ratio < damping {
			damping = ratio
		}
		if distance < p.SitDistance && closing < p.MinSitVelocity {
			b.land(i, line)
			return
		}
		if distance < p.MesmerizeDistance {
			mesmerized = true
		}
	}

	for i := range n.Boids {
		other := &n.Boids[i]
		if i == n.Self || !other.IsFlying() {
			continue
		}
		if !mesmerized {
			center.AddInPlace(other.Position)
			avgVel.AddInPlace(other.Velocity)
		}
		if physics.IsNear(other.Position, b.Position, p.CollisionDistance) {
			avoid.SubInPlace(physics.Sub(other.Position, b.Position))
		}
		flying++
	}

	if mesmerized || flying == 0 {
		center, avgVel = physics.Point3{}, physics.Point3{}
	} else {
		center = physics.Sub(physics.Scale(center, 1/float64(flying)), b.Position)
		center.ScaleInPlace(p.CenterAttractionWeight)
		avgVel.ScaleInPlace(p.VelocityAttractionWeight / float64(flying))
	}

	avoid.AddInPlace(p.Frustum.WallPush(b.Position, p.WallCollisionDistance))
	avoid.ScaleInPlace(p.CollisionAvoidanceWeight)
	attraction.ScaleInPlace(p.PowerLineAttractionWeight)

	b.Velocity.AddInPlace(center)
	b.Velocity.AddInPlace(avgVel)
	b.Velocity.AddInPlace(avoid)
	b.Velocity.AddInPlace(attraction)

	speed := physics.Magnitude(b.Velocity)
	if damping < 1 && speed > p.DampingSpeed {
		b.Velocity.ScaleInPlace(damping)
		speed *= damping
	}
	if speed > p.MaxVelocity {
		b.Velocity.ScaleInPlace(p.MaxVelocity / speed)
	}
	if !physics.Finite(b.Velocity) {
		b.Velocity = physics.Point3{}
	}

	b.Position.AddInPlace(b.Velocity)
}

func (b *Boid) land(index int, line PowerLine) {
	b.Velocity = physics.Point3{}
	b.Position.Y = line.Y()
	b.Position.Z = line.Z()
	b.state = Perched{Line: index}
	b.sinceAdjust = 0
}

func (b *Boid) stepPerched(line int, n Neighborhood) {
	p := n.Params
	if line < 0 || line >= len(n.Lines) {
		b.launch(randomDirection(n.Rand), p)
		return
	}

	right := p.Frustum.HalfWidthAt(b.Position.Z)
	left := -right
	var influence physics.Point3

	for i := range n.Boids {
		if i == n.Self {
			continue
		}
		other := &n.Boids[i]
		if l, perched := other.Perch(); perched {
			if l != line {
				continue
			}
			x := other.Position.X
			if x < b.Position.X && x > left {
				left = x
			}
			if x > b.Position.X && x < right {
				right = x
			}
		} else if physics.IsNear(b.Position, other.Position, p.SittingInfluenceDistance) {
			influence.AddInPlace(other.Velocity)
		}
	}
	leftGap := b.Position.X - left
	rightGap := right - b.Position.X

	if leftGap < p.MinLineDistance || rightGap < p.MinLineDistance {
		b.launch(randomDirection(n.Rand), p)
		return
	}

	if strength := physics.Magnitude(influence); strength > p.LaunchInfluence {
		b.launch(physics.Scale(influence, 1/strength), p)
		return
	}

	b.sinceAdjust++
	if b.sinceAdjust < p.StepTiming {
		return
	}
	b.balance(leftGap, rightGap, n)
}

// balance nudges a perched boid toward the middle of its gap, or launches it
// when both neighbours crowd it and there is nothing left to balance.
func (b *Boid) balance(leftGap, rightGap float64, n Neighborhood) {
	p := n.Params
	step := p.StepDistance
	switch {
	case leftGap < p.IdealLineDistance && rightGap < p.IdealLineDistance:
		diff := rightGap - leftGap
		switch {
		case diff < -step:
			b.shuffle(-step)
		case diff > step:
			b.shuffle(step)
		case leftGap < p.TolerableLineDistance && rightGap < p.TolerableLineDistance:
			b.launch(randomDirection(n.Rand), p)
		}
	case leftGap < p.IdealLineDistance:
		if leftGap < p.IdealLineDistance-step {
			b.shuffle(step)
		}
	case rightGap < p.IdealLineDistance-step:
		b.shuffle(-step)
	}
}

func (b *Boid) shuffle(dx float64) {
	b.Position.X += dx
	b.sinceAdjust = 0
}

func (b *Boid) launch(direction physics.Point3, p *Params) {
	b.state = Flying{}
	b.sinceAdjust = 0
	b.Velocity = physics.Scale(direction, min(p.LaunchVelocity, p.MaxVelocity))
}

// randomDirection is uniform on the unit circle of the (y, z) plane.
func randomDirection(rng *rand.Rand) physics.Point3 {
	var u float64
	if rng != nil {
		u = rng.Float64()
	} else {
		u = rand.Float64()
	}
	sin, cos := math.Sincos(2 * math.Pi * u)
	return physics.P3(0, sin, cos)
}
