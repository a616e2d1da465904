// Package flock simulates birds that swarm inside a pyramidal volume and
// land on power lines.
//
// The Flock owns every boid in a flat arena. A step sweeps the arena once
// in order: each boid reads its siblings' current state, updates only
// itself, and boids later in the sweep see the moves of earlier ones.
// After the sweep the render callback receives a Snapshot.
package flock

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/zeusync/flockbeat/internal/core/observability/log"
	"github.com/zeusync/flockbeat/internal/core/systems/physics"
)

// BoidView is a read-only copy of a boid handed to renderers.
type BoidView struct {
	Index    int
	Position physics.Point3
	Velocity physics.Point3
	Perched  bool
	Line     int // valid when Perched
}

// Snapshot is the state published after every step.
type Snapshot struct {
	Tick  uint64
	Boids []BoidView
	Lines []PowerLine
}

// DepthSorted returns the boids farthest first, the order they are painted in.
func (s Snapshot) DepthSorted() []BoidView {
	out := slices.Clone(s.Boids)
	slices.SortStableFunc(out, func(a, b BoidView) int {
		switch {
		case a.Position.Z > b.Position.Z:
			return -1
		case a.Position.Z < b.Position.Z:
			return 1
		default:
			return 0
		}
	})
	return out
}

// RenderFunc receives the snapshot produced by each step.
type RenderFunc func(Snapshot)

// Stats counts boids by state.
type Stats struct {
	Tick    uint64
	Flying  int
	Perched int
}

type Flock struct {
	params *Params
	boids  []Boid
	lines  []PowerLine
	rng    *rand.Rand
	render RenderFunc
	tick   uint64
	log    log.Log
}

type Option func(*Flock)

func WithRand(rng *rand.Rand) Option {
	return func(f *Flock) { f.rng = rng }
}

func WithRenderer(fn RenderFunc) Option {
	return func(f *Flock) { f.render = fn }
}

func WithLogger(l log.Log) Option {
	return func(f *Flock) { f.log = l }
}

// New creates an empty flock. Call Initialize to populate it.
func New(params *Params, opts ...Option) (*Flock, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	f := &Flock{params: params}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = NewRand("")
	}
	if f.log == nil {
		f.log = log.Nop()
	}
	f.log = f.log.With(log.String("component", "flock"))
	return f, nil
}

// Initialize replaces the arena with count boids on the frustum walls and
// the lines described by layout.
func (f *Flock) Initialize(count int, layout Layout) error {
	if count < 0 {
		return fmt.Errorf("initialize: %w: %d", ErrNegativeCount, count)
	}
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	f.boids = make([]Boid, 0, count)
	for i := 0; i < count; i++ {
		f.boids = append(f.boids, NewBoid(f.params.Frustum.BoundaryPoint(f.rng)))
	}
	f.lines = layout.Build()
	f.tick = 0
	f.log.Info("flock initialized",
		log.Int("boids", len(f.boids)),
		log.Int("lines", len(f.lines)),
	)
	return nil
}

// Add appends a boid to the arena and returns its index.
func (f *Flock) Add(b Boid) int {
	f.boids = append(f.boids, b)
	return len(f.boids) - 1
}

// AddLine appends a power line and returns its index.
func (f *Flock) AddLine(l PowerLine) int {
	f.lines = append(f.lines, l)
	return len(f.lines) - 1
}

// Step advances every boid once, then renders.
func (f *Flock) Step() {
	n := Neighborhood{
		Boids:  f.boids,
		Lines:  f.lines,
		Params: f.params,
		Rand:   f.rng,
	}
	for i := range f.boids {
		n.Self = i
		f.boids[i].Step(n)
	}
	f.tick++
	if f.render != nil {
		f.render(f.Snapshot())
	}
}

// Snapshot copies the current arena.
func (f *Flock) Snapshot() Snapshot {
	s := Snapshot{
		Tick:  f.tick,
		Boids: make([]BoidView, len(f.boids)),
		Lines: slices.Clone(f.lines),
	}
	if s.Lines == nil {
		s.Lines = []PowerLine{}
	}
	for i := range f.boids {
		b := &f.boids[i]
		line, perched := b.Perch()
		s.Boids[i] = BoidView{
			Index:    i,
			Position: b.Position,
			Velocity: b.Velocity,
			Perched:  perched,
			Line:     line,
		}
	}
	return s
}

func (f *Flock) SetRenderer(fn RenderFunc) { f.render = fn }

// Params exposes the live parameters; beat handling mutates them.
func (f *Flock) Params() *Params { return f.params }

// Boid returns a copy of the boid at index i.
func (f *Flock) Boid(i int) Boid { return f.boids[i] }

func (f *Flock) Len() int { return len(f.boids) }

func (f *Flock) Lines() []PowerLine { return slices.Clone(f.lines) }

func (f *Flock) Tick() uint64 { return f.tick }

func (f *Flock) Stats() Stats {
	s := Stats{Tick: f.tick}
	for i := range f.boids {
		if f.boids[i].IsFlying() {
			s.Flying++
		} else {
			s.Perched++
		}
	}
	return s
}
