// Package gaze turns the flock's projected centroid into eye positions for
// the cat watching it.
package gaze

import (
	"fmt"

	"github.com/zeusync/flockbeat/internal/core/flock"
	"github.com/zeusync/flockbeat/internal/core/systems/physics"
)

// Projection maps world (x, y, z) onto the canvas with a pinhole camera at
// the origin looking down +z.
type Projection struct {
	Scale   float64 `yaml:"scale" toml:"scale"`
	OffsetX float64 `yaml:"offset_x" toml:"offset_x"`
	OffsetY float64 `yaml:"offset_y" toml:"offset_y"`
}

// Project returns canvas coordinates; ok is false for points at or behind
// the camera.
func (p Projection) Project(pt physics.Point3) (x, y float64, ok bool) {
	if pt.Z <= 0 {
		return 0, 0, false
	}
	return p.Scale*pt.X/pt.Z + p.OffsetX, p.Scale*pt.Y/pt.Z + p.OffsetY, true
}

// bodyRadius gives 62.5/z pixels at the default scale.
const bodyRadius = 62.5 / 225

// Radius is the projected boid radius at depth z.
func (p Projection) Radius(z float64) float64 {
	if z <= 0 {
		return 0
	}
	return p.Scale * bodyRadius / z
}

type Size struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

type Rect struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

type Config struct {
	Projection  Projection `yaml:"projection" toml:"projection"`
	Canvas      Size       `yaml:"canvas" toml:"canvas"`
	Image       Rect       `yaml:"image" toml:"image"`
	BlinkFrames int        `yaml:"blink_frames" toml:"blink_frames"`
}

func DefaultConfig() Config {
	return Config{
		Projection:  Projection{Scale: 225, OffsetX: 300, OffsetY: 300},
		Canvas:      Size{Width: 600, Height: 450},
		Image:       Rect{X: 0, Y: 300, Width: 200, Height: 150},
		BlinkFrames: 6,
	}
}

func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("gaze canvas must have a positive size, got %vx%v", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Projection.Scale <= 0 {
		return fmt.Errorf("gaze projection scale must be positive, got %v", c.Projection.Scale)
	}
	if c.BlinkFrames < 2 {
		return fmt.Errorf("gaze blink needs at least 2 frames, got %d", c.BlinkFrames)
	}
	return nil
}

type Point2 struct {
	X, Y float64
}

// Focus is the mean projected boid position and its ratio to the canvas.
type Focus struct {
	X, Y           float64
	XRatio, YRatio float64
	Count          int
}

// Eyes is what the renderer draws over the cat image.
type Eyes struct {
	Focus Focus
	Left  Point2
	Right Point2
	Lid   float64 // 1 open, 0 shut
}

// Tracker keeps the last focus so the eyes hold still when nothing is visible.
type Tracker struct {
	cfg   Config
	last  Focus
	blink *Blink
}

func NewTracker(cfg Config) *Tracker {
	t := &Tracker{cfg: cfg}
	t.last = Focus{
		X:      cfg.Canvas.Width / 2,
		Y:      cfg.Canvas.Height / 2,
		XRatio: 0.5,
		YRatio: 0.5,
	}
	return t
}

func (t *Tracker) Config() Config { return t.cfg }

// Focus averages the projected boid positions. Boids at or behind the
// camera plane are skipped; ok is false when none remain.
func (t *Tracker) Focus(boids []flock.BoidView) (Focus, bool) {
	var f Focus
	for _, b := range boids {
		x, y, ok := t.cfg.Projection.Project(b.Position)
		if !ok {
			continue
		}
		f.X += x
		f.Y += y
		f.Count++
	}
	if f.Count == 0 {
		return Focus{}, false
	}
	f.X /= float64(f.Count)
	f.Y /= float64(f.Count)
	f.XRatio = f.X / t.cfg.Canvas.Width
	f.YRatio = f.Y / t.cfg.Canvas.Height
	return f, true
}

// Eyes places both pupils inside the cat image, sliding them right as the
// focus moves right.
func (t *Tracker) Eyes(f Focus) Eyes {
	img := t.cfg.Image
	shift := img.Width * 0.19 * f.XRatio
	e := Eyes{
		Focus: f,
		Left:  Point2{X: img.X + img.Width*0.30 + shift, Y: img.Y + img.Height*0.66},
		Right: Point2{X: img.X + img.Width*0.69 + shift, Y: img.Y + img.Height*0.64},
		Lid:   1,
	}
	if t.blink != nil {
		e.Lid = t.blink.Lid()
	}
	return e
}

// Update recomputes the eyes for the current flock.
func (t *Tracker) Update(boids []flock.BoidView) Eyes {
	if f, ok := t.Focus(boids); ok {
		t.last = f
	}
	return t.Eyes(t.last)
}

// Blink starts a blink unless one is running and returns it.
func (t *Tracker) Blink() *Blink {
	if t.blink == nil || t.blink.Done() {
		t.blink = NewBlink(t.cfg.BlinkFrames)
	}
	return t.blink
}

// Blinking reports whether a blink is in progress.
func (t *Tracker) Blinking() bool {
	return t.blink != nil && !t.blink.Done()
}
