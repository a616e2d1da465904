// Package controller drives a flock from a spectrum source: it samples the
// source into the beat detector, turns beats into motion changes behind a
// one-per-period gate, and keeps the physics, gaze and render tasks running.
package controller

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/flockbeat/internal/core/beat"
	"github.com/zeusync/flockbeat/internal/core/events/bus"
	"github.com/zeusync/flockbeat/internal/core/flock"
	"github.com/zeusync/flockbeat/internal/core/gaze"
	"github.com/zeusync/flockbeat/internal/core/observability/log"
	"github.com/zeusync/flockbeat/internal/core/scheduler"
	"github.com/zeusync/flockbeat/internal/core/spectrum"
)

type Controller struct {
	sched    scheduler.Scheduler
	flock    *flock.Flock
	detector *beat.Detector
	bus      bus.EventBus
	source   spectrum.Source
	tracker  *gaze.Tracker
	renderer Renderer
	timing   Timing
	log      log.Log
	observer *bus.LogObserver

	// Touched only from scheduled tasks and bus handlers.
	gateOpen bool
	last     flock.Snapshot
	hasLast  bool

	seen    atomic.Uint64
	applied atomic.Uint64

	mu      sync.Mutex
	tasks   []*scheduler.Task
	blink   *scheduler.Task
	sub     bus.Subscription
	runID   string
	running atomic.Bool
}

// New wires the collaborators together. A nil renderer runs headless.
func New(
	sched scheduler.Scheduler,
	f *flock.Flock,
	detector *beat.Detector,
	eventBus bus.EventBus,
	source spectrum.Source,
	tracker *gaze.Tracker,
	renderer Renderer,
	timing Timing,
	logger log.Log,
) (*Controller, error) {
	if err := timing.Validate(); err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if logger == nil {
		logger = log.Nop()
	}
	c := &Controller{
		sched:    sched,
		flock:    f,
		detector: detector,
		bus:      eventBus,
		source:   source,
		tracker:  tracker,
		renderer: renderer,
		timing:   timing,
		log:      logger.With(log.String("component", "controller")),
		observer: bus.NewLogObserver(logger),
	}
	f.SetRenderer(c.onSnapshot)
	return c, nil
}

// Start subscribes to beats and schedules every task.
func (c *Controller) Start() error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.gateOpen = true
	c.runID = uuid.NewString()

	sub, err := c.bus.Subscribe(beat.EventType, c.onBeat)
	if err != nil {
		c.running.Store(false)
		return fmt.Errorf("subscribe to beats: %w", err)
	}
	c.sub = sub
	c.bus.AddObserver(c.observer)

	schedule := []struct {
		name   string
		period time.Duration
		fn     func()
	}{
		{"sample", c.timing.Sample, c.sample},
		{"physics", c.timing.Physics, c.flock.Step},
		{"gaze", c.timing.Gaze, c.look},
		{"gate", c.timing.Gate, c.openGate},
		{"blink", c.timing.BlinkEvery, c.startBlink},
		{"stats", c.timing.Stats, c.logStats},
	}
	for _, s := range schedule {
		if s.period == 0 {
			continue
		}
		t, err := c.sched.Schedule(s.name, s.period, s.fn)
		if err != nil {
			c.stopLocked()
			c.running.Store(false)
			return err
		}
		c.tasks = append(c.tasks, t)
	}

	c.log.Info("controller started",
		log.String("run_id", c.runID),
		log.Int("boids", c.flock.Len()),
		log.Int("lines", len(c.flock.Lines())),
	)
	return nil
}

// Stop cancels every task and the beat subscription. No scheduled work
// has any effect afterwards.
func (c *Controller) Stop() error {
	if !c.running.CompareAndSwap(true, false) {
		return ErrNotRunning
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.log.Info("controller stopped",
		log.String("run_id", c.runID),
		log.Uint64("beats_seen", c.seen.Load()),
		log.Uint64("beats_applied", c.applied.Load()),
	)
	return nil
}

func (c *Controller) stopLocked() {
	for _, t := range c.tasks {
		c.sched.Cancel(t)
	}
	c.tasks = nil
	if c.blink != nil {
		c.sched.Cancel(c.blink)
		c.blink = nil
	}
	if c.sub != nil {
		if err := c.sub.Cancel(); err != nil {
			c.log.Warn("cancel beat subscription", log.Error(err))
		}
		c.sub = nil
	}
	c.bus.RemoveObserver(c.observer)
}

func (c *Controller) Running() bool { return c.running.Load() }

// RunID identifies the current or last run.
func (c *Controller) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// Beats returns how many beats arrived and how many changed the flock.
func (c *Controller) Beats() (seen, applied uint64) {
	return c.seen.Load(), c.applied.Load()
}

func (c *Controller) sample() {
	if err := c.detector.Feed(c.source.Sample()); err != nil {
		c.log.Warn("beat delivery failed", log.Error(err))
	}
}

func (c *Controller) onBeat(e bus.Event) error {
	b, ok := beat.FromEvent(e)
	if !ok {
		return nil
	}
	c.seen.Add(1)
	if b.FirstBeat {
		c.log.Info("first beat", log.Int("amplitude", b.Amplitude))
	}
	if !c.gateOpen {
		return nil
	}
	c.gateOpen = false
	m := c.flock.Params().ApplyBeat()
	c.applied.Add(1)
	c.log.Debug("flock motion changed",
		log.Uint64("beat", b.Sequence),
		log.Float64("collision_distance", m.CollisionDistance),
		log.Float64("max_velocity", m.MaxVelocity),
	)
	return nil
}

func (c *Controller) openGate() { c.gateOpen = true }

func (c *Controller) onSnapshot(s flock.Snapshot) {
	c.last, c.hasLast = s, true
	c.renderer.DrawFlock(s)
}

func (c *Controller) look() {
	if !c.hasLast {
		c.last, c.hasLast = c.flock.Snapshot(), true
	}
	c.renderer.DrawGaze(c.tracker.Update(c.last.Boids))
}

// startBlink runs a lid countdown at the gaze period; the countdown task
// cancels itself when the lid is open again.
func (c *Controller) startBlink() {
	if c.tracker.Blinking() {
		return
	}
	b := c.tracker.Blink()

	var task *scheduler.Task
	task, err := c.sched.Schedule("blink-lid", c.timing.Gaze, func() {
		if b.Advance() {
			c.sched.Cancel(task)
		}
	})
	if err != nil {
		c.log.Warn("schedule blink", log.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running.Load() {
		c.sched.Cancel(task)
		return
	}
	c.blink = task
}

func (c *Controller) logStats() {
	s := c.flock.Stats()
	m := c.flock.Params().Motion()
	bm := c.bus.GetMetrics()
	c.log.Info("flock stats",
		log.Uint64("tick", s.Tick),
		log.Int("flying", s.Flying),
		log.Int("perched", s.Perched),
		log.Bool("excited", c.flock.Params().IsExcited()),
		log.Float64("max_velocity", m.MaxVelocity),
		log.Uint64("beats_seen", c.seen.Load()),
		log.Uint64("events_published", bm.Published),
		log.Uint64("event_errors", bm.Errors),
	)
}
