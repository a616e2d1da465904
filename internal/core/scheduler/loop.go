// Package scheduler runs periodic tasks on a single goroutine.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/flockbeat/internal/core/observability/log"
	"github.com/zeusync/flockbeat/pkg/sequence"
)

var _ Scheduler = (*Loop)(nil)

// Task is a handle to a scheduled callback.
type Task struct {
	id        uint64
	name      string
	period    time.Duration
	fn        func()
	next      time.Time
	runs      atomic.Uint64
	cancelled atomic.Bool
}

func (t *Task) Name() string          { return t.name }
func (t *Task) Period() time.Duration { return t.period }
func (t *Task) Runs() uint64          { return t.runs.Load() }
func (t *Task) Active() bool          { return !t.cancelled.Load() }

// Cancel stops the task. It may be called from inside the task itself.
func (t *Task) Cancel() { t.cancelled.Store(true) }

// Loop orders tasks by deadline and runs the due ones on whichever
// goroutine calls Tick or Run.
type Loop struct {
	mu      sync.Mutex
	queue   *sequence.PriorityQueue[*Task]
	clock   Clock
	log     log.Log
	seq     uint64
	wake    chan struct{}
	running atomic.Bool
}

type Option func(*Loop)

func WithClock(c Clock) Option {
	return func(l *Loop) { l.clock = c }
}

func WithLogger(lg log.Log) Option {
	return func(l *Loop) { l.log = lg }
}

func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		queue: sequence.NewPriorityQueue(func(a, b *Task) bool {
			if a.next.Equal(b.next) {
				return a.id < b.id
			}
			return a.next.Before(b.next)
		}),
		clock: SystemClock,
		wake:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = log.Nop()
	}
	l.log = l.log.With(log.String("component", "scheduler"))
	return l
}

// Schedule registers fn to run every period, first one period from now.
func (l *Loop) Schedule(name string, period time.Duration, fn func()) (*Task, error) {
	if period <= 0 {
		return nil, fmt.Errorf("schedule %q: %w: %v", name, ErrInvalidPeriod, period)
	}
	l.mu.Lock()
	l.seq++
	t := &Task{
		id:     l.seq,
		name:   name,
		period: period,
		fn:     fn,
		next:   l.clock.Now().Add(period),
	}
	l.queue.Enqueue(t)
	l.mu.Unlock()

	l.log.Debug("task scheduled", log.String("task", name), log.Duration("period", period))
	l.signal()
	return t, nil
}

// Cancel stops task; a nil task is ignored. Cancelled tasks are dropped
// from the queue the next time they come due.
func (l *Loop) Cancel(task *Task) {
	if task == nil {
		return
	}
	task.Cancel()
	l.signal()
}

// Pending counts queued tasks, cancelled ones included until they are dropped.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.Len()
}

// Tick runs every task due at now, earliest deadline first, and returns
// how many callbacks ran. A task that fell several periods behind runs
// once and is rescheduled one period after now.
func (l *Loop) Tick(now time.Time) int {
	ran := 0
	for {
		t, ok := l.popDue(now)
		if !ok {
			return ran
		}
		if t.cancelled.Load() {
			continue
		}
		l.invoke(t)
		ran++
		if t.cancelled.Load() {
			continue
		}
		t.next = t.next.Add(t.period)
		if !t.next.After(now) {
			t.next = now.Add(t.period)
		}
		l.mu.Lock()
		l.queue.Enqueue(t)
		l.mu.Unlock()
	}
}

func (l *Loop) popDue(now time.Time) (*Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.queue.Peek()
	if !ok || t.next.After(now) {
		return nil, false
	}
	l.queue.Dequeue()
	return t, true
}

func (l *Loop) invoke(t *Task) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("task panicked",
				log.String("task", t.name),
				log.Any("panic", r),
			)
		}
	}()
	t.runs.Add(1)
	t.fn()
}

// Run drives the loop until ctx is done. Only one Run may be active.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	l.log.Info("scheduler loop started")
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		now := l.clock.Now()
		l.Tick(now)

		wait := time.Hour
		l.mu.Lock()
		if t, ok := l.queue.Peek(); ok {
			wait = t.next.Sub(now)
		}
		l.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			l.log.Info("scheduler loop stopped")
			return ctx.Err()
		case <-timer.C:
		case <-l.wake:
		}
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
