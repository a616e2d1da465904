package scheduler

import "time"

// Scheduler invokes callbacks at a fixed period until cancelled.
// Callbacks never overlap: the next tick of a task waits for the
// previous invocation to return.
type Scheduler interface {
	Schedule(name string, period time.Duration, fn func()) (*Task, error)
	Cancel(task *Task)
}

// Clock abstracts wall time so tests can drive the loop.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the real wall clock.
var SystemClock Clock = systemClock{}
