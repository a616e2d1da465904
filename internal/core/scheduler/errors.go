package scheduler

import "errors"

var (
	ErrLoopRunning   = errors.New("scheduler loop is already running")
	ErrInvalidPeriod = errors.New("scheduler period must be positive")
)
