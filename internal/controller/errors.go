package controller

import "errors"

var (
	ErrAlreadyRunning = errors.New("controller is already running")
	ErrNotRunning     = errors.New("controller is not running")
	ErrInvalidTiming  = errors.New("invalid controller timing")
)
