package controller

import (
	"github.com/zeusync/flockbeat/internal/core/flock"
	"github.com/zeusync/flockbeat/internal/core/gaze"
)

// Renderer draws what the controller hands it. Both methods are called on
// the scheduler goroutine and must not block.
type Renderer interface {
	DrawFlock(snapshot flock.Snapshot)
	DrawGaze(eyes gaze.Eyes)
}

// NopRenderer discards every frame; used when running headless.
type NopRenderer struct{}

func (NopRenderer) DrawFlock(flock.Snapshot) {}
func (NopRenderer) DrawGaze(gaze.Eyes)       {}
