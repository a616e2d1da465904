package controller

import (
	"fmt"
	"time"
)

// Timing holds the periods of every scheduled task. BlinkEvery and Stats
// may be zero to disable those tasks.
type Timing struct {
	Physics    time.Duration `yaml:"physics" toml:"physics"`
	Gaze       time.Duration `yaml:"gaze" toml:"gaze"`
	Gate       time.Duration `yaml:"gate" toml:"gate"`
	Sample     time.Duration `yaml:"sample" toml:"sample"`
	BlinkEvery time.Duration `yaml:"blink_every" toml:"blink_every"`
	Stats      time.Duration `yaml:"stats" toml:"stats"`
}

func DefaultTiming() Timing {
	return Timing{
		Physics:    50 * time.Millisecond,
		Gaze:       50 * time.Millisecond,
		Gate:       time.Second,
		Sample:     16 * time.Millisecond,
		BlinkEvery: 4 * time.Second,
		Stats:      5 * time.Second,
	}
}

func (t Timing) Validate() error {
	periods := []struct {
		name string
		d    time.Duration
	}{
		{"physics", t.Physics},
		{"gaze", t.Gaze},
		{"gate", t.Gate},
		{"sample", t.Sample},
	}
	for _, p := range periods {
		if p.d <= 0 {
			return fmt.Errorf("%w: %s period must be positive, got %v", ErrInvalidTiming, p.name, p.d)
		}
	}
	if t.BlinkEvery < 0 || t.Stats < 0 {
		return fmt.Errorf("%w: negative blink or stats period", ErrInvalidTiming)
	}
	return nil
}
