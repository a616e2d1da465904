// Package beat classifies a stream of frequency-magnitude snapshots into
// discrete beat events: a saturated low band followed by a drop.
package beat

import (
	"fmt"

	"github.com/zeusync/flockbeat/internal/core/events/bus"
	"github.com/zeusync/flockbeat/pkg/sequence"
)

const (
	// EventType is the bus event type carrying a Beat payload.
	EventType = "beat"

	// Ceiling is the saturation value of an 8-bit magnitude.
	Ceiling = 255

	// Source identifies the detector as event publisher.
	Source = "beat.detector"

	lowBandFirst = 1 // skip the DC bin
	lowBandLast  = 5
	windowSize   = 2
)

// Beat is the payload published on every declared beat.
type Beat struct {
	Beat      bool   `json:"beat"`
	FirstBeat bool   `json:"firstBeat"`
	Amplitude int    `json:"amplitude"` // newest low-band maximum
	Sequence  uint64 `json:"sequence"`  // 1-based count of declared beats
}

// Publisher is the part of the event bus the detector needs.
type Publisher interface {
	Publish(event bus.Event) error
}

// Detector keeps the last two low-band maxima. It is not safe for
// concurrent use; feed it from one goroutine.
type Detector struct {
	window    *sequence.Window[int]
	firstBeat bool
	declared  uint64
	observed  uint64
	publisher Publisher
}

type Option func(*Detector)

// WithPublisher makes Feed publish declared beats.
func WithPublisher(p Publisher) Option {
	return func(d *Detector) { d.publisher = p }
}

func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		window:    sequence.NewWindow[int](windowSize),
		firstBeat: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// LowBandMax is the maximum of bins 1..5 inclusive. Bins past the end of
// the slice are ignored.
func LowBandMax(bins []uint8) int {
	peak := 0
	for i := lowBandFirst; i <= lowBandLast && i < len(bins); i++ {
		if v := int(bins[i]); v > peak {
			peak = v
		}
	}
	return peak
}

// Observe pushes one snapshot and reports whether it completes a beat.
func (d *Detector) Observe(bins []uint8) (Beat, bool) {
	return d.observeAmplitude(LowBandMax(bins))
}

func (d *Detector) observeAmplitude(amplitude int) (Beat, bool) {
	d.observed++
	d.window.Push(amplitude)
	if !d.window.Full() {
		return Beat{}, false
	}
	oldest, _ := d.window.Oldest()
	newest, _ := d.window.Newest()
	if oldest != Ceiling || newest >= oldest {
		return Beat{}, false
	}

	d.declared++
	b := Beat{
		Beat:      true,
		FirstBeat: d.firstBeat,
		Amplitude: newest,
		Sequence:  d.declared,
	}
	d.firstBeat = false
	return b, true
}

// Feed observes a snapshot and publishes a beat event when one is declared.
func (d *Detector) Feed(bins []uint8) error {
	b, ok := d.Observe(bins)
	if !ok || d.publisher == nil {
		return nil
	}
	if err := d.publisher.Publish(bus.NewEvent(EventType, Source, b)); err != nil {
		return fmt.Errorf("publish beat %d: %w", b.Sequence, err)
	}
	return nil
}

// Declared returns how many beats were declared so far.
func (d *Detector) Declared() uint64 { return d.declared }

// Observed returns how many snapshots were fed so far.
func (d *Detector) Observed() uint64 { return d.observed }

// FromEvent extracts the Beat payload of a bus event.
func FromEvent(e bus.Event) (Beat, bool) {
	if e == nil || e.Type() != EventType {
		return Beat{}, false
	}
	b, ok := e.Data().(Beat)
	return b, ok
}
