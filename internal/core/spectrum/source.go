// Package spectrum produces frequency-magnitude snapshots for the beat
// detector, either from a scripted amplitude pattern or by analysing a
// beep audio stream.
package spectrum

import (
	"errors"
	"fmt"
)

// DefaultBins matches the low end of a 1024-point analyser; the detector
// only reads bins 1..5.
const DefaultBins = 32

var ErrEmptyPattern = errors.New("spectrum pattern is empty")

// Source yields one magnitude snapshot per call. The returned slice is
// owned by the source and is only valid until the next call.
type Source interface {
	Sample() []uint8
}

// Script replays a fixed list of low-band amplitudes, one per sample.
type Script struct {
	pattern []uint8
	bins    []uint8
	pos     int
	loop    bool
}

// NewScript builds a script emitting nbins bins per sample. When loop is
// false the script yields silence after the last amplitude.
func NewScript(pattern []uint8, nbins int, loop bool) (*Script, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	if nbins < 2 {
		return nil, fmt.Errorf("spectrum script needs at least 2 bins, got %d", nbins)
	}
	return &Script{
		pattern: append([]uint8(nil), pattern...),
		bins:    make([]uint8, nbins),
		loop:    loop,
	}, nil
}

func (s *Script) Sample() []uint8 {
	var amp uint8
	if s.pos < len(s.pattern) {
		amp = s.pattern[s.pos]
		s.pos++
		if s.pos == len(s.pattern) && s.loop {
			s.pos = 0
		}
	}
	clear(s.bins)
	for i := 1; i <= 5 && i < len(s.bins); i++ {
		s.bins[i] = amp
	}
	return s.bins
}

// Done reports whether a non-looping script has run out.
func (s *Script) Done() bool {
	return !s.loop && s.pos >= len(s.pattern)
}
