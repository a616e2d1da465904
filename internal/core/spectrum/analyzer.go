package spectrum

import (
	"math"

	"github.com/gopxl/beep"
)

// Analyzer settings mirror the browser AnalyserNode defaults.
const (
	DefaultFFTSize   = 1024
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// Analyzer turns a beep.Streamer into byte magnitude snapshots: Blackman
// window, DFT of the lowest bins, exponential smoothing over time and a
// linear dB to byte map.
type Analyzer struct {
	streamer  beep.Streamer
	size      int
	smoothing float64
	minDB     float64
	maxDB     float64

	frame    [][2]float64
	mono     []float64
	window   []float64
	smoothed []float64
	out      []uint8

	exhausted bool
	err       error
}

type AnalyzerOption func(*Analyzer)

func WithFFTSize(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n >= 2 {
			a.size = n
		}
	}
}

func WithSmoothing(tc float64) AnalyzerOption {
	return func(a *Analyzer) {
		if tc >= 0 && tc < 1 {
			a.smoothing = tc
		}
	}
}

func WithDecibels(minDB, maxDB float64) AnalyzerOption {
	return func(a *Analyzer) {
		if maxDB > minDB {
			a.minDB, a.maxDB = minDB, maxDB
		}
	}
}

// NewAnalyzer reads from s and reports nbins bins per sample. nbins is
// capped at half the frame size.
func NewAnalyzer(s beep.Streamer, nbins int, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		streamer:  s,
		size:      DefaultFFTSize,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
	}
	for _, opt := range opts {
		opt(a)
	}
	nbins = max(1, min(nbins, a.size/2))

	a.frame = make([][2]float64, a.size)
	a.mono = make([]float64, a.size)
	a.window = blackman(a.size)
	a.smoothed = make([]float64, nbins)
	a.out = make([]uint8, nbins)
	return a
}

func blackman(n int) []float64 {
	const alpha = 0.16
	a0, a1, a2 := (1-alpha)/2, 0.5, alpha/2
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}

// Sample consumes one frame from the stream and returns the smoothed
// magnitudes. Once the stream ends every later frame is silent.
func (a *Analyzer) Sample() []uint8 {
	a.fill()
	for i := range a.mono {
		a.mono[i] = (a.frame[i][0] + a.frame[i][1]) / 2 * a.window[i]
	}

	n := float64(a.size)
	for k := range a.smoothed {
		var re, im float64
		step := -2 * math.Pi * float64(k) / n
		for i, v := range a.mono {
			s, c := math.Sincos(step * float64(i))
			re += v * c
			im += v * s
		}
		mag := math.Hypot(re, im) / n
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		a.out[k] = a.toByte(a.smoothed[k])
	}
	return a.out
}

func (a *Analyzer) fill() {
	clear(a.frame)
	if a.exhausted {
		return
	}
	filled := 0
	for filled < len(a.frame) {
		n, ok := a.streamer.Stream(a.frame[filled:])
		filled += n
		// a streamer that makes no progress is treated as drained
		if !ok || n == 0 {
			a.exhausted = true
			a.err = a.streamer.Err()
			return
		}
	}
}

func (a *Analyzer) toByte(mag float64) uint8 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := 255 * (db - a.minDB) / (a.maxDB - a.minDB)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// Exhausted reports whether the stream has ended.
func (a *Analyzer) Exhausted() bool { return a.exhausted }

// Err returns the error the stream ended with, if any.
func (a *Analyzer) Err() error { return a.err }
