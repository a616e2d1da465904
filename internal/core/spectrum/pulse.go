package spectrum

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Pulse is an endless sine that sounds for On and rests for Off, giving
// the analyzer one saturated burst per cycle.
type Pulse struct {
	rate  beep.SampleRate
	freq  float64
	on    int
	cycle int
	pos   int
	phase float64
}

func NewPulse(rate beep.SampleRate, freq float64, on, off time.Duration) *Pulse {
	onN := max(1, rate.N(on))
	return &Pulse{
		rate:  rate,
		freq:  freq,
		on:    onN,
		cycle: onN + max(0, rate.N(off)),
	}
}

func (p *Pulse) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		var v float64
		if p.pos < p.on {
			v = math.Sin(2 * math.Pi * p.phase)
		}
		samples[i][0], samples[i][1] = v, v

		p.phase += p.freq / float64(p.rate)
		p.phase -= math.Floor(p.phase)
		p.pos++
		if p.pos >= p.cycle {
			p.pos = 0
		}
	}
	return len(samples), true
}

func (p *Pulse) Err() error { return nil }
