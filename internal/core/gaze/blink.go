package gaze

// Blink is a lid countdown: the lid closes over the first half of the
// frames and reopens over the second.
type Blink struct {
	frames    int
	remaining int
}

func NewBlink(frames int) *Blink {
	if frames < 2 {
		frames = 2
	}
	return &Blink{frames: frames, remaining: frames}
}

// Advance moves one frame on and reports whether the blink has finished.
func (b *Blink) Advance() (done bool) {
	if b.remaining > 0 {
		b.remaining--
	}
	return b.remaining == 0
}

func (b *Blink) Done() bool { return b.remaining == 0 }

// Lid is the current openness in [0, 1].
func (b *Blink) Lid() float64 {
	half := float64(b.frames) / 2
	d := float64(b.remaining) - half
	if d < 0 {
		d = -d
	}
	return d / half
}
