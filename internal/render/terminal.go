// Package render draws the flock, the power lines and the cat's eyes on a
// terminal through tcell.
package render

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/flockbeat/internal/core/flock"
	"github.com/zeusync/flockbeat/internal/core/gaze"
)

// ErrQuit is returned by Poll when the user asks to leave.
var ErrQuit = errors.New("quit requested")

type Config struct {
	Enabled    bool            `yaml:"enabled" toml:"enabled"`
	Projection gaze.Projection `yaml:"projection" toml:"projection"`
	Canvas     gaze.Size       `yaml:"canvas" toml:"canvas"`
	// FogDepth is the depth at which boids reach the lightest grey.
	FogDepth float64 `yaml:"fog_depth" toml:"fog_depth"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Projection: gaze.Projection{Scale: 225, OffsetX: 300, OffsetY: 225},
		Canvas:     gaze.Size{Width: 600, Height: 450},
		FogDepth:   50,
	}
}

func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("render canvas must have a positive size, got %vx%v", c.Canvas.Width, c.Canvas.Height)
	}
	if c.FogDepth <= 0 {
		return fmt.Errorf("render fog depth must be positive, got %v", c.FogDepth)
	}
	return nil
}

const (
	lineGlyph = '─'
	eyeOpen   = 'o'
	eyeShut   = '-'
)

var (
	lineStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	eyeStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// Terminal keeps the latest flock frame and eyes and repaints the whole
// screen whenever either changes.
type Terminal struct {
	screen tcell.Screen
	cfg    Config

	mu      sync.Mutex
	frame   flock.Snapshot
	eyes    gaze.Eyes
	hasEyes bool
}

func NewTerminal(screen tcell.Screen, cfg Config) *Terminal {
	return &Terminal{screen: screen, cfg: cfg}
}

func (t *Terminal) DrawFlock(s flock.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = s
	t.paint()
}

func (t *Terminal) DrawGaze(e gaze.Eyes) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eyes, t.hasEyes = e, true
	t.paint()
}

// cell maps canvas pixels to a terminal cell.
func (t *Terminal) cell(x, y float64) (int, int) {
	w, h := t.screen.Size()
	return int(x / t.cfg.Canvas.Width * float64(w)), int(y / t.cfg.Canvas.Height * float64(h))
}

func (t *Terminal) paint() {
	t.screen.Clear()
	w, h := t.screen.Size()

	for _, l := range t.frame.Lines {
		_, y, ok := t.cfg.Projection.Project(l.Position)
		if !ok {
			continue
		}
		_, row := t.cell(0, y)
		if row < 0 || row >= h {
			continue
		}
		for col := 0; col < w; col++ {
			t.screen.SetContent(col, row, lineGlyph, nil, lineStyle)
		}
	}

	perched := 0
	for _, b := range t.frame.DepthSorted() {
		if b.Perched {
			perched++
		}
		x, y, ok := t.cfg.Projection.Project(b.Position)
		if !ok {
			continue
		}
		col, row := t.cell(x, y)
		if col < 0 || col >= w || row < 0 || row >= h {
			continue
		}
		radius := t.cfg.Projection.Radius(b.Position.Z) / t.cfg.Canvas.Width * float64(w)
		t.screen.SetContent(col, row, Glyph(radius), nil, t.fog(b.Position.Z))
	}

	if t.hasEyes {
		glyph := eyeOpen
		if t.eyes.Lid < 0.5 {
			glyph = eyeShut
		}
		for _, p := range []gaze.Point2{t.eyes.Left, t.eyes.Right} {
			col, row := t.cell(p.X, p.Y)
			if col >= 0 && col < w && row >= 0 && row < h {
				t.screen.SetContent(col, row, glyph, nil, eyeStyle)
			}
		}
	}

	status := fmt.Sprintf("tick %d  boids %d  perched %d", t.frame.Tick, len(t.frame.Boids), perched)
	for i, r := range []rune(status) {
		if i >= w {
			break
		}
		t.screen.SetContent(i, 0, r, nil, statusStyle)
	}

	t.screen.Show()
}

// Shade is the fog grey level for depth z: near boids are dark, far ones light.
func Shade(z, depth float64) int32 {
	c := int32(-50 + 284*(z/depth))
	return max(0, min(255, c))
}

func (t *Terminal) fog(z float64) tcell.Style {
	c := Shade(z, t.cfg.FogDepth)
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(c, c, c))
}

// Glyph picks a body glyph from the projected radius in cells.
func Glyph(radius float64) rune {
	switch {
	case radius >= 1:
		return '●'
	case radius >= 0.5:
		return '•'
	default:
		return '·'
	}
}

// Poll reads terminal input until ctx is done or the user quits with Esc,
// q or Ctrl-C, in which case it returns ErrQuit.
func (t *Terminal) Poll(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return ErrQuit
			}
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Sync()
			t.mu.Unlock()
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}
