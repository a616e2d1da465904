// Package config loads the flockbeat run configuration from YAML or TOML.
// Values missing from the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/flockbeat/internal/controller"
	"github.com/zeusync/flockbeat/internal/core/flock"
	"github.com/zeusync/flockbeat/internal/core/gaze"
	"github.com/zeusync/flockbeat/internal/core/observability/log"
	"github.com/zeusync/flockbeat/internal/core/spectrum"
	"github.com/zeusync/flockbeat/internal/render"
)

var (
	ErrUnknownFormat = errors.New("unknown config format")
	ErrInvalidConfig = errors.New("invalid config")
)

const (
	SpectrumScript = "script"
	SpectrumTone   = "tone"
)

type Config struct {
	Log      Log               `yaml:"log" toml:"log"`
	Seed     string            `yaml:"seed" toml:"seed"`
	Timing   controller.Timing `yaml:"timing" toml:"timing"`
	Flock    flock.Params      `yaml:"flock" toml:"flock"`
	Gaze     gaze.Config       `yaml:"gaze" toml:"gaze"`
	Spectrum Spectrum          `yaml:"spectrum" toml:"spectrum"`
	Render   render.Config     `yaml:"render" toml:"render"`
}

type Log struct {
	Level    string `yaml:"level" toml:"level"`
	Encoding string `yaml:"encoding" toml:"encoding"`
	// Output is a zap sink: "stderr", "stdout" or a file path.
	Output string `yaml:"output" toml:"output"`
}

// Spectrum selects where magnitude snapshots come from: a scripted
// amplitude pattern or an analysed pulsing tone.
type Spectrum struct {
	Mode    string `yaml:"mode" toml:"mode"`
	Pattern []int  `yaml:"pattern" toml:"pattern"`
	Bins    int    `yaml:"bins" toml:"bins"`
	Loop    bool   `yaml:"loop" toml:"loop"`
	Tone    Tone   `yaml:"tone" toml:"tone"`
}

type Tone struct {
	SampleRate int           `yaml:"sample_rate" toml:"sample_rate"`
	Frequency  float64       `yaml:"frequency" toml:"frequency"`
	On         time.Duration `yaml:"on" toml:"on"`
	Off        time.Duration `yaml:"off" toml:"off"`
}

// Default returns the tuning the flock was designed with: a saturated
// beat roughly every half second.
func Default() *Config {
	return &Config{
		Log:    Log{Level: "info", Encoding: "console", Output: "stderr"},
		Timing: controller.DefaultTiming(),
		Flock:  *flock.DefaultParams(),
		Gaze:   gaze.DefaultConfig(),
		Spectrum: Spectrum{
			Mode:    SpectrumScript,
			Pattern: []int{40, 120, 200, 255, 255, 180, 90, 60, 50, 40, 30, 30, 30, 30, 30, 30, 20, 20, 20, 20, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10},
			Bins:    spectrum.DefaultBins,
			Loop:    true,
			Tone: Tone{
				SampleRate: 44100,
				Frequency:  86.1328125, // bin 2 of a 1024-point frame
				On:         300 * time.Millisecond,
				Off:        700 * time.Millisecond,
			},
		},
		Render: render.DefaultConfig(),
	}
}

// Load reads path, choosing the decoder by extension.
func Load(path string) (*Config, error) {
	var decode func(io.Reader) (*Config, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = LoadYAML
	case ".toml":
		decode = LoadTOML
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

// LoadYAML decodes YAML over the defaults. Unknown keys are rejected.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return c.finish()
}

// LoadTOML decodes TOML over the defaults. Unknown keys are rejected.
func LoadTOML(r io.Reader) (*Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded)
	}
	return c.finish()
}

func (c *Config) finish() (*Config, error) {
	c.Flock.Reset()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	checks := []struct {
		section string
		err     error
	}{
		{"timing", c.Timing.Validate()},
		{"flock", c.Flock.Validate()},
		{"gaze", c.Gaze.Validate()},
		{"spectrum", c.Spectrum.Validate()},
		{"render", c.Render.Validate()},
	}
	for _, chk := range checks {
		if chk.err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, chk.section, chk.err)
		}
	}
	return nil
}

func (s Spectrum) Validate() error {
	if s.Bins < 6 {
		return fmt.Errorf("need at least 6 bins to cover the low band, got %d", s.Bins)
	}
	switch s.Mode {
	case SpectrumScript:
		if len(s.Pattern) == 0 {
			return spectrum.ErrEmptyPattern
		}
		for i, v := range s.Pattern {
			if v < 0 || v > 255 {
				return fmt.Errorf("pattern[%d] = %d is outside 0..255", i, v)
			}
		}
	case SpectrumTone:
		if s.Tone.SampleRate <= 0 || s.Tone.Frequency <= 0 || s.Tone.On <= 0 || s.Tone.Off < 0 {
			return fmt.Errorf("tone needs positive sample rate, frequency and on time: %+v", s.Tone)
		}
		if s.Tone.Frequency >= float64(s.Tone.SampleRate)/2 {
			return fmt.Errorf("tone frequency %v is above Nyquist", s.Tone.Frequency)
		}
	default:
		return fmt.Errorf("unknown spectrum mode %q", s.Mode)
	}
	return nil
}

// Amplitudes returns the script pattern as bytes.
func (s Spectrum) Amplitudes() []uint8 {
	out := make([]uint8, len(s.Pattern))
	for i, v := range s.Pattern {
		out[i] = uint8(v)
	}
	return out
}

// ParsedLevel returns the log level, falling back to info.
func (l Log) ParsedLevel() log.Level {
	lvl, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.LevelInfo
	}
	return lvl
}
