// Package injector assembles a runnable flockbeat App from a Config.
package injector

import (
	"context"
	"math/rand"

	"github.com/google/wire"
	"github.com/gopxl/beep"

	"github.com/zeusync/flockbeat/internal/config"
	"github.com/zeusync/flockbeat/internal/controller"
	"github.com/zeusync/flockbeat/internal/core/beat"
	"github.com/zeusync/flockbeat/internal/core/events/bus"
	"github.com/zeusync/flockbeat/internal/core/flock"
	"github.com/zeusync/flockbeat/internal/core/gaze"
	"github.com/zeusync/flockbeat/internal/core/observability/log"
	"github.com/zeusync/flockbeat/internal/core/scheduler"
	"github.com/zeusync/flockbeat/internal/core/spectrum"
)

var Set = wire.NewSet(
	ProvideLogger,
	ProvideLoop,
	wire.Bind(new(scheduler.Scheduler), new(*scheduler.Loop)),
	ProvideBus,
	ProvideRand,
	ProvideFlock,
	ProvideDetector,
	ProvideSource,
	ProvideTracker,
	ProvideController,
	wire.Struct(new(App), "*"),
)

// App is a fully wired simulation.
type App struct {
	Config     *config.Config
	Log        *log.Logger
	Loop       *scheduler.Loop
	Flock      *flock.Flock
	Controller *controller.Controller
}

// Run starts the controller and drives the loop until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.Controller.Start(); err != nil {
		return err
	}
	defer func() { _ = a.Controller.Stop() }()

	if err := a.Loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func ProvideLogger(cfg *config.Config) (*log.Logger, func()) {
	logger := log.New(cfg.Log.ParsedLevel(),
		log.WithEncoding(cfg.Log.Encoding),
		log.WithOutputPaths(cfg.Log.Output),
	)
	return logger, func() { _ = logger.Sync() }
}

func ProvideLoop(logger *log.Logger) *scheduler.Loop {
	return scheduler.NewLoop(scheduler.WithLogger(logger))
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideRand(cfg *config.Config) *rand.Rand {
	return flock.NewRand(cfg.Seed)
}

// ProvideFlock builds the flock on the config's own Params, so beats
// change the values the config holds.
func ProvideFlock(cfg *config.Config, rng *rand.Rand, logger *log.Logger) (*flock.Flock, error) {
	f, err := flock.New(&cfg.Flock, flock.WithRand(rng), flock.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := f.Initialize(cfg.Flock.Size, cfg.Flock.Lines); err != nil {
		return nil, err
	}
	return f, nil
}

func ProvideDetector(eventBus bus.EventBus) *beat.Detector {
	return beat.NewDetector(beat.WithPublisher(eventBus))
}

func ProvideSource(cfg *config.Config) (spectrum.Source, error) {
	s := cfg.Spectrum
	if s.Mode == config.SpectrumTone {
		rate := beep.SampleRate(s.Tone.SampleRate)
		pulse := spectrum.NewPulse(rate, s.Tone.Frequency, s.Tone.On, s.Tone.Off)
		return spectrum.NewAnalyzer(pulse, s.Bins), nil
	}
	script, err := spectrum.NewScript(s.Amplitudes(), s.Bins, s.Loop)
	if err != nil {
		return nil, err
	}
	return script, nil
}

func ProvideTracker(cfg *config.Config) *gaze.Tracker {
	return gaze.NewTracker(cfg.Gaze)
}

func ProvideController(
	sched scheduler.Scheduler,
	f *flock.Flock,
	detector *beat.Detector,
	eventBus bus.EventBus,
	source spectrum.Source,
	tracker *gaze.Tracker,
	renderer controller.Renderer,
	cfg *config.Config,
	logger *log.Logger,
) (*controller.Controller, error) {
	return controller.New(sched, f, detector, eventBus, source, tracker, renderer, cfg.Timing, logger)
}
