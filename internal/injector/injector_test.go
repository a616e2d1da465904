package injector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/flockbeat/internal/config"
	"github.com/zeusync/flockbeat/internal/controller"
	"github.com/zeusync/flockbeat/internal/core/spectrum"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Seed = "injector"
	cfg.Flock.Size = 20
	return cfg
}

func TestInitializeAppWiresEverything(t *testing.T) {
	app, cleanup, err := InitializeApp(testConfig(), nil)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, 20, app.Flock.Len())
	assert.Len(t, app.Flock.Lines(), 3)
	assert.Same(t, &app.Config.Flock, app.Flock.Params())
	assert.False(t, app.Controller.Running())
}

func TestAppRunsUntilCancelled(t *testing.T) {
	app, cleanup, err := InitializeApp(testConfig(), controller.NopRenderer{})
	require.NoError(t, err)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, app.Run(ctx))

	assert.Greater(t, app.Flock.Tick(), uint64(0))
	assert.False(t, app.Controller.Running())
	seen, _ := app.Controller.Beats()
	assert.Greater(t, seen, uint64(0))
}

func TestAppRunStopsOnCancel(t *testing.T) {
	app, cleanup, err := InitializeApp(testConfig(), controller.NopRenderer{})
	require.NoError(t, err)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)
	require.NoError(t, app.Run(ctx))
	assert.False(t, app.Controller.Running())
}

func TestProvideSourceModes(t *testing.T) {
	cfg := testConfig()
	src, err := ProvideSource(cfg)
	require.NoError(t, err)
	assert.IsType(t, &spectrum.Script{}, src)

	cfg.Spectrum.Mode = config.SpectrumTone
	src, err = ProvideSource(cfg)
	require.NoError(t, err)
	assert.IsType(t, &spectrum.Analyzer{}, src)
	assert.Len(t, src.Sample(), cfg.Spectrum.Bins)

	cfg.Spectrum.Mode = config.SpectrumScript
	cfg.Spectrum.Pattern = nil
	_, err = ProvideSource(cfg)
	assert.ErrorIs(t, err, spectrum.ErrEmptyPattern)
}

func TestInitializeAppRejectsBadFlock(t *testing.T) {
	cfg := testConfig()
	cfg.Flock.LaunchVelocity = 0
	_, _, err := InitializeApp(cfg, nil)
	assert.Error(t, err)
}
