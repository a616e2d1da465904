package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/flockbeat/internal/config"
	"github.com/zeusync/flockbeat/internal/controller"
	"github.com/zeusync/flockbeat/internal/injector"
	"github.com/zeusync/flockbeat/internal/render"
)

// terminalLog receives logs while the screen is in use, unless the config
// names another sink.
const terminalLog = "flockbeat.log"

func main() {
	configPath := flag.String("config", "", "YAML (.yaml, .yml) or TOML (.toml) config file")
	headless := flag.Bool("headless", false, "run without drawing to the terminal")
	flag.Parse()

	if err := run(*configPath, *headless); err != nil {
		fmt.Fprintln(os.Stderr, "flockbeat:", err)
		os.Exit(1)
	}
}

func run(configPath string, headless bool) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if headless {
		cfg.Render.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		renderer controller.Renderer
		term     *render.Terminal
	)
	if cfg.Render.Enabled {
		if cfg.Log.Output == "stderr" {
			cfg.Log.Output = terminalLog
		}
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer screen.Fini()
		term = render.NewTerminal(screen, cfg.Render)
		renderer = term
	}

	app, cleanup, err := injector.InitializeApp(cfg, renderer)
	if err != nil {
		return err
	}
	defer cleanup()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.Run(gctx) })
	if term != nil {
		g.Go(func() error { return term.Poll(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, render.ErrQuit) {
		return err
	}
	return nil
}
