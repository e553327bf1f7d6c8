package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/engine"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/scene"
	"github.com/zeusync/arena/internal/game/scenes"
	"github.com/zeusync/arena/internal/host/ebitenhost"
	"github.com/zeusync/arena/internal/host/headless"
	"github.com/zeusync/arena/internal/injector"
	"github.com/zeusync/arena/internal/server"
)

type options struct {
	configPath string
	headless   bool
	frames     uint64
	realtime   bool
	scene      string
	inspector  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML config file (defaults are used when empty)")
	flag.BoolVar(&opts.headless, "headless", false, "run without a window")
	flag.Uint64Var(&opts.frames, "frames", 0, "headless: stop after this many frames (0 runs until interrupted)")
	flag.BoolVar(&opts.realtime, "realtime", true, "headless: pace frames on the wall clock")
	flag.StringVar(&opts.scene, "scene", scenes.NameMainMenu, "initial scene: main_menu, gameplay or settings")
	flag.StringVar(&opts.inspector, "inspector", "", "enable the debug inspector on this address")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "arena:", err)
		os.Exit(1)
	}
}

func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if opts.headless {
		cfg.Loop.Headless = true
	}
	if opts.inspector != "" {
		cfg.Inspector.Enabled = true
		cfg.Inspector.Address = opts.inspector
	}
	return cfg, cfg.Validate()
}

func initialScene(eng *engine.Engine, name string) (scene.Scene, error) {
	f := eng.Factory()
	switch name {
	case scenes.NameMainMenu:
		return f.CreateMainMenu(), nil
	case scenes.NameGameplay:
		return f.CreateGameplay(), nil
	case scenes.NameSettings:
		return f.CreateSettings(), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}

func run(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := app.Log.With(log.String("component", "main"))

	first, err := initialScene(app.Engine, opts.scene)
	if err != nil {
		return err
	}
	if err := app.Engine.Start(first); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stopCh := make(chan os.Signal, 1)
		signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stopCh)
		select {
		case sig := <-stopCh:
			logger.Info("Signal received, shutting down", log.String("signal", sig.String()))
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if ins := app.Inspector; ins != nil {
		if err := ins.Start(gctx); err != nil {
			cancel()
			_ = g.Wait()
			return fmt.Errorf("inspector: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			stopCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			if err := ins.Stop(stopCtx); err != nil && !errors.Is(err, server.ErrServerNotRunning) {
				return fmt.Errorf("inspector: %w", err)
			}
			return nil
		})
	}

	// ebiten must own the main goroutine, so the host loop runs here and
	// the group only carries the side tasks.
	hostErr := runHost(gctx, app, cfg, opts)
	cancel()
	return errors.Join(hostErr, g.Wait())
}

func runHost(ctx context.Context, app *injector.App, cfg config.Config, opts options) error {
	if cfg.Loop.Headless {
		frames, err := headless.Run(ctx, app.Engine, headless.Options{
			Step:      cfg.Loop.FixedStep,
			MaxFrames: opts.frames,
			Realtime:  opts.realtime,
			Quit:      scenes.ErrQuit,
			Log:       app.Log,
		})
		app.Log.Info("Headless run finished", log.Uint64("frames", frames))
		return err
	}
	return ebitenhost.Run(ctx, app.Engine, ebitenhost.Options{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Quit:   scenes.ErrQuit,
		Log:    app.Log,
	})
}
