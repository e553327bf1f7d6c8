// Package injector assembles the process from configuration.
package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/blueprint"
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/engine"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/scene"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/game/scenes"
	"github.com/zeusync/arena/internal/host/ebitenhost"
	"github.com/zeusync/arena/internal/server"
)

// App is everything cmd/arena needs to run.
type App struct {
	Config config.Config
	Log    log.Log
	Bus    bus.EventBus
	Input  *devices.ActionInput
	Engine *engine.Engine
	// Inspector is nil when disabled.
	Inspector *server.Inspector
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	ProvideKeySource,
	ProvideInput,
	wire.Bind(new(devices.InputController), new(*devices.ActionInput)),
	ProvideAudioBackend,
	ProvideMixer,
	wire.Bind(new(devices.AudioController), new(*devices.Mixer)),
	ProvideEngine,
	ProvideInspector,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg config.Config) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log: %w", err)
	}
	var opts []log.Option
	if cfg.Log.Encoding != "" {
		opts = append(opts, log.WithEncoding(cfg.Log.Encoding))
	}
	if len(cfg.Log.Output) > 0 {
		opts = append(opts, log.WithOutputPaths(cfg.Log.Output...))
	}
	logger := log.New(level, opts...)
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideKeySource reads the keyboard through ebiten, or a scripted source
// when running headless.
func ProvideKeySource(cfg config.Config, logger log.Log) devices.KeySource {
	if cfg.Loop.Headless {
		return devices.NewScriptedKeys()
	}
	return ebitenhost.NewKeys(logger)
}

func ProvideInput(source devices.KeySource, cfg config.Config) *devices.ActionInput {
	return devices.NewActionInput(source, cfg.Input.Bindings)
}

// ProvideAudioBackend returns nil when headless; the mixer then only keeps
// volume state.
func ProvideAudioBackend(cfg config.Config, logger log.Log) devices.AudioBackend {
	if cfg.Loop.Headless {
		return nil
	}
	return ebitenhost.NewTones(logger)
}

func ProvideMixer(backend devices.AudioBackend, cfg config.Config, logger log.Log) *devices.Mixer {
	return devices.NewMixer(backend, cfg.Audio.MusicVolume, cfg.Audio.SoundVolume, logger)
}

func ProvideEngine(
	cfg config.Config,
	b bus.EventBus,
	input devices.InputController,
	audio devices.AudioController,
	logger log.Log,
) (*engine.Engine, func(), error) {
	registry := blueprint.DefaultRegistry()
	spawns := cfg.ResolvedSpawns()
	eng, err := engine.New(engine.Config{
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		MaxDelta:       cfg.Loop.MaxDelta,
		CollisionSound: cfg.Collision.Sound,
	}, engine.Deps{
		Bus:   b,
		Input: input,
		Audio: audio,
		Log:   logger,
		Factory: func(w systems.World) scene.Factory {
			return scenes.NewFactory(w, scenes.Options{
				Spawns:    spawns,
				Registry:  registry,
				MenuMusic: cfg.Audio.MenuMusic,
				GameMusic: cfg.Audio.Music,
				Log:       logger,
			})
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("engine: %w", err)
	}
	return eng, eng.Dispose, nil
}

func ProvideInspector(cfg config.Config, b bus.EventBus, logger log.Log) (*server.Inspector, func(), error) {
	if !cfg.Inspector.Enabled {
		return nil, func() {}, nil
	}
	sc := server.DefaultConfig()
	sc.ListenAddr = cfg.Inspector.Address
	sc.Every = cfg.Inspector.Every
	sc.Token = cfg.Inspector.Token
	ins, err := server.New(sc, b, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("inspector: %w", err)
	}
	return ins, func() { _ = ins.Close() }, nil
}
