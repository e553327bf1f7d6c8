package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/arena/internal/core/blueprint"
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the process configuration. Zero values are filled from
// Default by Load and LoadYAML.
type Config struct {
	Window    Window                 `yaml:"window"`
	Loop      Loop                   `yaml:"loop"`
	Collision Collision              `yaml:"collision"`
	Movement  Movement               `yaml:"movement"`
	Input     Input                  `yaml:"input"`
	Audio     Audio                  `yaml:"audio"`
	Inspector Inspector              `yaml:"inspector"`
	Log       Log                    `yaml:"log"`
	Spawns    []blueprint.Definition `yaml:"spawns"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Loop controls the frame clock. FixedStep is the headless tick length;
// MaxDelta caps a single frame's delta after a stall.
type Loop struct {
	FixedStep float64 `yaml:"fixed_step"`
	MaxDelta  float64 `yaml:"max_delta"`
	Headless  bool    `yaml:"headless"`
}

type Collision struct {
	Sound string `yaml:"sound"`
}

type Movement struct {
	WanderInterval float64 `yaml:"wander_interval"`
	Seed           uint64  `yaml:"seed"`
}

// Input maps logical action names to host key names. Bindings from a file
// are merged over the defaults.
type Input struct {
	Bindings map[string]string `yaml:"bindings"`
}

// Audio sets the starting volumes. Music plays during gameplay and
// MenuMusic on the main menu.
type Audio struct {
	MusicVolume float64 `yaml:"music_volume"`
	SoundVolume float64 `yaml:"sound_volume"`
	Music       string  `yaml:"music"`
	MenuMusic   string  `yaml:"menu_music"`
}

// Inspector configures the debug HTTP/websocket server. Every streams one
// frame out of Every; Token, when set, guards the stream.
type Inspector struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Every   uint64 `yaml:"every"`
	Token   string `yaml:"token"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
	// Output lists zap sinks such as "stderr" or a file path.
	Output []string `yaml:"output"`
}

// Default returns a configuration that passes Validate.
func Default() Config {
	return Config{
		Window: Window{Title: "Arena", Width: 800, Height: 600},
		Loop:   Loop{FixedStep: 1.0 / 60, MaxDelta: 0.25},
		Collision: Collision{
			Sound: "hit",
		},
		Movement: Movement{WanderInterval: 1.5, Seed: 1},
		Input: Input{Bindings: map[string]string{
			devices.ActionUp:      "W",
			devices.ActionDown:    "S",
			devices.ActionLeft:    "A",
			devices.ActionRight:   "D",
			devices.ActionConfirm: "Enter",
			devices.ActionBack:    "Backspace",
			devices.ActionPause:   "P",
			devices.ActionMenu:    "Escape",
		}},
		Audio:     Audio{MusicVolume: 0.6, SoundVolume: 0.8, Music: "theme", MenuMusic: "menu"},
		Inspector: Inspector{Enabled: false, Address: "127.0.0.1:7070", Every: 6},
		Log:       Log{Level: "info", Encoding: "json"},
		Spawns:    DefaultSpawns(),
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// LoadYAML decodes r on top of Default and validates the result. Missing
// keys keep their default; unknown keys are rejected.
func LoadYAML(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot start with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Loop.FixedStep <= 0 {
		return fmt.Errorf("%w: loop.fixed_step must be positive", ErrInvalid)
	}
	if c.Loop.MaxDelta < c.Loop.FixedStep {
		return fmt.Errorf("%w: loop.max_delta must be at least loop.fixed_step", ErrInvalid)
	}
	if c.Movement.WanderInterval <= 0 {
		return fmt.Errorf("%w: movement.wander_interval must be positive", ErrInvalid)
	}
	if !unit(c.Audio.MusicVolume) || !unit(c.Audio.SoundVolume) {
		return fmt.Errorf("%w: audio volumes must be within [0,1]", ErrInvalid)
	}
	if c.Inspector.Enabled && c.Inspector.Address == "" {
		return fmt.Errorf("%w: inspector.address is required when enabled", ErrInvalid)
	}
	for i, def := range c.Spawns {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("%w: spawns[%d]: %w", ErrInvalid, i, err)
		}
	}
	return nil
}

// ResolvedSpawns returns copies of the spawn definitions with wander
// movers defaulted to movement.wander_interval and movement.seed.
func (c Config) ResolvedSpawns() []blueprint.Definition {
	out := make([]blueprint.Definition, len(c.Spawns))
	for i, def := range c.Spawns {
		if def.Movement != nil && def.Movement.Kind == blueprint.KindWander {
			m := *def.Movement
			if m.Interval <= 0 {
				m.Interval = c.Movement.WanderInterval
			}
			if m.Seed == 0 {
				m.Seed = c.Movement.Seed
			}
			def.Movement = &m
		}
		out[i] = def
	}
	return out
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

func vec(x, y float64) physics.Vector2 { return physics.Vec2(x, y) }

// DefaultSpawns is the stock gameplay arena: an input-driven player, a
// chaser, two wanderers, a bouncing ball and a pass-through pickup.
func DefaultSpawns() []blueprint.Definition {
	return []blueprint.Definition{
		{
			Name:      "player",
			Position:  vec(400, 300),
			Physics:   &blueprint.PhysicsSpec{Mass: 1},
			Shape:     &blueprint.ShapeSpec{Kind: blueprint.ShapeCircle, Radius: 14, Color: "#33aaff"},
			Movement:  &blueprint.MovementSpec{Kind: blueprint.KindInput, Speed: 180},
			Collision: &blueprint.CollisionSpec{Radius: 14, Movable: true},
		},
		{
			Name:      "chaser",
			Position:  vec(80, 80),
			Shape:     &blueprint.ShapeSpec{Kind: blueprint.ShapeCircle, Radius: 12, Color: "#ff5533"},
			Movement:  &blueprint.MovementSpec{Kind: blueprint.KindFollow, Target: "player", Speed: 60},
			Collision: &blueprint.CollisionSpec{Radius: 12, Movable: true},
		},
		{
			Name:      "wanderer-1",
			Position:  vec(600, 150),
			Shape:     &blueprint.ShapeSpec{Kind: blueprint.ShapeCircle, Radius: 10, Color: "#aaff55"},
			Movement:  &blueprint.MovementSpec{Kind: blueprint.KindWander, Speed: 40},
			Collision: &blueprint.CollisionSpec{Radius: 10, Movable: true},
		},
		{
			Name:      "wanderer-2",
			Position:  vec(200, 450),
			Shape:     &blueprint.ShapeSpec{Kind: blueprint.ShapeCircle, Radius: 10, Color: "#aaff55"},
			Movement:  &blueprint.MovementSpec{Kind: blueprint.KindWander, Speed: 40, Interval: 1.5, Seed: 2},
			Collision: &blueprint.CollisionSpec{Radius: 10, Movable: true},
		},
		{
			Name:      "ball",
			Position:  vec(400, 100),
			Shape:     &blueprint.ShapeSpec{Kind: blueprint.ShapeCircle, Radius: 8, Color: "#ffffff"},
			Movement:  &blueprint.MovementSpec{Kind: blueprint.KindLinear, Direction: vec(1, 1), Speed: 120},
			Collision: &blueprint.CollisionSpec{Radius: 8, Movable: true},
		},
		{
			Name:      "pickup",
			Position:  vec(650, 450),
			Shape:     &blueprint.ShapeSpec{Kind: blueprint.ShapeRect, Width: 16, Height: 16, Color: "#ffd700"},
			Collision: &blueprint.CollisionSpec{Radius: 8, Response: "pass_through"},
		},
	}
}
