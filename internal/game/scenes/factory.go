// Package scenes holds the stock application states: main menu, gameplay,
// settings panel and pause overlay.
package scenes

import (
	"errors"
	"image/color"

	"github.com/zeusync/arena/internal/core/blueprint"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/scene"
	"github.com/zeusync/arena/internal/core/systems"
)

// ErrQuit is returned from a frame when the player chose to quit.
var ErrQuit = errors.New("scenes: quit requested")

// Scene names.
const (
	NameMainMenu = "main_menu"
	NameGameplay = "gameplay"
	NameSettings = "settings"
	NamePause    = "pause"
)

var (
	colorText     = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	colorSelected = color.RGBA{R: 0xff, G: 0xd7, A: 0xff}
	colorDim      = color.RGBA{A: 0xa0}
)

// Options configure the stock scenes.
type Options struct {
	Spawns    []blueprint.Definition
	Registry  *blueprint.Registry
	MenuMusic string
	GameMusic string
	Log       log.Log
}

// Factory builds the stock scenes against one World.
type Factory struct {
	world systems.World
	opts  Options
	log   log.Log
}

var _ scene.Factory = (*Factory)(nil)

func NewFactory(world systems.World, opts Options) *Factory {
	return &Factory{world: world, opts: opts, log: log.OrNop(opts.Log)}
}

func (f *Factory) CreateMainMenu() scene.Scene { return NewMainMenu(f.world, f.opts.MenuMusic) }

func (f *Factory) CreateGameplay() scene.Scene {
	return NewGameplay(f.world, GameplayOptions{
		Spawns:   f.opts.Spawns,
		Registry: f.opts.Registry,
		Music:    f.opts.GameMusic,
		Log:      f.log,
	})
}

func (f *Factory) CreateSettings() scene.Scene { return NewSettings(f.world) }
