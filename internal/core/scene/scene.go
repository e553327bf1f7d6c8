package scene

import (
	"github.com/zeusync/arena/internal/core/devices"
)

// Scene is one application state. The manager drives its lifecycle in a
// fixed order: Load, then any number of Update/LateUpdate/Render calls,
// then Unload and finally Dispose. Pause and Resume bracket the time a
// scene spends covered by an overlay.
type Scene interface {
	Name() string

	Load() error
	Update(deltaTime float64) error
	LateUpdate(deltaTime float64)
	Render(r devices.Renderer)
	Resize(width, height int)
	Pause()
	Resume()
	Unload()
	Dispose()

	Loaded() bool
	// BlocksWorldUpdate suspends movement, collision and entity updates
	// while the scene is on top.
	BlocksWorldUpdate() bool
}

// Factory builds the standard scenes so scenes can navigate without
// knowing how their successors are constructed.
type Factory interface {
	CreateMainMenu() Scene
	CreateGameplay() Scene
	CreateSettings() Scene
}

// lifecycle is satisfied by scenes embedding Base.
type lifecycle interface {
	setLoaded(bool)
	markDisposed()
	disposed() bool
}

// Base provides default no-op hooks and the loaded bookkeeping. Concrete
// scenes embed it and override what they need.
type Base struct {
	name   string
	blocks bool

	loaded bool
	gone   bool
}

// NewBase names the scene. blocksWorld marks pause-style overlays.
func NewBase(name string, blocksWorld bool) Base {
	return Base{name: name, blocks: blocksWorld}
}

func (b *Base) Name() string { return b.name }

func (b *Base) Load() error                 { return nil }
func (b *Base) Update(float64) error        { return nil }
func (b *Base) LateUpdate(float64)          {}
func (b *Base) Render(devices.Renderer)     {}
func (b *Base) Resize(int, int)             {}
func (b *Base) Pause()                      {}
func (b *Base) Resume()                     {}
func (b *Base) Unload()                     {}
func (b *Base) Dispose()                    {}
func (b *Base) Loaded() bool                { return b.loaded }
func (b *Base) BlocksWorldUpdate() bool     { return b.blocks }
func (b *Base) SetBlocksWorldUpdate(v bool) { b.blocks = v }

func (b *Base) setLoaded(v bool) { b.loaded = v }
func (b *Base) markDisposed()    { b.gone = true }
func (b *Base) disposed() bool   { return b.gone }
