package scenes

import (
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/scene"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

const (
	itemPlay     = "Play"
	itemSettings = "Settings"
	itemQuit     = "Quit"
)

// MainMenu offers play, settings and quit.
type MainMenu struct {
	scene.Base
	world systems.World
	music string
	menu  menu
}

func NewMainMenu(world systems.World, music string) *MainMenu {
	return &MainMenu{
		Base:  scene.NewBase(NameMainMenu, false),
		world: world,
		music: music,
		menu:  menu{items: []string{itemPlay, itemSettings, itemQuit}},
	}
}

func (m *MainMenu) Load() error {
	m.world.Audio().SetMusic(m.music)
	return nil
}

func (m *MainMenu) Update(float64) error {
	item, ok := m.menu.navigate(m.world.Input())
	if !ok {
		return nil
	}
	switch item {
	case itemPlay:
		return m.world.RequestScene(m.world.Factory().CreateGameplay())
	case itemSettings:
		return m.world.PushScene(m.world.Factory().CreateSettings())
	case itemQuit:
		return ErrQuit
	}
	return nil
}

func (m *MainMenu) Render(r devices.Renderer) {
	w, h := m.world.Size()
	r.DrawText("ARENA", physics.Vec2(float64(w)/2-30, float64(h)/3), colorSelected)
	m.menu.render(r, physics.Vec2(float64(w)/2-40, float64(h)/2), nil)
}

// Selected returns the highlighted item.
func (m *MainMenu) Selected() string { return m.menu.items[m.menu.selected] }
