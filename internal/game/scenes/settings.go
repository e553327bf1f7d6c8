package scenes

import (
	"fmt"

	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/scene"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

const (
	itemMusic = "Music"
	itemSound = "Sound"
	itemBack  = "Back"

	volumeStep = 0.1
)

// Settings is an overlay adjusting audio volumes. It is pushed above the
// scene that opened it and pops itself on back. Started as the only scene,
// back goes to the main menu instead.
type Settings struct {
	scene.Base
	world systems.World
	menu  menu

	rebinds     []string
	stopRebinds func()
}

func NewSettings(world systems.World) *Settings {
	return &Settings{
		Base:  scene.NewBase(NameSettings, false),
		world: world,
		menu:  menu{items: []string{itemMusic, itemSound, itemBack}},
	}
}

func (s *Settings) Load() error {
	s.stopRebinds = s.world.Input().OnRebind(func(action, key string) {
		s.rebinds = append(s.rebinds, fmt.Sprintf("%s -> %s", action, key))
	})
	return nil
}

func (s *Settings) Unload() {
	if s.stopRebinds != nil {
		s.stopRebinds()
		s.stopRebinds = nil
	}
}

func (s *Settings) Update(float64) error {
	in := s.world.Input()
	if in.IsActionJustPressed(devices.ActionBack) {
		return s.back()
	}
	audio := s.world.Audio()
	step := 0.0
	switch {
	case in.IsActionJustPressed(devices.ActionLeft):
		step = -volumeStep
	case in.IsActionJustPressed(devices.ActionRight):
		step = volumeStep
	}
	if step != 0 {
		switch s.menu.items[s.menu.selected] {
		case itemMusic:
			audio.SetMusicVolume(audio.MusicVolume() + step)
		case itemSound:
			audio.SetSoundVolume(audio.SoundVolume() + step)
		}
		return nil
	}
	if item, ok := s.menu.navigate(in); ok && item == itemBack {
		return s.back()
	}
	return nil
}

func (s *Settings) back() error {
	if s.world.Depth() > 1 {
		s.world.PopScene()
		return nil
	}
	return s.world.RequestScene(s.world.Factory().CreateMainMenu())
}

func (s *Settings) Render(r devices.Renderer) {
	w, h := s.world.Size()
	audio := s.world.Audio()
	s.menu.render(r, physics.Vec2(float64(w)/2-60, float64(h)/3), func(item string) string {
		switch item {
		case itemMusic:
			return fmt.Sprintf("%s %3.0f%%", item, audio.MusicVolume()*100)
		case itemSound:
			return fmt.Sprintf("%s %3.0f%%", item, audio.SoundVolume()*100)
		}
		return item
	})
	for i, line := range s.rebinds {
		r.DrawText(line, physics.Vec2(8, float64(h)-16-float64(i)*16), colorText)
	}
}

// Rebinds lists the key changes observed while the panel was open.
func (s *Settings) Rebinds() []string { return s.rebinds }
