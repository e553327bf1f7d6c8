// Package devices declares the narrow capability interfaces the runtime uses
// to talk to host input, audio and drawing facilities, plus host-agnostic
// implementations built on top of small backend hooks.
package devices

import (
	"image/color"

	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// InputController answers questions about logical actions.
type InputController interface {
	IsActionPressed(action string) bool
	// IsActionJustPressed is true only on the first polled frame an action
	// is held.
	IsActionJustPressed(action string) bool
	Pointer() physics.Vector2
	// Rebind maps action to key. Returns false for unknown actions.
	Rebind(action, key string) bool
	// OnRebind registers a callback fired after a successful Rebind and
	// returns a function that removes it.
	OnRebind(fn func(action, key string)) (cancel func())
}

// AudioController plays music and one-shot sounds.
type AudioController interface {
	SetMusic(name string)
	StopMusic()
	PlaySound(name string)

	MusicVolume() float64
	SetMusicVolume(v float64)
	SoundVolume() float64
	SetSoundVolume(v float64)
}

// Poller is implemented by devices that sample hardware once per frame.
type Poller interface {
	Poll()
}

// Renderer is the drawing surface handed to scenes.
type Renderer interface {
	models.Canvas
	DrawText(text string, position physics.Vector2, c color.RGBA)
}

// Poll polls every device that implements Poller.
func Poll(devices ...any) {
	for _, d := range devices {
		if p, ok := d.(Poller); ok {
			p.Poll()
		}
	}
}

type nopRenderer struct{}

// NopRenderer discards all drawing.
func NopRenderer() Renderer { return nopRenderer{} }

func (nopRenderer) FillCircle(physics.Vector2, float64, color.RGBA)                 {}
func (nopRenderer) FillRect(physics.Vector2, float64, float64, float64, color.RGBA) {}
func (nopRenderer) DrawText(string, physics.Vector2, color.RGBA)                    {}
