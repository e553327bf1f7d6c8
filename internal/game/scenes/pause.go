package scenes

import (
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/scene"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Pause is an overlay that freezes the world until dismissed.
type Pause struct {
	scene.Base
	world systems.World
}

func NewPause(world systems.World) *Pause {
	return &Pause{Base: scene.NewBase(NamePause, true), world: world}
}

func (p *Pause) Load() error {
	return p.world.Bus().Publish(bus.NewEvent(bus.EventPaused, NamePause, nil))
}

func (p *Pause) Update(float64) error {
	in := p.world.Input()
	switch {
	case in.IsActionJustPressed(devices.ActionPause), in.IsActionJustPressed(devices.ActionBack):
		p.world.PopScene()
	case in.IsActionJustPressed(devices.ActionMenu):
		return p.world.RequestScene(p.world.Factory().CreateMainMenu())
	}
	return nil
}

func (p *Pause) Render(r devices.Renderer) {
	w, h := p.world.Size()
	center := physics.Vec2(float64(w)/2, float64(h)/2)
	r.FillRect(center, float64(w), float64(h), 0, colorDim)
	r.DrawText("PAUSED", center.Sub(physics.Vec2(24, 0)), colorSelected)
}

func (p *Pause) Unload() {
	_ = p.world.Bus().Publish(bus.NewEvent(bus.EventResumed, NamePause, nil))
}
