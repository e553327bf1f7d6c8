package scenes

import (
	"fmt"

	"github.com/zeusync/arena/internal/core/blueprint"
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/movement"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/scene"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
	"github.com/zeusync/arena/pkg/sequence"
)

type GameplayOptions struct {
	Spawns   []blueprint.Definition
	Registry *blueprint.Registry
	Music    string
	Log      log.Log
}

// Gameplay populates the world from spawn definitions and keeps linear
// movers inside the viewport.
type Gameplay struct {
	scene.Base
	world systems.World
	opts  GameplayOptions
	log   log.Log

	contacts int
	sub      bus.Subscription
}

func NewGameplay(world systems.World, opts GameplayOptions) *Gameplay {
	return &Gameplay{
		Base:  scene.NewBase(NameGameplay, false),
		world: world,
		opts:  opts,
		log:   log.OrNop(opts.Log).With(log.String("scene", NameGameplay)),
	}
}

// Load resets the world through the bus, then spawns every definition.
func (g *Gameplay) Load() error {
	b := g.world.Bus()
	if err := b.Publish(bus.NewEvent(bus.EventStart, NameGameplay, nil)); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	sub, err := b.SubscribeFunc(bus.EventCollision, func(bus.Event) error {
		g.contacts++
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe contacts: %w", err)
	}
	g.sub = sub

	sp, err := blueprint.NewSpawner(g.world, g.opts.Registry)
	if err != nil {
		return err
	}
	spawned, err := sp.SpawnAll(g.opts.Spawns)
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	g.world.Audio().SetMusic(g.opts.Music)
	g.log.Info("gameplay loaded", log.Int("entities", len(spawned)))
	return nil
}

func (g *Gameplay) Update(float64) error {
	in := g.world.Input()
	switch {
	case in.IsActionJustPressed(devices.ActionPause):
		return g.world.PushScene(NewPause(g.world))
	case in.IsActionJustPressed(devices.ActionMenu):
		return g.world.RequestScene(g.world.Factory().CreateMainMenu())
	}
	return nil
}

// LateUpdate reflects linear movers off the viewport edges and keeps every
// other entity inside it.
func (g *Gameplay) LateUpdate(float64) {
	w, h := g.world.Size()
	for _, e := range g.world.AllEntities() {
		t := e.Transform()
		if t == nil || !e.IsActive() {
			continue
		}
		r := extent(e)
		lo, hi := physics.Vec2(r, r), physics.Vec2(float64(w)-r, float64(h)-r)
		lin, _ := behaviorOf(g.world, e).(*movement.Linear)
		if t.Position.X < lo.X || t.Position.X > hi.X {
			if lin != nil && (t.Position.X < lo.X) == (lin.Direction().X < 0) {
				lin.ReverseX()
			}
			t.Position.X = clamp(t.Position.X, lo.X, hi.X)
		}
		if t.Position.Y < lo.Y || t.Position.Y > hi.Y {
			if lin != nil && (t.Position.Y < lo.Y) == (lin.Direction().Y < 0) {
				lin.ReverseY()
			}
			t.Position.Y = clamp(t.Position.Y, lo.Y, hi.Y)
		}
	}
}

func (g *Gameplay) Render(r devices.Renderer) {
	visible := sequence.From(g.world.AllEntities()).Filter(func(e *models.Entity) bool {
		return e.IsActive() && e.Render() != nil
	})
	for e := range visible.Seq() {
		e.Render().Draw(r)
	}
	r.DrawText(fmt.Sprintf("entities %d  contacts %d", g.world.Entities().Count(), g.contacts),
		physics.Vec2(8, 16), colorText)
}

func (g *Gameplay) Unload() {
	if g.sub != nil {
		_ = g.sub.Cancel()
		g.sub = nil
	}
}

// Contacts returns the number of contacts resolved since Load.
func (g *Gameplay) Contacts() int { return g.contacts }

func behaviorOf(w systems.World, e *models.Entity) models.MovementBehavior {
	b, _ := w.Movement().GetBehavior(e.ID())
	return b
}

// extent is the half size used for edge tests.
func extent(e *models.Entity) float64 {
	rc := e.Render()
	if rc == nil {
		return 0
	}
	switch s := rc.Shape.(type) {
	case models.Circle:
		return s.Radius
	case models.Rect:
		return max(s.Width, s.Height) / 2
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return min(max(v, lo), hi)
}
