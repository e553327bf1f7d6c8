package movement

import (
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

var (
	_ models.MovementBehavior = (*Linear)(nil)
	_ models.MovementBehavior = (*Follow)(nil)
	_ models.MovementBehavior = (*Wander)(nil)
	_ models.MovementBehavior = (*InputDriven)(nil)
)

// Linear moves along a fixed direction at constant speed. Each axis of the
// direction can be flipped independently, e.g. when bouncing off screen
// edges.
type Linear struct {
	direction physics.Vector2
	speed     float64
}

// NewLinear normalizes direction.
func NewLinear(direction physics.Vector2, speed float64) *Linear {
	return &Linear{direction: direction.Normalize(), speed: speed}
}

func (l *Linear) Move(e *models.Entity, deltaTime float64) {
	t := e.Transform()
	if t == nil {
		return
	}
	t.Position = t.Position.Add(l.direction.Scale(l.speed * deltaTime))
}

func (l *Linear) ReverseX() { l.direction.X = -l.direction.X }

func (l *Linear) ReverseY() { l.direction.Y = -l.direction.Y }

func (l *Linear) Direction() physics.Vector2 { return l.direction }

func (l *Linear) Speed() float64 { return l.speed }

func (l *Linear) SetSpeed(speed float64) { l.speed = speed }

// Follow steers toward a live target's Transform without overshooting it.
type Follow struct {
	target *models.Entity
	speed  float64
}

func NewFollow(target *models.Entity, speed float64) *Follow {
	return &Follow{target: target, speed: speed}
}

func (f *Follow) Target() *models.Entity { return f.target }

func (f *Follow) SetTarget(target *models.Entity) { f.target = target }

func (f *Follow) Move(e *models.Entity, deltaTime float64) {
	if f.target == nil || !f.target.IsActive() {
		return
	}
	t, goal := e.Transform(), f.target.Transform()
	if t == nil || goal == nil {
		return
	}
	delta := goal.Position.Sub(t.Position)
	dist := delta.Length()
	if dist < physics.Epsilon {
		return
	}
	t.Rotation = math.Atan2(delta.Y, delta.X)
	step := f.speed * deltaTime
	if step >= dist {
		t.Position = goal.Position
		return
	}
	t.Position = t.Position.Add(delta.Scale(step / dist))
}

// Wander walks along a random heading that is re-rolled every interval
// seconds.
type Wander struct {
	speed    float64
	interval float64
	rng      *rand.Rand

	timer   float64
	heading physics.Vector2
	rolled  bool
}

// NewWander creates a wander behavior with its own deterministic random
// source.
func NewWander(speed, interval float64, seed uint64) *Wander {
	return &Wander{
		speed:    speed,
		interval: interval,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// SeedFor derives a per-entity seed so every wanderer gets its own stream
// while staying reproducible for a given base seed.
func SeedFor(id models.EntityID, base uint64) uint64 {
	return xxhash.Sum64String(string(id)) ^ base
}

func (w *Wander) Heading() physics.Vector2 { return w.heading }

func (w *Wander) Move(e *models.Entity, deltaTime float64) {
	t := e.Transform()
	if t == nil {
		return
	}
	w.timer -= deltaTime
	if !w.rolled || w.timer <= 0 {
		angle := w.rng.Float64() * 2 * math.Pi
		w.heading = physics.Vec2(math.Cos(angle), math.Sin(angle))
		w.timer = w.interval
		w.rolled = true
		t.Rotation = angle
	}
	t.Position = t.Position.Add(w.heading.Scale(w.speed * deltaTime))
}

// InputHandler turns the current input state into entity motion.
type InputHandler interface {
	Handle(e *models.Entity, deltaTime float64)
}

// InputDriven delegates to an InputHandler.
type InputDriven struct {
	handler InputHandler
}

func NewInputDriven(handler InputHandler) *InputDriven {
	return &InputDriven{handler: handler}
}

func (d *InputDriven) Move(e *models.Entity, deltaTime float64) {
	if d.handler != nil {
		d.handler.Handle(e, deltaTime)
	}
}

// ActionSteering writes a velocity derived from the pressed directional
// actions into the entity's Physics component.
type ActionSteering struct {
	Input devices.InputController
	Speed float64

	Up, Down, Left, Right string
}

// NewActionSteering uses the standard directional action names.
func NewActionSteering(input devices.InputController, speed float64) *ActionSteering {
	return &ActionSteering{
		Input: input,
		Speed: speed,
		Up:    devices.ActionUp,
		Down:  devices.ActionDown,
		Left:  devices.ActionLeft,
		Right: devices.ActionRight,
	}
}

func (s *ActionSteering) Handle(e *models.Entity, _ float64) {
	p := e.Physics()
	if p == nil || s.Input == nil {
		return
	}
	var dir physics.Vector2
	if s.Input.IsActionPressed(s.Up) {
		dir.Y--
	}
	if s.Input.IsActionPressed(s.Down) {
		dir.Y++
	}
	if s.Input.IsActionPressed(s.Left) {
		dir.X--
	}
	if s.Input.IsActionPressed(s.Right) {
		dir.X++
	}
	p.Velocity = dir.Normalize().Scale(s.Speed)
}
