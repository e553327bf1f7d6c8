package models

import (
	"image/color"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Transform places an entity in the world.
type Transform struct {
	Owned
	Position physics.Vector2
	Rotation float64
}

func NewTransform(position physics.Vector2, rotation float64) *Transform {
	return &Transform{Position: position, Rotation: rotation}
}

func (*Transform) Kind() ComponentKind { return KindTransform }

// Physics carries the velocity integrated by the movement subsystem.
type Physics struct {
	Owned
	Velocity physics.Vector2
	Mass     float64
}

func NewPhysics(velocity physics.Vector2, mass float64) *Physics {
	return &Physics{Velocity: velocity, Mass: mass}
}

func (*Physics) Kind() ComponentKind { return KindPhysics }

// MovementBehavior steers an entity once per frame.
type MovementBehavior interface {
	Move(entity *Entity, deltaTime float64)
}

// Movement references the behavior bound to its owner.
type Movement struct {
	Owned
	Behavior MovementBehavior
}

func NewMovement(behavior MovementBehavior) *Movement {
	return &Movement{Behavior: behavior}
}

func (*Movement) Kind() ComponentKind { return KindMovement }

// Canvas is the drawing surface shapes render onto. Implemented by the host.
type Canvas interface {
	FillCircle(center physics.Vector2, radius float64, c color.RGBA)
	FillRect(center physics.Vector2, width, height, rotation float64, c color.RGBA)
}

// Shape draws an entity at a world position.
type Shape interface {
	Draw(canvas Canvas, position physics.Vector2, rotation float64, c color.RGBA)
}

// ShapeFunc adapts an ad hoc drawing closure to Shape.
type ShapeFunc func(canvas Canvas, position physics.Vector2, rotation float64, c color.RGBA)

func (f ShapeFunc) Draw(canvas Canvas, position physics.Vector2, rotation float64, c color.RGBA) {
	f(canvas, position, rotation, c)
}

type Circle struct{ Radius float64 }

func (s Circle) Draw(canvas Canvas, position physics.Vector2, _ float64, c color.RGBA) {
	canvas.FillCircle(position, s.Radius, c)
}

type Rect struct{ Width, Height float64 }

func (s Rect) Draw(canvas Canvas, position physics.Vector2, rotation float64, c color.RGBA) {
	canvas.FillRect(position, s.Width, s.Height, rotation, c)
}

// Render pairs a shape strategy with a fill color.
type Render struct {
	Owned
	Shape Shape
	Color color.RGBA
}

func NewRender(shape Shape, c color.RGBA) *Render {
	return &Render{Shape: shape, Color: c}
}

func (*Render) Kind() ComponentKind { return KindRender }

// Draw renders the owner at its transform. Entities without a transform or
// shape are skipped.
func (r *Render) Draw(canvas Canvas) {
	if canvas == nil || r.Shape == nil || r.Owner() == nil {
		return
	}
	t := r.Owner().Transform()
	if t == nil {
		return
	}
	r.Shape.Draw(canvas, t.Position, t.Rotation, r.Color)
}

// Sprite holds an opaque visual handle owned by the host renderer.
type Sprite struct {
	Owned
	Handle any
}

func NewSprite(handle any) *Sprite {
	return &Sprite{Handle: handle}
}

func (*Sprite) Kind() ComponentKind { return KindSprite }
