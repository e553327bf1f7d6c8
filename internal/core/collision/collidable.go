package collision

import (
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Collidable is anything the collision manager can test and resolve.
type Collidable interface {
	physics.Body

	ID() models.EntityID
	Radius() float64
	// IsCollidable reports whether the object takes part in detection this
	// frame.
	IsCollidable() bool
	// IsMovable reports whether resolution may move the object.
	IsMovable() bool
	// Deactivate takes the object out of the simulation.
	Deactivate()
}

// Body adapts an entity with a Transform (and optionally Physics) component
// to Collidable.
type Body struct {
	entity  *models.Entity
	radius  float64
	movable bool
}

var _ Collidable = (*Body)(nil)

func NewBody(entity *models.Entity, radius float64, movable bool) *Body {
	return &Body{entity: entity, radius: radius, movable: movable}
}

// A nil *Body behaves like a body without an entity.

func (b *Body) Entity() *models.Entity {
	if b == nil {
		return nil
	}
	return b.entity
}

func (b *Body) ID() models.EntityID {
	if e := b.Entity(); e != nil {
		return e.ID()
	}
	return ""
}

func (b *Body) Radius() float64 {
	if b == nil {
		return 0
	}
	return b.radius
}

func (b *Body) IsCollidable() bool {
	e := b.Entity()
	return e != nil && e.IsActive() && e.Transform() != nil && b.radius > 0
}

func (b *Body) IsMovable() bool {
	return b.transform() != nil && b.movable
}

func (b *Body) Deactivate() {
	if e := b.Entity(); e != nil {
		e.SetActive(false)
	}
}

func (b *Body) Position() physics.Vector2 {
	if t := b.transform(); t != nil {
		return t.Position
	}
	return physics.Zero()
}

func (b *Body) SetPosition(p physics.Vector2) {
	if t := b.transform(); t != nil {
		t.Position = p
	}
}

func (b *Body) Velocity() physics.Vector2 {
	if p := b.physics(); p != nil {
		return p.Velocity
	}
	return physics.Zero()
}

func (b *Body) SetVelocity(v physics.Vector2) {
	if p := b.physics(); p != nil {
		p.Velocity = v
	}
}

func (b *Body) transform() *models.Transform {
	if e := b.Entity(); e != nil {
		return e.Transform()
	}
	return nil
}

func (b *Body) physics() *models.Physics {
	if e := b.Entity(); e != nil {
		return e.Physics()
	}
	return nil
}
