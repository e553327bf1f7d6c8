package models

import (
	"github.com/google/uuid"
)

// EntityID identifies an entity. Generated once, never changes.
type EntityID string

// Entity is an identity plus an active flag and one component slot per kind.
type Entity struct {
	id         EntityID
	name       string
	active     bool
	components [kindCount]Component
}

// NewEntity creates an active entity with a fresh identity.
func NewEntity(name string) *Entity {
	return &Entity{
		id:     EntityID(uuid.NewString()),
		name:   name,
		active: true,
	}
}

func (e *Entity) ID() EntityID { return e.id }

func (e *Entity) Name() string { return e.name }

func (e *Entity) SetName(name string) { e.name = name }

func (e *Entity) IsActive() bool { return e.active }

func (e *Entity) SetActive(active bool) { e.active = active }

// Add stores c under its kind. An existing component of the same kind is
// detached first, then c is attached. Nil components and unknown kinds are
// ignored.
func (e *Entity) Add(c Component) {
	if c == nil || !c.Kind().Valid() {
		return
	}
	k := c.Kind()
	if old := e.components[k]; old != nil {
		e.components[k] = nil
		old.OnDetach(e)
	}
	e.components[k] = c
	c.OnAttach(e)
}

// Remove detaches and returns the component of the given kind.
func (e *Entity) Remove(kind ComponentKind) (Component, bool) {
	if !kind.Valid() || e.components[kind] == nil {
		return nil, false
	}
	c := e.components[kind]
	e.components[kind] = nil
	c.OnDetach(e)
	return c, true
}

func (e *Entity) Get(kind ComponentKind) (Component, bool) {
	if !kind.Valid() || e.components[kind] == nil {
		return nil, false
	}
	return e.components[kind], true
}

func (e *Entity) Has(kind ComponentKind) bool {
	return kind.Valid() && e.components[kind] != nil
}

// Components lists attached components in kind order.
func (e *Entity) Components() []Component {
	out := make([]Component, 0, kindCount)
	for _, c := range e.components {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Update propagates the frame tick to every attached component.
func (e *Entity) Update(deltaTime float64) {
	for _, c := range e.components {
		if c != nil {
			c.OnUpdate(deltaTime)
		}
	}
}

func (e *Entity) Transform() *Transform {
	c, _ := e.components[KindTransform].(*Transform)
	return c
}

func (e *Entity) Physics() *Physics {
	c, _ := e.components[KindPhysics].(*Physics)
	return c
}

func (e *Entity) Movement() *Movement {
	c, _ := e.components[KindMovement].(*Movement)
	return c
}

func (e *Entity) Render() *Render {
	c, _ := e.components[KindRender].(*Render)
	return c
}

func (e *Entity) Sprite() *Sprite {
	c, _ := e.components[KindSprite].(*Sprite)
	return c
}
