package models

// ComponentKind is the fixed tag under which an entity stores a component.
// An entity holds at most one component per kind.
type ComponentKind uint8

const (
	KindTransform ComponentKind = iota
	KindPhysics
	KindMovement
	KindRender
	KindSprite

	kindCount
)

func (k ComponentKind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindPhysics:
		return "physics"
	case KindMovement:
		return "movement"
	case KindRender:
		return "render"
	case KindSprite:
		return "sprite"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the known kinds.
func (k ComponentKind) Valid() bool { return k < kindCount }

// Component is a piece of data or behavior attached to an entity.
//
// Lifecycle: OnAttach when stored on an entity, OnUpdate once per frame while
// the owner is active, OnDetach when removed or replaced.
type Component interface {
	Kind() ComponentKind

	OnAttach(owner *Entity)
	OnDetach(owner *Entity)
	OnUpdate(deltaTime float64)
}

// Owned implements the owner back-reference and no-op lifecycle hooks.
// Concrete components embed it and override what they need.
type Owned struct {
	owner *Entity
}

// Owner returns the holding entity, or nil outside attach..detach.
func (o *Owned) Owner() *Entity { return o.owner }

func (o *Owned) OnAttach(owner *Entity) { o.owner = owner }
func (o *Owned) OnDetach(*Entity)       { o.owner = nil }
func (o *Owned) OnUpdate(float64)       {}
