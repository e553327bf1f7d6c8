package blueprint

import (
	"errors"
	"fmt"

	"github.com/zeusync/arena/internal/core/collision"
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/systems"
)

// Targets are the managers a spawned entity is wired into.
type Targets interface {
	Entities() systems.EntitySystem
	Collisions() systems.CollisionSystem
	Movement() systems.MovementSystem
	Input() devices.InputController
}

// Spawner turns definitions into entities registered with the managers.
// Entities it spawned can be followed by name before the entity manager
// commits them.
type Spawner struct {
	targets  Targets
	registry *Registry
	named    map[string]*models.Entity
}

// NewSpawner uses DefaultRegistry when registry is nil.
func NewSpawner(targets Targets, registry *Registry) (*Spawner, error) {
	if targets == nil {
		return nil, ErrNilTargets
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Spawner{targets: targets, registry: registry, named: make(map[string]*models.Entity)}, nil
}

// Spawn builds one definition with the default registry.
func Spawn(targets Targets, def Definition) (*models.Entity, error) {
	s, err := NewSpawner(targets, nil)
	if err != nil {
		return nil, err
	}
	return s.Spawn(def)
}

func (s *Spawner) Input() devices.InputController { return s.targets.Input() }

// Lookup finds an entity by name among the ones this spawner produced,
// then among the committed population.
func (s *Spawner) Lookup(name string) (*models.Entity, bool) {
	if name == "" {
		return nil, false
	}
	if e, ok := s.named[name]; ok {
		return e, true
	}
	return s.targets.Entities().FindByName(name)
}

// Spawn builds def, attaches its components and registers the entity with
// the entity, movement and collision managers. Nothing is registered when
// an error is returned.
func (s *Spawner) Spawn(def Definition) (*models.Entity, error) {
	e, err := s.build(def)
	if err != nil {
		return nil, err
	}
	if err := s.wire(e, def); err != nil {
		return nil, err
	}
	return e, nil
}

// SpawnAll builds every definition before wiring any of them, so follow
// targets may appear later in the list. On error, entities already wired
// stay registered and the joined error names every failed definition.
func (s *Spawner) SpawnAll(defs []Definition) ([]*models.Entity, error) {
	built := make([]*models.Entity, len(defs))
	var errs error
	for i, def := range defs {
		e, err := s.build(def)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		built[i] = e
	}
	out := make([]*models.Entity, 0, len(defs))
	for i, def := range defs {
		e := built[i]
		if e == nil {
			continue
		}
		if err := s.wire(e, def); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		out = append(out, e)
	}
	return out, errs
}

func (s *Spawner) build(def Definition) (*models.Entity, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	e := models.NewEntity(def.Name)
	e.Add(models.NewTransform(def.Position, def.Rotation))
	if p := def.Physics; p != nil {
		e.Add(models.NewPhysics(p.Velocity, p.Mass))
	}
	if sh := def.Shape; sh != nil {
		c, _ := ParseColor(sh.Color)
		var shape models.Shape
		switch sh.Kind {
		case ShapeCircle:
			shape = models.Circle{Radius: sh.Radius}
		case ShapeRect:
			shape = models.Rect{Width: sh.Width, Height: sh.Height}
		}
		e.Add(models.NewRender(shape, c))
	}
	if def.Name != "" {
		s.named[def.Name] = e
	}
	return e, nil
}

func (s *Spawner) wire(e *models.Entity, def Definition) error {
	var (
		behavior models.MovementBehavior
		response collision.Response
		err      error
	)
	if def.Movement != nil {
		behavior, err = s.registry.NewBehavior(s, e, *def.Movement)
		if err != nil {
			s.forget(def.Name, e)
			return fmt.Errorf("spawn %q: %w", def.Name, err)
		}
	}
	if def.Collision != nil {
		response, err = s.registry.NewResponse(def.Collision.Response)
		if err != nil {
			s.forget(def.Name, e)
			return fmt.Errorf("spawn %q: %w", def.Name, err)
		}
	}

	s.targets.Entities().Add(e)
	if def.Movement != nil || def.Physics != nil {
		s.targets.Movement().AddEntity(e, behavior)
	}
	if c := def.Collision; c != nil {
		s.targets.Collisions().Register(collision.NewBody(e, c.Radius, c.Movable), response)
	}
	return nil
}

func (s *Spawner) forget(name string, e *models.Entity) {
	if cur, ok := s.named[name]; ok && cur == e {
		delete(s.named, name)
	}
}
