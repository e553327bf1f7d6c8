package movement

import (
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

type binding struct {
	entity   *models.Entity
	behavior models.MovementBehavior
}

// Manager binds entities to optional movement behaviors.
//
// Each frame, for every bound active entity, it first integrates velocity
// into position (when both Physics and Transform are present) and then runs
// the behavior. Behaviors that move the Transform directly show up in the
// same frame; behaviors that only write velocity show up on the next
// frame's integration.
type Manager struct {
	bus bus.EventBus
	log log.Log

	bindings []binding
	index    map[models.EntityID]int
}

func NewManager(eventBus bus.EventBus, logger log.Log) (*Manager, error) {
	if eventBus == nil {
		return nil, ErrNilBus
	}
	return &Manager{
		bus:   eventBus,
		log:   log.OrNop(logger).With(log.String("system", "movement")),
		index: make(map[models.EntityID]int),
	}, nil
}

// AddEntity binds e to behavior. A nil behavior makes e physics-only.
// Binding an entity again replaces its behavior.
func (m *Manager) AddEntity(e *models.Entity, behavior models.MovementBehavior) {
	if e == nil {
		return
	}
	if i, ok := m.index[e.ID()]; ok {
		m.bindings[i].behavior = behavior
	} else {
		m.index[e.ID()] = len(m.bindings)
		m.bindings = append(m.bindings, binding{entity: e, behavior: behavior})
	}
	syncComponent(e, behavior)
}

func (m *Manager) RemoveEntity(id models.EntityID) {
	i, ok := m.index[id]
	if !ok {
		return
	}
	next := make([]binding, 0, len(m.bindings)-1)
	next = append(next, m.bindings[:i]...)
	next = append(next, m.bindings[i+1:]...)
	m.bindings = next
	delete(m.index, id)
	for j := i; j < len(m.bindings); j++ {
		m.index[m.bindings[j].entity.ID()] = j
	}
}

func (m *Manager) HasEntity(id models.EntityID) bool {
	_, ok := m.index[id]
	return ok
}

// GetBehavior returns the bound behavior. ok is false when the entity is
// not bound or is bound without a behavior.
func (m *Manager) GetBehavior(id models.EntityID) (models.MovementBehavior, bool) {
	i, ok := m.index[id]
	if !ok || m.bindings[i].behavior == nil {
		return nil, false
	}
	return m.bindings[i].behavior, true
}

// SetBehavior rebinds a bound entity. Returns false if it is not bound.
func (m *Manager) SetBehavior(id models.EntityID, behavior models.MovementBehavior) bool {
	i, ok := m.index[id]
	if !ok {
		return false
	}
	m.bindings[i].behavior = behavior
	syncComponent(m.bindings[i].entity, behavior)
	return true
}

func (m *Manager) Count() int { return len(m.bindings) }

func (m *Manager) Clear() {
	m.bindings = nil
	m.index = make(map[models.EntityID]int)
}

// UpdateAll integrates and then steers every bound active entity.
func (m *Manager) UpdateAll(deltaTime float64) {
	list := make([]binding, len(m.bindings))
	copy(list, m.bindings)

	for _, b := range list {
		e := b.entity
		if !e.IsActive() {
			continue
		}
		if p, t := e.Physics(), e.Transform(); p != nil && t != nil {
			t.Position = physics.Integrate(t.Position, p.Velocity, deltaTime)
		}
		if b.behavior != nil {
			b.behavior.Move(e, deltaTime)
		}
	}
}

// syncComponent keeps the entity's Movement component pointing at the
// bound behavior.
func syncComponent(e *models.Entity, behavior models.MovementBehavior) {
	if mv := e.Movement(); mv != nil {
		mv.Behavior = behavior
		return
	}
	if behavior != nil {
		e.Add(models.NewMovement(behavior))
	}
}
