package entities

import (
	"fmt"

	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/pkg/sequence"
)

var _ bus.Listener = (*Manager)(nil)

// Manager owns the entity population.
//
// Mutations are buffered: Add and Remove only enqueue, and the queues are
// committed at the start of the next UpdateAll (removals first, then
// additions). Readers only ever see the committed population, so entities
// spawned or destroyed while the frame is iterating never disturb it.
//
// The manager listens on the bus: EventPaused suspends UpdateAll,
// EventResumed re-enables it and EventStart clears everything.
type Manager struct {
	bus bus.EventBus
	log log.Log

	byID  map[models.EntityID]*models.Entity
	order []*models.Entity

	pendingAdd    []*models.Entity
	pendingRemove []models.EntityID

	paused bool
	subs   []bus.Subscription
}

func NewManager(eventBus bus.EventBus, logger log.Log) (*Manager, error) {
	if eventBus == nil {
		return nil, ErrNilBus
	}
	m := &Manager{
		bus:  eventBus,
		log:  log.OrNop(logger).With(log.String("system", "entities")),
		byID: make(map[models.EntityID]*models.Entity),
	}
	for _, kind := range []string{bus.EventPaused, bus.EventResumed, bus.EventStart} {
		sub, err := eventBus.Subscribe(kind, m)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("subscribe %s: %w", kind, err)
		}
		m.subs = append(m.subs, sub)
	}
	return m, nil
}

// OnEvent implements bus.Listener.
func (m *Manager) OnEvent(e bus.Event) error {
	switch e.Type() {
	case bus.EventPaused:
		m.paused = true
	case bus.EventResumed:
		m.paused = false
	case bus.EventStart:
		m.Clear()
	}
	return nil
}

// Create makes a new active entity and schedules it for addition.
func (m *Manager) Create(name string) *models.Entity {
	e := models.NewEntity(name)
	m.Add(e)
	return e
}

// Add schedules e for addition at the next commit.
func (m *Manager) Add(e *models.Entity) {
	if e == nil {
		return
	}
	m.pendingAdd = append(m.pendingAdd, e)
}

// Remove schedules the entity with id for removal at the next commit.
// Additions of id queued before this call are cancelled; an Add issued
// after it still commits, since removals commit first.
func (m *Manager) Remove(id models.EntityID) {
	if len(m.pendingAdd) > 0 {
		queued := m.pendingAdd[:0]
		for _, e := range m.pendingAdd {
			if e.ID() != id {
				queued = append(queued, e)
			}
		}
		clear(m.pendingAdd[len(queued):])
		m.pendingAdd = queued
	}
	m.pendingRemove = append(m.pendingRemove, id)
}

func (m *Manager) Get(id models.EntityID) (*models.Entity, bool) {
	e, ok := m.byID[id]
	return e, ok
}

// All returns the committed population in insertion order.
func (m *Manager) All() []*models.Entity {
	return sequence.From(m.order).Collect()
}

// FindByName returns the first committed entity with the given name.
func (m *Manager) FindByName(name string) (*models.Entity, bool) {
	return sequence.From(m.order).Find(func(e *models.Entity) bool { return e.Name() == name })
}

func (m *Manager) Count() int { return len(m.order) }

// Pending reports the number of queued additions and removals.
func (m *Manager) Pending() (adds, removes int) {
	return len(m.pendingAdd), len(m.pendingRemove)
}

func (m *Manager) Paused() bool { return m.paused }

// UpdateAll commits queued mutations and updates every active entity. It is
// a no-op while paused.
func (m *Manager) UpdateAll(deltaTime float64) {
	if m.paused {
		return
	}
	m.commitRemovals()
	m.commitAdditions()

	live := m.order
	for _, e := range live {
		if e.IsActive() {
			e.Update(deltaTime)
		}
	}
}

// Clear drops the population, both queues and the paused flag.
func (m *Manager) Clear() {
	m.byID = make(map[models.EntityID]*models.Entity)
	m.order = nil
	m.pendingAdd = nil
	m.pendingRemove = nil
	m.paused = false
}

// Close detaches the manager from the bus.
func (m *Manager) Close() {
	for _, sub := range m.subs {
		_ = sub.Cancel()
	}
	m.subs = nil
}

func (m *Manager) commitRemovals() {
	if len(m.pendingRemove) == 0 {
		return
	}
	drop := make(map[models.EntityID]struct{}, len(m.pendingRemove))
	for _, id := range m.pendingRemove {
		drop[id] = struct{}{}
	}
	m.pendingRemove = nil

	kept := make([]*models.Entity, 0, len(m.order))
	for _, e := range m.order {
		if _, ok := drop[e.ID()]; ok {
			delete(m.byID, e.ID())
			continue
		}
		kept = append(kept, e)
	}
	removed := len(m.order) - len(kept)
	m.order = kept
	m.log.Debug("entities removed", log.Int("count", removed))
}

func (m *Manager) commitAdditions() {
	if len(m.pendingAdd) == 0 {
		return
	}
	queued := m.pendingAdd
	m.pendingAdd = nil
	added := 0
	for _, e := range queued {
		if _, exists := m.byID[e.ID()]; exists {
			continue
		}
		m.byID[e.ID()] = e
		m.order = append(m.order, e)
		added++
	}
	m.log.Debug("entities added", log.Int("count", added))
}
