package systems

import (
	"time"

	"github.com/zeusync/arena/internal/core/collision"
	"github.com/zeusync/arena/internal/core/models"
)

// EntitySystem is the entity registry as seen by scenes.
type EntitySystem interface {
	Create(name string) *models.Entity
	Add(e *models.Entity)
	Remove(id models.EntityID)
	Get(id models.EntityID) (*models.Entity, bool)
	All() []*models.Entity
	FindByName(name string) (*models.Entity, bool)
	Count() int
}

// CollisionSystem registers collidables and their responses.
type CollisionSystem interface {
	Register(c collision.Collidable, response collision.Response)
	Unregister(c collision.Collidable)
	UnregisterID(id models.EntityID)
	IsRegistered(id models.EntityID) bool
	Touching(a, b models.EntityID) bool
	Count() int
}

// MovementSystem binds entities to movement behaviors.
type MovementSystem interface {
	AddEntity(e *models.Entity, behavior models.MovementBehavior)
	RemoveEntity(id models.EntityID)
	HasEntity(id models.EntityID) bool
	GetBehavior(id models.EntityID) (models.MovementBehavior, bool)
	SetBehavior(id models.EntityID, behavior models.MovementBehavior) bool
	Count() int
}

// ExecutionPhase names one step of the world update.
type ExecutionPhase uint8

const (
	PhaseMovement ExecutionPhase = iota
	PhaseCollision
	PhaseLateUpdate
	PhaseEntities
	phaseCount
)

// Phases lists the world update steps in execution order.
func Phases() []ExecutionPhase {
	return []ExecutionPhase{PhaseMovement, PhaseCollision, PhaseLateUpdate, PhaseEntities}
}

func (p ExecutionPhase) String() string {
	switch p {
	case PhaseMovement:
		return "movement"
	case PhaseCollision:
		return "collision"
	case PhaseLateUpdate:
		return "late_update"
	case PhaseEntities:
		return "entities"
	default:
		return "unknown"
	}
}

// Metrics provides runtime metrics for one phase.
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	LastExecutionTime    time.Duration
}

// Record folds one execution into the metrics.
func (m *Metrics) Record(d time.Duration) {
	m.ExecutionCount++
	m.TotalExecutionTime += d
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	m.LastExecutionTime = d
	if d > m.MaxExecutionTime {
		m.MaxExecutionTime = d
	}
}

// PhaseMetrics holds one Metrics per phase.
type PhaseMetrics [phaseCount]Metrics

func (pm *PhaseMetrics) Of(p ExecutionPhase) Metrics {
	if p >= phaseCount {
		return Metrics{}
	}
	return pm[p]
}

func (pm *PhaseMetrics) Record(p ExecutionPhase, d time.Duration) {
	if p < phaseCount {
		pm[p].Record(d)
	}
}
