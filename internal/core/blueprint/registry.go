package blueprint

import (
	"fmt"
	"sync"

	"github.com/zeusync/arena/internal/core/collision"
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/movement"
)

// Env is what behavior factories may consult while an entity is built.
type Env interface {
	Input() devices.InputController
	Lookup(name string) (*models.Entity, bool)
}

// BehaviorFactory builds the movement behavior for e.
type BehaviorFactory func(env Env, e *models.Entity, spec MovementSpec) (models.MovementBehavior, error)

// ResponseFactory builds a collision response.
type ResponseFactory func() collision.Response

// Registry maps movement kinds and response names to constructors.
type Registry struct {
	mu        sync.RWMutex
	behaviors map[string]BehaviorFactory
	responses map[string]ResponseFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		behaviors: make(map[string]BehaviorFactory),
		responses: make(map[string]ResponseFactory),
	}
}

// DefaultRegistry returns a registry with the built-in kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

func (r *Registry) RegisterBehavior(kind string, factory BehaviorFactory) {
	r.mu.Lock()
	r.behaviors[kind] = factory
	r.mu.Unlock()
}

func (r *Registry) RegisterResponse(name string, factory ResponseFactory) {
	r.mu.Lock()
	r.responses[name] = factory
	r.mu.Unlock()
}

func (r *Registry) NewBehavior(env Env, e *models.Entity, spec MovementSpec) (models.MovementBehavior, error) {
	r.mu.RLock()
	f := r.behaviors[spec.Kind]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBehavior, spec.Kind)
	}
	return f(env, e, spec)
}

// NewResponse builds the named response. An empty name means Bounce.
func (r *Registry) NewResponse(name string) (collision.Response, error) {
	if name == "" {
		return collision.Bounce{}, nil
	}
	r.mu.RLock()
	f := r.responses[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResponse, name)
	}
	return f(), nil
}

// Movement kinds registered by RegisterBuiltins.
const (
	KindNone   = "none"
	KindLinear = "linear"
	KindFollow = "follow"
	KindWander = "wander"
	KindInput  = "input"
)

// RegisterBuiltins registers the stock behaviors and the three stock
// responses.
func RegisterBuiltins(r *Registry) {
	r.RegisterBehavior(KindNone, func(Env, *models.Entity, MovementSpec) (models.MovementBehavior, error) {
		return nil, nil
	})
	r.RegisterBehavior(KindLinear, func(_ Env, _ *models.Entity, s MovementSpec) (models.MovementBehavior, error) {
		if s.Direction.IsZero() {
			return nil, fmt.Errorf("%w: linear movement needs a direction", ErrInvalidDefinition)
		}
		return movement.NewLinear(s.Direction, s.Speed), nil
	})
	r.RegisterBehavior(KindFollow, func(env Env, _ *models.Entity, s MovementSpec) (models.MovementBehavior, error) {
		target, ok := env.Lookup(s.Target)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, s.Target)
		}
		return movement.NewFollow(target, s.Speed), nil
	})
	r.RegisterBehavior(KindWander, func(_ Env, e *models.Entity, s MovementSpec) (models.MovementBehavior, error) {
		interval := s.Interval
		if interval <= 0 {
			interval = 1
		}
		key := models.EntityID(e.Name())
		if key == "" {
			key = e.ID()
		}
		return movement.NewWander(s.Speed, interval, movement.SeedFor(key, s.Seed)), nil
	})
	r.RegisterBehavior(KindInput, func(env Env, _ *models.Entity, s MovementSpec) (models.MovementBehavior, error) {
		return movement.NewInputDriven(movement.NewActionSteering(env.Input(), s.Speed)), nil
	})

	r.RegisterResponse(collision.StrategyBounce.String(), func() collision.Response { return collision.Bounce{} })
	r.RegisterResponse(collision.StrategyDestroy.String(), func() collision.Response { return collision.Destroy{} })
	r.RegisterResponse(collision.StrategyPassThrough.String(), func() collision.Response { return collision.PassThrough{} })
}
