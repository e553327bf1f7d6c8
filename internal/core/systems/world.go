package systems

import (
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/scene"
)

// Navigator exposes scene transitions. SetScene and an applied
// RequestScene clear the world before the new scene loads; push and pop
// leave it alone.
type Navigator interface {
	SetScene(s scene.Scene) error
	RequestScene(s scene.Scene) error
	PushScene(s scene.Scene) error
	PopScene() bool
	CurrentScene() scene.Scene
	// Depth is the number of stacked scenes.
	Depth() int
}

// World is what scenes see of the running engine.
type World interface {
	Navigator

	Entities() EntitySystem
	Collisions() CollisionSystem
	Movement() MovementSystem

	// Read-only queries over the committed entity population.

	AllEntities() []*models.Entity
	EntityByName(name string) (*models.Entity, bool)

	Factory() scene.Factory
	Input() devices.InputController
	Audio() devices.AudioController
	Bus() bus.EventBus

	Size() (width, height int)
	Frame() uint64
}
