package engine

import (
	"fmt"
	"time"

	"github.com/zeusync/arena/internal/core/collision"
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/entities"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/movement"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/scene"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/pkg/sequence"
)

var _ systems.World = (*Engine)(nil)

// Config holds the engine's tunables.
type Config struct {
	Width, Height int
	// MaxDelta caps the delta of a single frame; zero disables the cap.
	MaxDelta float64
	// CollisionSound is played once per newly resolved contact.
	CollisionSound string
}

// FactoryFunc builds the scene factory once the engine exists, so scenes
// built by it can hold the engine as their World.
type FactoryFunc func(w systems.World) scene.Factory

// Deps are the collaborators the engine does not own.
type Deps struct {
	Bus     bus.EventBus
	Input   devices.InputController
	Audio   devices.AudioController
	Log     log.Log
	Factory FactoryFunc
}

// Engine is the frame scheduler. It owns one manager per subsystem and
// runs them in a fixed order every frame:
//
//  1. poll devices
//  2. clear collision, movement and entity state if a scene replacement is
//     pending
//  3. update the scene stack, which applies the replacement
//  4. consume the replacement flag
//  5. unless the top scene blocks the world: movement, collision, the top
//     scene's LateUpdate, entity updates
type Engine struct {
	cfg Config
	bus bus.EventBus
	log log.Log

	input devices.InputController
	audio devices.AudioController

	entities  *entities.Manager
	collision *collision.Manager
	movement  *movement.Manager
	scenes    *scene.Manager
	factory   scene.Factory

	width, height int
	frame         uint64
	metrics       systems.PhaseMetrics
	disposed      bool
}

// New validates its inputs and builds the managers. Misuse fails here
// rather than during a frame.
func New(cfg Config, deps Deps) (*Engine, error) {
	switch {
	case deps.Bus == nil:
		return nil, ErrNilBus
	case deps.Input == nil:
		return nil, ErrNilInput
	case deps.Audio == nil:
		return nil, ErrNilAudio
	case deps.Factory == nil:
		return nil, ErrNilFactory
	case cfg.Width <= 0 || cfg.Height <= 0:
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cfg.Width, cfg.Height)
	}
	logger := log.OrNop(deps.Log)

	em, err := entities.NewManager(deps.Bus, logger)
	if err != nil {
		return nil, fmt.Errorf("entities: %w", err)
	}
	cm, err := collision.NewManager(deps.Bus, logger)
	if err != nil {
		em.Close()
		return nil, fmt.Errorf("collision: %w", err)
	}
	mm, err := movement.NewManager(deps.Bus, logger)
	if err != nil {
		em.Close()
		return nil, fmt.Errorf("movement: %w", err)
	}
	sm, err := scene.NewManager(deps.Bus, logger)
	if err != nil {
		em.Close()
		return nil, fmt.Errorf("scenes: %w", err)
	}
	if cfg.CollisionSound != "" {
		cm.SetSound(deps.Audio, cfg.CollisionSound)
	}

	e := &Engine{
		cfg:       cfg,
		bus:       deps.Bus,
		log:       logger.With(log.String("system", "engine")),
		input:     deps.Input,
		audio:     deps.Audio,
		entities:  em,
		collision: cm,
		movement:  mm,
		scenes:    sm,
		width:     cfg.Width,
		height:    cfg.Height,
	}
	e.factory = deps.Factory(e)
	if e.factory == nil {
		em.Close()
		return nil, ErrNilFactory
	}
	return e, nil
}

// Start installs the first scene; nil means the factory's main menu.
func (e *Engine) Start(initial scene.Scene) error {
	if e.disposed {
		return ErrDisposed
	}
	if initial == nil {
		initial = e.factory.CreateMainMenu()
	}
	e.log.Info("engine starting", log.String("scene", initial.Name()),
		log.Int("width", e.width), log.Int("height", e.height))
	return e.SetScene(initial)
}

// Update runs one frame.
func (e *Engine) Update(deltaTime float64) error {
	if e.disposed {
		return ErrDisposed
	}
	dt := e.clampDelta(deltaTime)

	devices.Poll(e.input, e.audio)

	if e.scenes.HasPendingReplacement() {
		e.clearWorld()
	}
	err := e.scenes.Update(dt)
	if e.scenes.ConsumeReplaced() {
		e.log.Debug("world rebuilt", log.Uint64("frame", e.frame))
	}

	paused := e.scenes.BlocksWorldUpdate()
	if !paused {
		e.timed(systems.PhaseMovement, func() { e.movement.UpdateAll(dt) })
		e.timed(systems.PhaseCollision, func() { e.collision.Update(dt) })
		e.timed(systems.PhaseLateUpdate, func() { e.scenes.LateUpdate(dt) })
		e.timed(systems.PhaseEntities, func() { e.entities.UpdateAll(dt) })
	}

	e.frame++
	e.logFrame(paused)
	e.publishFrame(dt, paused)
	if err != nil {
		return fmt.Errorf("frame %d: %w", e.frame, err)
	}
	return nil
}

func (e *Engine) Render(r devices.Renderer) {
	if e.disposed || r == nil {
		return
	}
	e.scenes.Render(r)
}

// Resize ignores non-positive sizes.
func (e *Engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		e.log.Warn("ignored resize", log.Int("width", width), log.Int("height", height))
		return
	}
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	e.scenes.Resize(width, height)
}

// Dispose tears down every scene and all world state. The engine is
// unusable afterwards.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.scenes.Dispose()
	e.clearWorld()
	e.entities.Close()
	e.audio.StopMusic()
	e.log.Info("engine disposed", log.Uint64("frames", e.frame))
}

// SetScene clears the world and replaces the scene stack immediately.
func (e *Engine) SetScene(s scene.Scene) error {
	if s == nil {
		return scene.ErrNilScene
	}
	if e.scenes.Contains(s) {
		return fmt.Errorf("%w: %s", scene.ErrSceneInUse, s.Name())
	}
	e.clearWorld()
	return e.scenes.SetScene(s)
}

func (e *Engine) RequestScene(s scene.Scene) error { return e.scenes.RequestScene(s) }
func (e *Engine) PushScene(s scene.Scene) error    { return e.scenes.PushScene(s) }
func (e *Engine) PopScene() bool                   { return e.scenes.PopScene() }
func (e *Engine) CurrentScene() scene.Scene        { return e.scenes.Current() }

// Depth is the number of stacked scenes.
func (e *Engine) Depth() int { return e.scenes.Depth() }

func (e *Engine) Entities() systems.EntitySystem      { return e.entities }
func (e *Engine) Collisions() systems.CollisionSystem { return e.collision }
func (e *Engine) Movement() systems.MovementSystem    { return e.movement }

func (e *Engine) AllEntities() []*models.Entity { return e.entities.All() }

func (e *Engine) EntityByName(name string) (*models.Entity, bool) {
	return e.entities.FindByName(name)
}

func (e *Engine) Factory() scene.Factory         { return e.factory }
func (e *Engine) Input() devices.InputController { return e.input }
func (e *Engine) Audio() devices.AudioController { return e.audio }
func (e *Engine) Bus() bus.EventBus              { return e.bus }
func (e *Engine) Size() (int, int)               { return e.width, e.height }
func (e *Engine) Frame() uint64                  { return e.frame }

// Metrics returns per-phase timings of the world update.
func (e *Engine) Metrics() systems.PhaseMetrics { return e.metrics }

// Snapshot copies the committed population.
func (e *Engine) Snapshot() []EntitySnapshot {
	return sequence.Map(sequence.From(e.entities.All()), snapshotOf).Collect()
}

func (e *Engine) clearWorld() {
	e.collision.Clear()
	e.movement.Clear()
	e.entities.Clear()
}

func (e *Engine) clampDelta(dt float64) float64 {
	if dt < 0 {
		return 0
	}
	if e.cfg.MaxDelta > 0 && dt > e.cfg.MaxDelta {
		return e.cfg.MaxDelta
	}
	return dt
}

func (e *Engine) timed(phase systems.ExecutionPhase, fn func()) {
	start := time.Now()
	fn()
	e.metrics.Record(phase, time.Since(start))
}

func (e *Engine) logFrame(worldPaused bool) {
	if e.log.GetLevel() > log.LevelDebug {
		return
	}
	fields := []log.Field{
		log.Uint64("frame", e.frame),
		log.Bool("world_paused", worldPaused),
		log.Bool("entities_paused", e.entities.Paused()),
	}
	if !worldPaused {
		for _, p := range systems.Phases() {
			fields = append(fields, log.Duration(p.String(), e.metrics.Of(p).LastExecutionTime))
		}
	}
	e.log.Debug("frame completed", fields...)
}

func (e *Engine) publishFrame(dt float64, worldPaused bool) {
	if !e.bus.HasSubscribers(bus.EventFrameCompleted) {
		return
	}
	name := ""
	if top := e.scenes.Current(); top != nil {
		name = top.Name()
	}
	snap := FrameSnapshot{
		Frame:          e.frame,
		Delta:          dt,
		Scene:          name,
		Depth:          e.scenes.Depth(),
		WorldPaused:    worldPaused,
		EntitiesPaused: e.entities.Paused(),
		Entities:       e.Snapshot(),
	}
	err := e.bus.Publish(bus.NewEvent(bus.EventFrameCompleted, "engine", map[string]any{
		"frame":    e.frame,
		"snapshot": snap,
	}))
	if err != nil {
		e.log.Warn("frame listeners failed", log.Error(err))
	}
}
