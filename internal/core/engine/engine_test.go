package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/core/collision"
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/scene"
	"github.com/zeusync/arena/internal/core/systems"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// stage is a configurable scene for driving the engine.
type stage struct {
	scene.Base
	world   systems.World
	onLoad  func(w systems.World) error
	onLate  func()
	updates int
	resized [2]int
	worldAt map[string]int
}

func newStage(name string, w systems.World) *stage {
	return &stage{Base: scene.NewBase(name, false), world: w}
}

func (s *stage) Load() error {
	s.worldAt = map[string]int{
		"entities":  s.world.Entities().Count(),
		"movement":  s.world.Movement().Count(),
		"collision": s.world.Collisions().Count(),
	}
	adds := 0
	if em, ok := s.world.Entities().(interface{ Pending() (int, int) }); ok {
		adds, _ = em.Pending()
	}
	s.worldAt["pending"] = adds
	if s.onLoad != nil {
		return s.onLoad(s.world)
	}
	return nil
}

func (s *stage) Update(float64) error {
	s.updates++
	return nil
}

func (s *stage) LateUpdate(float64) {
	if s.onLate != nil {
		s.onLate()
	}
}

func (s *stage) Resize(w, h int) { s.resized = [2]int{w, h} }

type testFactory struct{ w systems.World }

func (f testFactory) CreateMainMenu() scene.Scene { return newStage("menu", f.w) }
func (f testFactory) CreateGameplay() scene.Scene { return newStage("gameplay", f.w) }
func (f testFactory) CreateSettings() scene.Scene { return newStage("settings", f.w) }

type recorder struct {
	models.Owned
	fn func()
}

func (*recorder) Kind() models.ComponentKind { return models.KindSprite }
func (r *recorder) OnUpdate(float64)         { r.fn() }

type behaviorFunc func(e *models.Entity, dt float64)

func (f behaviorFunc) Move(e *models.Entity, dt float64) { f(e, dt) }

func newEngine(t *testing.T) (*Engine, bus.EventBus) {
	t.Helper()
	b := bus.New()
	e, err := New(Config{Width: 800, Height: 600, MaxDelta: 0.25}, Deps{
		Bus:     b,
		Input:   devices.NewActionInput(devices.NewScriptedKeys(), nil),
		Audio:   devices.NewMixer(nil, 1, 1, nil),
		Factory: func(w systems.World) scene.Factory { return testFactory{w: w} },
	})
	require.NoError(t, err)
	return e, b
}

// populate spawns one entity bound everywhere.
func populate(w systems.World, name string) *models.Entity {
	ent := w.Entities().Create(name)
	ent.Add(models.NewTransform(physics.Zero(), 0))
	w.Movement().AddEntity(ent, nil)
	w.Collisions().Register(collision.NewBody(ent, 1, false), nil)
	return ent
}

func TestNewFailsFast(t *testing.T) {
	input := devices.NewActionInput(nil, nil)
	audio := devices.NewMixer(nil, 1, 1, nil)
	factory := func(w systems.World) scene.Factory { return testFactory{w: w} }
	cases := []struct {
		name string
		cfg  Config
		deps Deps
		want error
	}{
		{"bus", Config{Width: 1, Height: 1}, Deps{Input: input, Audio: audio, Factory: factory}, ErrNilBus},
		{"input", Config{Width: 1, Height: 1}, Deps{Bus: bus.New(), Audio: audio, Factory: factory}, ErrNilInput},
		{"audio", Config{Width: 1, Height: 1}, Deps{Bus: bus.New(), Input: input, Factory: factory}, ErrNilAudio},
		{"factory", Config{Width: 1, Height: 1}, Deps{Bus: bus.New(), Input: input, Audio: audio}, ErrNilFactory},
		{"nil factory result", Config{Width: 1, Height: 1}, Deps{Bus: bus.New(), Input: input, Audio: audio,
			Factory: func(systems.World) scene.Factory { return nil }}, ErrNilFactory},
		{"width", Config{Width: 0, Height: 1}, Deps{Bus: bus.New(), Input: input, Audio: audio, Factory: factory}, ErrInvalidSize},
		{"height", Config{Width: 1, Height: -1}, Deps{Bus: bus.New(), Input: input, Audio: audio, Factory: factory}, ErrInvalidSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg, tc.deps)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStartUsesMainMenu(t *testing.T) {
	e, _ := newEngine(t)
	require.NoError(t, e.Start(nil))
	require.NotNil(t, e.CurrentScene())
	assert.Equal(t, "menu", e.CurrentScene().Name())
	assert.True(t, e.CurrentScene().Loaded())
}

func TestWorldPhasesRunInFixedOrder(t *testing.T) {
	e, _ := newEngine(t)
	var order []string
	s := newStage("play", e)
	s.onLoad = func(w systems.World) error {
		a := populate(w, "a")
		populate(w, "b")
		a.Add(&recorder{fn: func() { order = append(order, "entities") }})
		w.Movement().AddEntity(a, behaviorFunc(func(*models.Entity, float64) { order = append(order, "movement") }))
		return nil
	}
	s.onLate = func() { order = append(order, "late") }
	e.collision.OnContact(func(collision.Info, collision.Strategy) { order = append(order, "collision") })

	require.NoError(t, e.Start(s))
	require.NoError(t, e.Update(0.016))
	assert.Equal(t, []string{"movement", "collision", "late", "entities"}, order)

	order = nil
	require.NoError(t, e.Update(0.016))
	assert.Equal(t, []string{"movement", "late", "entities"}, order, "persisting contact is not resolved again")
	assert.Equal(t, uint64(2), e.Frame())
	metrics := e.Metrics()
	assert.Equal(t, uint64(2), metrics.Of(systems.PhaseCollision).ExecutionCount)
}

func TestPushSceneKeepsWorld(t *testing.T) {
	e, _ := newEngine(t)
	game := newStage("game", e)
	game.onLoad = func(w systems.World) error {
		populate(w, "hero")
		return nil
	}
	require.NoError(t, e.Start(game))
	require.NoError(t, e.Update(0.016))
	require.Equal(t, 1, e.Entities().Count())

	settings := newStage("settings", e)
	require.NoError(t, e.PushScene(settings))
	require.NoError(t, e.Update(0.016))
	assert.Equal(t, 1, e.Entities().Count())
	assert.Equal(t, 1, e.Movement().Count())
	assert.Equal(t, 1, e.Collisions().Count())
	assert.Equal(t, 1, settings.worldAt["entities"])

	assert.True(t, e.PopScene())
	assert.Same(t, game, e.CurrentScene())
	require.NoError(t, e.Update(0.016))
	_, ok := e.EntityByName("hero")
	assert.True(t, ok)
}

func TestRequestSceneClearsWorldBeforeLoad(t *testing.T) {
	e, _ := newEngine(t)
	game := newStage("game", e)
	game.onLoad = func(w systems.World) error {
		populate(w, "hero")
		return nil
	}
	require.NoError(t, e.Start(game))
	require.NoError(t, e.Update(0.016))

	next := newStage("next", e)
	require.NoError(t, e.RequestScene(next))
	assert.Same(t, game, e.CurrentScene(), "request is deferred")
	assert.Equal(t, 1, e.Entities().Count())

	require.NoError(t, e.Update(0.016))
	assert.Same(t, next, e.CurrentScene())
	assert.Equal(t, map[string]int{"entities": 0, "movement": 0, "collision": 0, "pending": 0}, next.worldAt)
	assert.Equal(t, 1, next.updates)
	assert.Zero(t, e.Entities().Count())
	assert.False(t, e.scenes.ConsumeReplaced(), "flag consumed by the engine")
}

func TestSetSceneClearsWorldImmediately(t *testing.T) {
	e, _ := newEngine(t)
	game := newStage("game", e)
	game.onLoad = func(w systems.World) error {
		populate(w, "hero")
		return nil
	}
	require.NoError(t, e.Start(game))
	require.NoError(t, e.Update(0.016))

	next := newStage("next", e)
	require.NoError(t, e.SetScene(next))
	assert.Equal(t, 0, next.worldAt["entities"])
	assert.Equal(t, 0, next.worldAt["collision"])
	assert.ErrorIs(t, e.SetScene(next), scene.ErrSceneInUse)
	assert.ErrorIs(t, e.SetScene(nil), scene.ErrNilScene)
}

func TestSetSceneDiscardsEarlierRequest(t *testing.T) {
	e, _ := newEngine(t)
	require.NoError(t, e.Start(newStage("menu", e)))

	requested := newStage("requested", e)
	require.NoError(t, e.RequestScene(requested))

	game := newStage("game", e)
	game.onLoad = func(w systems.World) error {
		populate(w, "hero")
		return nil
	}
	require.NoError(t, e.SetScene(game))
	require.NoError(t, e.Update(0.016))

	assert.Same(t, game, e.CurrentScene())
	assert.False(t, requested.Loaded())
	assert.Equal(t, 1, e.Entities().Count())
	assert.Equal(t, 1, e.Collisions().Count())
	assert.Equal(t, 1, e.Movement().Count())
}

func TestBlockingOverlaySuspendsWorld(t *testing.T) {
	e, _ := newEngine(t)
	var updates int
	game := newStage("game", e)
	game.onLoad = func(w systems.World) error {
		ent := w.Entities().Create("ticker")
		ent.Add(&recorder{fn: func() { updates++ }})
		return nil
	}
	require.NoError(t, e.Start(game))
	require.NoError(t, e.Update(0.016))
	require.Equal(t, 1, updates)

	pause := newStage("pause", e)
	pause.SetBlocksWorldUpdate(true)
	require.NoError(t, e.PushScene(pause))
	require.NoError(t, e.Update(0.016))
	require.NoError(t, e.Update(0.016))
	assert.Equal(t, 1, updates)
	assert.Equal(t, 2, pause.updates, "the overlay itself still updates")

	e.PopScene()
	require.NoError(t, e.Update(0.016))
	assert.Equal(t, 2, updates)
}

func TestPausedEventSkipsEntityUpdates(t *testing.T) {
	e, b := newEngine(t)
	var updates int
	game := newStage("game", e)
	game.onLoad = func(w systems.World) error {
		ent := w.Entities().Create("ticker")
		ent.Add(&recorder{fn: func() { updates++ }})
		return nil
	}
	require.NoError(t, e.Start(game))
	require.NoError(t, e.Update(0.016))
	require.Equal(t, 1, updates)

	require.NoError(t, b.Publish(bus.NewEvent(bus.EventPaused, "test", nil)))
	require.NoError(t, e.Update(0.016))
	require.NoError(t, b.Publish(bus.NewEvent(bus.EventResumed, "test", nil)))
	assert.Equal(t, 1, updates)

	require.NoError(t, e.Update(0.016))
	assert.Equal(t, 2, updates)
}

func TestFrameCompletedCarriesSnapshot(t *testing.T) {
	e, b := newEngine(t)
	game := newStage("game", e)
	game.onLoad = func(w systems.World) error {
		ent := w.Entities().Create("mover")
		ent.Add(models.NewTransform(physics.Vec2(1, 2), 0.5))
		ent.Add(models.NewPhysics(physics.Vec2(3, 4), 1))
		return nil
	}
	var got []FrameSnapshot
	_, err := b.SubscribeFunc(bus.EventFrameCompleted, func(ev bus.Event) error {
		v, _ := ev.Param("snapshot")
		got = append(got, v.(FrameSnapshot))
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, e.Start(game))
	require.NoError(t, e.Update(1))
	require.Len(t, got, 1)
	snap := got[0]
	assert.Equal(t, uint64(1), snap.Frame)
	assert.Equal(t, 0.25, snap.Delta, "delta is capped")
	assert.Equal(t, "game", snap.Scene)
	assert.Equal(t, 1, snap.Depth)
	require.Len(t, snap.Entities, 1)
	assert.Equal(t, EntitySnapshot{
		ID: string(snap.Entities[0].ID), Name: "mover", Active: true,
		X: 1, Y: 2, Rotation: 0.5, VX: 3, VY: 4,
	}, snap.Entities[0])
}

func TestSnapshotReportsBothPauseFlags(t *testing.T) {
	e, b := newEngine(t)
	var got []FrameSnapshot
	_, err := b.SubscribeFunc(bus.EventFrameCompleted, func(ev bus.Event) error {
		v, _ := ev.Param("snapshot")
		got = append(got, v.(FrameSnapshot))
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, e.Start(newStage("game", e)))

	require.NoError(t, b.Publish(bus.NewEvent(bus.EventPaused, "test", nil)))
	require.NoError(t, e.Update(0.016))

	overlay := newStage("overlay", e)
	overlay.SetBlocksWorldUpdate(true)
	require.NoError(t, e.PushScene(overlay))
	require.NoError(t, b.Publish(bus.NewEvent(bus.EventResumed, "test", nil)))
	require.NoError(t, e.Update(0.016))

	require.Len(t, got, 2)
	assert.True(t, got[0].EntitiesPaused)
	assert.False(t, got[0].WorldPaused)
	assert.False(t, got[1].EntitiesPaused)
	assert.True(t, got[1].WorldPaused)
}

func TestDebugFrameLogCarriesPhaseTimings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.log")
	logger := log.New(log.LevelDebug, log.WithOutputPaths(path))
	e, err := New(Config{Width: 800, Height: 600}, Deps{
		Bus:     bus.New(),
		Input:   devices.NewActionInput(devices.NewScriptedKeys(), nil),
		Audio:   devices.NewMixer(nil, 1, 1, nil),
		Log:     logger,
		Factory: func(w systems.World) scene.Factory { return testFactory{w: w} },
	})
	require.NoError(t, err)
	require.NoError(t, e.Start(nil))
	require.NoError(t, e.Update(0.016))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"frame completed"`)
	assert.Contains(t, out, `"world_paused":false`)
	assert.Contains(t, out, `"entities_paused":false`)
	for _, p := range systems.Phases() {
		assert.Contains(t, out, `"`+p.String()+`":`)
	}
}

func TestSceneErrorsSurfaceFromUpdate(t *testing.T) {
	e, _ := newEngine(t)
	broken := newStage("broken", e)
	boom := errors.New("boom")
	broken.onLoad = func(systems.World) error { return boom }
	require.NoError(t, e.Start(nil))
	require.NoError(t, e.RequestScene(broken))

	err := e.Update(0.016)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(1), e.Frame(), "the frame still completes")
}

func TestResizeAndSize(t *testing.T) {
	e, _ := newEngine(t)
	s := newStage("game", e)
	require.NoError(t, e.Start(s))

	e.Resize(1024, 768)
	w, h := e.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.Equal(t, [2]int{1024, 768}, s.resized)

	e.Resize(0, 100)
	w, _ = e.Size()
	assert.Equal(t, 1024, w)
}

func TestDispose(t *testing.T) {
	e, b := newEngine(t)
	game := newStage("game", e)
	game.onLoad = func(w systems.World) error {
		populate(w, "hero")
		return nil
	}
	require.NoError(t, e.Start(game))
	require.NoError(t, e.Update(0.016))

	e.Dispose()
	e.Dispose()
	assert.Nil(t, e.CurrentScene())
	assert.Zero(t, e.Entities().Count())
	assert.False(t, b.HasSubscribers(bus.EventPaused), "entity manager detached")
	assert.ErrorIs(t, e.Update(0.016), ErrDisposed)
	assert.ErrorIs(t, e.Start(nil), ErrDisposed)
	assert.NotPanics(t, func() { e.Render(devices.NopRenderer()) })
}

func TestAccessors(t *testing.T) {
	e, b := newEngine(t)
	assert.Same(t, b, e.Bus())
	assert.NotNil(t, e.Input())
	assert.NotNil(t, e.Audio())
	assert.Equal(t, "gameplay", e.Factory().CreateGameplay().Name())
	assert.Empty(t, e.AllEntities())
	assert.Empty(t, e.Snapshot())
}
