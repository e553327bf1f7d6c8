package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

type countingBehavior struct {
	calls   int
	seenPos []physics.Vector2
}

func (c *countingBehavior) Move(e *models.Entity, _ float64) {
	c.calls++
	c.seenPos = append(c.seenPos, e.Transform().Position)
}

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(bus.New(), nil)
	require.NoError(t, err)
	return m
}

func entityAt(pos physics.Vector2) *models.Entity {
	e := models.NewEntity("e")
	e.Add(models.NewTransform(pos, 0))
	return e
}

func TestNewManagerRequiresBus(t *testing.T) {
	_, err := NewManager(nil, nil)
	assert.ErrorIs(t, err, ErrNilBus)
}

func TestLinearExample(t *testing.T) {
	m := newManager(t)
	e := entityAt(physics.Zero())
	lin := NewLinear(physics.Vec2(1, 0), 100)
	m.AddEntity(e, lin)

	m.UpdateAll(0.5)
	assert.Equal(t, 50.0, e.Transform().Position.X)

	lin.ReverseX()
	m.UpdateAll(0.5)
	assert.Equal(t, 0.0, e.Transform().Position.X)
	assert.Equal(t, physics.Vec2(-1, 0), lin.Direction())

	lin.ReverseY()
	assert.Equal(t, physics.Vec2(-1, 0), lin.Direction(), "zero Y stays zero")
}

func TestIntegrationRunsBeforeBehavior(t *testing.T) {
	m := newManager(t)
	e := entityAt(physics.Zero())
	e.Add(models.NewPhysics(physics.Vec2(10, 0), 1))
	counter := &countingBehavior{}
	m.AddEntity(e, counter)

	m.UpdateAll(1)
	require.Len(t, counter.seenPos, 1)
	assert.Equal(t, physics.Vec2(10, 0), counter.seenPos[0], "behavior sees post-integration position")
}

func TestPhysicsOnlyEntity(t *testing.T) {
	m := newManager(t)
	e := entityAt(physics.Vec2(1, 1))
	e.Add(models.NewPhysics(physics.Vec2(2, -2), 1))
	m.AddEntity(e, nil)

	m.UpdateAll(0.5)
	assert.Equal(t, physics.Vec2(2, 0), e.Transform().Position)
	_, ok := m.GetBehavior(e.ID())
	assert.False(t, ok)
	assert.True(t, m.HasEntity(e.ID()))
	assert.Nil(t, e.Movement(), "no movement component without a behavior")
}

func TestInactiveEntitiesAreSkipped(t *testing.T) {
	m := newManager(t)
	e := entityAt(physics.Zero())
	e.Add(models.NewPhysics(physics.Vec2(1, 0), 1))
	counter := &countingBehavior{}
	m.AddEntity(e, counter)
	e.SetActive(false)

	m.UpdateAll(1)
	assert.Zero(t, counter.calls)
	assert.Equal(t, physics.Zero(), e.Transform().Position)
}

func TestInputDrivenTakesEffectNextFrame(t *testing.T) {
	keys := devices.NewScriptedKeys()
	input := devices.NewActionInput(keys, map[string]string{devices.ActionRight: "D", devices.ActionUp: "W"})
	m := newManager(t)
	e := entityAt(physics.Zero())
	e.Add(models.NewPhysics(physics.Zero(), 1))
	m.AddEntity(e, NewInputDriven(NewActionSteering(input, 10)))

	keys.Press("D")
	input.Poll()
	m.UpdateAll(1)
	assert.Equal(t, physics.Zero(), e.Transform().Position, "velocity written after integration")
	assert.Equal(t, physics.Vec2(10, 0), e.Physics().Velocity)

	m.UpdateAll(1)
	assert.Equal(t, physics.Vec2(10, 0), e.Transform().Position)

	keys.Press("W")
	input.Poll()
	m.UpdateAll(0)
	assert.InDelta(t, 10, e.Physics().Velocity.Length(), 1e-9, "diagonal input is normalized")
	assert.Less(t, e.Physics().Velocity.Y, 0.0)
}

func TestInputDrivenWithoutPhysicsIsNoop(t *testing.T) {
	e := entityAt(physics.Zero())
	b := NewInputDriven(NewActionSteering(devices.NewActionInput(nil, nil), 5))
	assert.NotPanics(t, func() { b.Move(e, 1) })
	assert.NotPanics(t, func() { NewInputDriven(nil).Move(e, 1) })
}

func TestFollowSteersTowardTarget(t *testing.T) {
	m := newManager(t)
	target := entityAt(physics.Vec2(100, 0))
	chaser := entityAt(physics.Zero())
	f := NewFollow(target, 10)
	m.AddEntity(chaser, f)

	m.UpdateAll(1)
	assert.Equal(t, physics.Vec2(10, 0), chaser.Transform().Position)

	m.UpdateAll(100)
	assert.Equal(t, physics.Vec2(100, 0), chaser.Transform().Position, "never overshoots")

	target.SetActive(false)
	target.Transform().Position = physics.Vec2(0, 0)
	m.UpdateAll(1)
	assert.Equal(t, physics.Vec2(100, 0), chaser.Transform().Position, "inactive target is ignored")

	f.SetTarget(nil)
	assert.NotPanics(t, func() { m.UpdateAll(1) })
	assert.Nil(t, f.Target())
}

func TestWanderRerollsEveryInterval(t *testing.T) {
	e := entityAt(physics.Zero())
	w := NewWander(10, 1, 42)

	w.Move(e, 0.25)
	first := w.Heading()
	assert.InDelta(t, 1, first.Length(), 1e-9)
	assert.InDelta(t, 2.5, e.Transform().Position.Length(), 1e-9)

	w.Move(e, 0.25)
	w.Move(e, 0.25)
	assert.Equal(t, first, w.Heading(), "heading kept within the interval")

	w.Move(e, 0.25)
	w.Move(e, 0.25)
	assert.NotEqual(t, first, w.Heading())
}

func TestWanderIsDeterministicPerSeed(t *testing.T) {
	a := NewWander(1, 1, 7)
	b := NewWander(1, 1, 7)
	ea, eb := entityAt(physics.Zero()), entityAt(physics.Zero())
	for i := 0; i < 5; i++ {
		a.Move(ea, 0.6)
		b.Move(eb, 0.6)
	}
	assert.Equal(t, ea.Transform().Position, eb.Transform().Position)

	id := models.EntityID("abc")
	assert.Equal(t, SeedFor(id, 1), SeedFor(id, 1))
	assert.NotEqual(t, SeedFor(id, 1), SeedFor("abd", 1))
}

func TestBindingManagement(t *testing.T) {
	m := newManager(t)
	a := entityAt(physics.Zero())
	b := entityAt(physics.Zero())
	lin := NewLinear(physics.Vec2(0, 1), 1)
	m.AddEntity(a, lin)
	m.AddEntity(b, nil)
	m.AddEntity(nil, lin)
	assert.Equal(t, 2, m.Count())
	assert.Same(t, lin, a.Movement().Behavior)

	got, ok := m.GetBehavior(a.ID())
	require.True(t, ok)
	assert.Same(t, lin, got)

	f := NewFollow(a, 1)
	assert.True(t, m.SetBehavior(b.ID(), f))
	assert.Same(t, f, b.Movement().Behavior)
	assert.False(t, m.SetBehavior("missing", f))

	m.AddEntity(a, f)
	assert.Equal(t, 2, m.Count(), "rebinding replaces")
	assert.Same(t, f, a.Movement().Behavior)

	m.RemoveEntity(a.ID())
	m.RemoveEntity("missing")
	assert.False(t, m.HasEntity(a.ID()))
	got, ok = m.GetBehavior(b.ID())
	require.True(t, ok)
	assert.Same(t, f, got)

	m.Clear()
	assert.Zero(t, m.Count())
}
