package devices

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

type fakeBackend struct {
	once   []string
	loops  []string
	stops  int
	volume float64
}

func (f *fakeBackend) PlayOnce(name string, _ float64) { f.once = append(f.once, name) }
func (f *fakeBackend) Loop(name string, v float64) {
	f.loops = append(f.loops, name)
	f.volume = v
}
func (f *fakeBackend) StopLoop()               { f.stops++ }
func (f *fakeBackend) SetLoopVolume(v float64) { f.volume = v }

type countingPoller struct{ polls int }

func (c *countingPoller) Poll() { c.polls++ }

func TestActionInputJustPressedEdges(t *testing.T) {
	keys := NewScriptedKeys()
	in := NewActionInput(keys, map[string]string{ActionConfirm: "Enter", ActionUp: "W"})

	in.Poll()
	assert.False(t, in.IsActionPressed(ActionConfirm))

	keys.Press("Enter")
	in.Poll()
	assert.True(t, in.IsActionPressed(ActionConfirm))
	assert.True(t, in.IsActionJustPressed(ActionConfirm))

	in.Poll()
	assert.True(t, in.IsActionPressed(ActionConfirm))
	assert.False(t, in.IsActionJustPressed(ActionConfirm), "held key is not a new press")

	keys.Release("Enter")
	in.Poll()
	assert.False(t, in.IsActionPressed(ActionConfirm))
	assert.False(t, in.IsActionPressed("unbound"))
}

func TestActionInputPointer(t *testing.T) {
	keys := NewScriptedKeys()
	in := NewActionInput(keys, nil)
	keys.MoveCursor(12, 34)
	in.Poll()
	assert.Equal(t, physics.Vec2(12, 34), in.Pointer())
}

func TestRebindNotifiesCallbacks(t *testing.T) {
	keys := NewScriptedKeys()
	in := NewActionInput(keys, map[string]string{ActionUp: "W"})
	var got []string
	in.OnRebind(func(action, key string) { got = append(got, action+"="+key) })
	in.OnRebind(nil)

	assert.True(t, in.Rebind(ActionUp, "ArrowUp"))
	assert.False(t, in.Rebind("fly", "F"), "unknown action")
	assert.False(t, in.Rebind(ActionUp, ""))
	assert.Equal(t, []string{"up=ArrowUp"}, got)

	k, ok := in.Binding(ActionUp)
	require.True(t, ok)
	assert.Equal(t, "ArrowUp", k)

	keys.Press("ArrowUp")
	in.Poll()
	assert.True(t, in.IsActionPressed(ActionUp))

	b := in.Bindings()
	b[ActionUp] = "mutated"
	k, _ = in.Binding(ActionUp)
	assert.Equal(t, "ArrowUp", k)
}

func TestRebindCallbackCancel(t *testing.T) {
	in := NewActionInput(nil, map[string]string{ActionUp: "W"})
	var first, second int
	cancel := in.OnRebind(func(string, string) { first++ })
	in.OnRebind(func(string, string) { second++ })

	in.Rebind(ActionUp, "K")
	cancel()
	cancel()
	in.Rebind(ActionUp, "L")
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.NotPanics(t, func() { in.OnRebind(nil)() })
}

func TestNilSourceNeverPresses(t *testing.T) {
	in := NewActionInput(nil, map[string]string{ActionUp: "W"})
	in.Poll()
	assert.False(t, in.IsActionPressed(ActionUp))
}

func TestMixerVolumesAndPlayback(t *testing.T) {
	be := &fakeBackend{}
	m := NewMixer(be, 2, -1, nil)
	assert.Equal(t, 1.0, m.MusicVolume())
	assert.Equal(t, 0.0, m.SoundVolume())

	m.PlaySound("hit")
	assert.Empty(t, be.once, "muted sounds are skipped")

	m.SetSoundVolume(0.5)
	m.PlaySound("hit")
	m.PlaySound("")
	assert.Equal(t, []string{"hit"}, be.once)

	m.SetMusic("theme")
	m.SetMusic("theme")
	assert.Equal(t, []string{"theme"}, be.loops)
	assert.Equal(t, "theme", m.Music())

	m.SetMusicVolume(0.25)
	assert.Equal(t, 0.25, be.volume)

	m.StopMusic()
	m.StopMusic()
	assert.Equal(t, 1, be.stops)
	assert.Empty(t, m.Music())
}

func TestMixerWithoutBackend(t *testing.T) {
	m := NewMixer(nil, 0.5, 0.5, nil)
	assert.NotPanics(t, func() {
		m.SetMusic("x")
		m.PlaySound("y")
		m.SetMusicVolume(0.1)
		m.StopMusic()
	})
}

func TestPollOnlyTouchesPollers(t *testing.T) {
	p := &countingPoller{}
	Poll(p, NewMixer(nil, 1, 1, nil), nil)
	assert.Equal(t, 1, p.polls)
	r := NopRenderer()
	assert.NotPanics(t, func() { r.DrawText("hi", physics.Zero(), color.RGBA{A: 255}) })
}
