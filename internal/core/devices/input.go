package devices

import (
	"maps"
	"sync"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Logical action names understood by the built-in scenes.
const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionLeft    = "left"
	ActionRight   = "right"
	ActionConfirm = "confirm"
	ActionBack    = "back"
	ActionPause   = "pause"
	ActionMenu    = "menu"
)

// KeySource reads raw key state from the host.
type KeySource interface {
	IsKeyPressed(key string) bool
	Cursor() (x, y float64)
}

// ActionInput maps logical actions to host key names and derives
// just-pressed edges from consecutive polls.
type ActionInput struct {
	source   KeySource
	bindings map[string]string

	pressed  map[string]bool
	previous map[string]bool
	pointer  physics.Vector2

	mu        sync.Mutex
	nextID    uint64
	callbacks []rebindCallback
}

type rebindCallback struct {
	id uint64
	fn func(action, key string)
}

var _ InputController = (*ActionInput)(nil)

// NewActionInput copies bindings (action -> key). A nil source yields an
// input that never reports anything pressed.
func NewActionInput(source KeySource, bindings map[string]string) *ActionInput {
	return &ActionInput{
		source:   source,
		bindings: maps.Clone(bindings),
		pressed:  make(map[string]bool),
		previous: make(map[string]bool),
	}
}

// Poll samples the source once. Call exactly once per frame.
func (in *ActionInput) Poll() {
	in.previous, in.pressed = in.pressed, in.previous
	clear(in.pressed)
	if in.source == nil {
		return
	}
	for action, key := range in.bindings {
		if in.source.IsKeyPressed(key) {
			in.pressed[action] = true
		}
	}
	x, y := in.source.Cursor()
	in.pointer = physics.Vec2(x, y)
}

func (in *ActionInput) IsActionPressed(action string) bool {
	return in.pressed[action]
}

func (in *ActionInput) IsActionJustPressed(action string) bool {
	return in.pressed[action] && !in.previous[action]
}

func (in *ActionInput) Pointer() physics.Vector2 { return in.pointer }

// Source is the key source being polled.
func (in *ActionInput) Source() KeySource { return in.source }

// Binding returns the key bound to action.
func (in *ActionInput) Binding(action string) (string, bool) {
	k, ok := in.bindings[action]
	return k, ok
}

// Bindings returns a copy of the action table.
func (in *ActionInput) Bindings() map[string]string {
	return maps.Clone(in.bindings)
}

func (in *ActionInput) Rebind(action, key string) bool {
	if _, ok := in.bindings[action]; !ok || key == "" {
		return false
	}
	in.bindings[action] = key
	in.mu.Lock()
	callbacks := append([]rebindCallback{}, in.callbacks...)
	in.mu.Unlock()
	for _, cb := range callbacks {
		cb.fn(action, key)
	}
	return true
}

func (in *ActionInput) OnRebind(fn func(action, key string)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	in.mu.Lock()
	in.nextID++
	id := in.nextID
	in.callbacks = append(in.callbacks, rebindCallback{id: id, fn: fn})
	in.mu.Unlock()
	return func() {
		in.mu.Lock()
		defer in.mu.Unlock()
		kept := make([]rebindCallback, 0, len(in.callbacks))
		for _, cb := range in.callbacks {
			if cb.id != id {
				kept = append(kept, cb)
			}
		}
		in.callbacks = kept
	}
}

// ScriptedKeys is a KeySource driven by code, used by the headless host and
// tests.
type ScriptedKeys struct {
	mu   sync.Mutex
	keys map[string]bool
	x, y float64
}

func NewScriptedKeys() *ScriptedKeys {
	return &ScriptedKeys{keys: make(map[string]bool)}
}

func (s *ScriptedKeys) Press(key string) {
	s.mu.Lock()
	s.keys[key] = true
	s.mu.Unlock()
}

func (s *ScriptedKeys) Release(key string) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}

func (s *ScriptedKeys) MoveCursor(x, y float64) {
	s.mu.Lock()
	s.x, s.y = x, y
	s.mu.Unlock()
}

func (s *ScriptedKeys) IsKeyPressed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

func (s *ScriptedKeys) Cursor() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y
}
