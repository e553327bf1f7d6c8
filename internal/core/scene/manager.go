package scene

import (
	"fmt"

	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
)

// Transition names carried by EventSceneChanged.
const (
	TransitionSet  = "set"
	TransitionPush = "push"
	TransitionPop  = "pop"
)

// Manager is a stack of scenes. Only the top scene is updated and
// rendered; covered scenes stay loaded until popped or replaced.
//
// Replacing the stack comes in two flavors: SetScene applies immediately
// and RequestScene defers to the start of the next Update, which then
// flags the replacement until ConsumeReplaced is called. Push and pop
// never flag a replacement.
type Manager struct {
	bus bus.EventBus
	log log.Log

	stack    []Scene
	pending  Scene
	replaced bool
}

func NewManager(eventBus bus.EventBus, logger log.Log) (*Manager, error) {
	if eventBus == nil {
		return nil, ErrNilBus
	}
	return &Manager{
		bus: eventBus,
		log: log.OrNop(logger).With(log.String("system", "scenes")),
	}, nil
}

// SetScene tears the whole stack down and makes s the only scene. It
// supersedes any pending request.
func (m *Manager) SetScene(s Scene) error {
	if err := m.checkNew(s); err != nil {
		return err
	}
	m.dropPending(s)
	return m.replace(s)
}

// RequestScene schedules s to replace the stack at the next Update. A
// later request before that Update wins.
func (m *Manager) RequestScene(s Scene) error {
	if err := m.checkNew(s); err != nil {
		return err
	}
	m.dropPending(s)
	m.pending = s
	return nil
}

// HasPendingReplacement reports whether the next Update will replace the
// stack.
func (m *Manager) HasPendingReplacement() bool { return m.pending != nil }

// PushScene pauses the current top and loads s above it. A scene that is
// waiting to replace the stack cannot be pushed as well.
func (m *Manager) PushScene(s Scene) error {
	if err := m.checkNew(s); err != nil {
		return err
	}
	if s == m.pending {
		m.log.Warn("scene already requested", log.String("scene", s.Name()))
		return fmt.Errorf("%w: %s", ErrScenePending, s.Name())
	}
	if top := m.Current(); top != nil {
		top.Pause()
	}
	m.stack = append(m.stack, s)
	if err := m.load(s); err != nil {
		m.stack = m.stack[:len(m.stack)-1]
		if top := m.Current(); top != nil {
			top.Resume()
		}
		return err
	}
	m.changed(s, TransitionPush)
	return nil
}

// PopScene unloads and disposes the top scene and resumes the one below.
// It returns false on an empty stack.
func (m *Manager) PopScene() bool {
	top := m.Current()
	if top == nil {
		return false
	}
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]
	m.teardown(top)

	next := m.Current()
	if next != nil {
		next.Resume()
		m.changed(next, TransitionPop)
	} else {
		m.changed(nil, TransitionPop)
	}
	return true
}

// Update applies a pending replacement, then updates the top scene.
func (m *Manager) Update(deltaTime float64) error {
	if s := m.pending; s != nil {
		m.pending = nil
		if err := m.checkNew(s); err != nil {
			return fmt.Errorf("apply scene request: %w", err)
		}
		if err := m.replace(s); err != nil {
			return err
		}
		m.replaced = true
	}
	if top := m.Current(); top != nil {
		if err := top.Update(deltaTime); err != nil {
			return fmt.Errorf("update scene %q: %w", top.Name(), err)
		}
	}
	return nil
}

// ConsumeReplaced reports whether the last Update applied a replacement
// and resets the flag.
func (m *Manager) ConsumeReplaced() bool {
	r := m.replaced
	m.replaced = false
	return r
}

func (m *Manager) LateUpdate(deltaTime float64) {
	if top := m.Current(); top != nil {
		top.LateUpdate(deltaTime)
	}
}

func (m *Manager) Render(r devices.Renderer) {
	if top := m.Current(); top != nil {
		top.Render(r)
	}
}

// Resize forwards to every scene on the stack so covered scenes lay out
// correctly when they resume.
func (m *Manager) Resize(width, height int) {
	for _, s := range m.stack {
		s.Resize(width, height)
	}
}

// BlocksWorldUpdate reports the top scene's world-pause flag.
func (m *Manager) BlocksWorldUpdate() bool {
	top := m.Current()
	return top != nil && top.BlocksWorldUpdate()
}

// Current returns the top scene or nil.
func (m *Manager) Current() Scene {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Manager) Depth() int { return len(m.stack) }

// Contains reports whether s is on the stack.
func (m *Manager) Contains(s Scene) bool {
	for _, cur := range m.stack {
		if cur == s {
			return true
		}
	}
	return false
}

// Dispose tears down the whole stack, top first, and drops any pending
// request.
func (m *Manager) Dispose() {
	m.pending = nil
	m.clear()
}

func (m *Manager) dropPending(next Scene) {
	if m.pending == nil {
		return
	}
	if m.pending != next {
		m.log.Debug("scene request superseded",
			log.String("dropped", m.pending.Name()), log.String("scene", next.Name()))
	}
	m.pending = nil
}

func (m *Manager) replace(s Scene) error {
	m.clear()
	m.stack = append(m.stack, s)
	if err := m.load(s); err != nil {
		m.stack = nil
		return err
	}
	m.log.Info("scene replaced", log.String("scene", s.Name()))
	m.changed(s, TransitionSet)
	return nil
}

func (m *Manager) clear() {
	for len(m.stack) > 0 {
		top := m.stack[len(m.stack)-1]
		m.stack[len(m.stack)-1] = nil
		m.stack = m.stack[:len(m.stack)-1]
		m.teardown(top)
	}
	m.stack = nil
}

func (m *Manager) load(s Scene) error {
	if err := s.Load(); err != nil {
		return fmt.Errorf("load scene %q: %w", s.Name(), err)
	}
	if lc, ok := s.(lifecycle); ok {
		lc.setLoaded(true)
	}
	return nil
}

func (m *Manager) teardown(s Scene) {
	if s.Loaded() {
		s.Unload()
	}
	if lc, ok := s.(lifecycle); ok {
		lc.setLoaded(false)
		lc.markDisposed()
	}
	s.Dispose()
}

func (m *Manager) checkNew(s Scene) error {
	if s == nil {
		return ErrNilScene
	}
	if m.Contains(s) {
		m.log.Warn("scene already on stack", log.String("scene", s.Name()))
		return fmt.Errorf("%w: %s", ErrSceneInUse, s.Name())
	}
	if lc, ok := s.(lifecycle); ok && lc.disposed() {
		return fmt.Errorf("%w: %s", ErrDisposed, s.Name())
	}
	return nil
}

func (m *Manager) changed(s Scene, transition string) {
	if !m.bus.HasSubscribers(bus.EventSceneChanged) {
		return
	}
	name := ""
	if s != nil {
		name = s.Name()
	}
	err := m.bus.Publish(bus.NewEvent(bus.EventSceneChanged, "scenes", map[string]any{
		"scene":      name,
		"transition": transition,
		"depth":      len(m.stack),
	}))
	if err != nil {
		m.log.Warn("scene change listeners failed", log.Error(err))
	}
}
