package collision

import (
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/observability/log"
)

type entry struct {
	body     Collidable
	response Response
}

// Manager detects overlapping pairs every frame and resolves each contact
// exactly once, on the first frame it is observed. A contact that persists
// is not resolved again until the pair separates and touches anew.
type Manager struct {
	bus bus.EventBus
	log log.Log

	entries []entry
	index   map[models.EntityID]int

	// touching holds the pairs that overlapped during the last Update.
	touching map[pairKey]struct{}

	audio     devices.AudioController
	soundName string
	onContact func(Info, Strategy)
}

func NewManager(eventBus bus.EventBus, logger log.Log) (*Manager, error) {
	if eventBus == nil {
		return nil, ErrNilBus
	}
	return &Manager{
		bus:      eventBus,
		log:      log.OrNop(logger).With(log.String("system", "collision")),
		index:    make(map[models.EntityID]int),
		touching: make(map[pairKey]struct{}),
	}, nil
}

// SetSound configures the one-shot sound played for every newly resolved
// contact. An empty name or nil controller disables it.
func (m *Manager) SetSound(audio devices.AudioController, name string) {
	m.audio = audio
	m.soundName = name
}

// OnContact installs a hook fired after each resolution.
func (m *Manager) OnContact(fn func(Info, Strategy)) {
	m.onContact = fn
}

// Register adds c with its response. Registering an identity again replaces
// the stored collidable and response in place. A nil response resolves as
// Bounce.
func (m *Manager) Register(c Collidable, response Response) {
	if c == nil {
		return
	}
	// typed nil bodies and detached bodies report an empty id
	id := c.ID()
	if id == "" {
		return
	}
	if i, ok := m.index[id]; ok {
		m.entries[i] = entry{body: c, response: response}
		return
	}
	m.index[id] = len(m.entries)
	m.entries = append(m.entries, entry{body: c, response: response})
}

func (m *Manager) Unregister(c Collidable) {
	if c == nil {
		return
	}
	m.UnregisterID(c.ID())
}

// UnregisterID removes the collidable with id. Contacts it was part of are
// dropped from the touching set.
func (m *Manager) UnregisterID(id models.EntityID) {
	i, ok := m.index[id]
	if !ok {
		return
	}
	next := make([]entry, 0, len(m.entries)-1)
	next = append(next, m.entries[:i]...)
	next = append(next, m.entries[i+1:]...)
	m.entries = next
	delete(m.index, id)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].body.ID()] = j
	}
	for k := range m.touching {
		if k.lo == id || k.hi == id {
			delete(m.touching, k)
		}
	}
}

func (m *Manager) IsRegistered(id models.EntityID) bool {
	_, ok := m.index[id]
	return ok
}

// Response returns the response registered for id.
func (m *Manager) Response(id models.EntityID) (Response, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return m.entries[i].response, true
}

func (m *Manager) Count() int { return len(m.entries) }

// Touching reports whether a and b overlapped during the last Update.
func (m *Manager) Touching(a, b models.EntityID) bool {
	_, ok := m.touching[makePairKey(a, b)]
	return ok
}

// Contacts returns the number of pairs that overlapped during the last
// Update.
func (m *Manager) Contacts() int { return len(m.touching) }

// Update tests every unordered pair of eligible collidables and resolves
// newly formed contacts.
func (m *Manager) Update(float64) {
	list := make([]entry, len(m.entries))
	copy(list, m.entries)

	current := make(map[pairKey]struct{}, len(m.touching))
	for i := 0; i < len(list); i++ {
		a := list[i]
		for j := i + 1; j < len(list); j++ {
			if !a.body.IsCollidable() {
				break
			}
			b := list[j]
			if !b.body.IsCollidable() {
				continue
			}
			info, ok := Detect(a.body, b.body)
			if !ok {
				continue
			}
			key := makePairKey(info.A(), info.B())
			current[key] = struct{}{}
			if _, was := m.touching[key]; was {
				continue
			}
			m.resolve(info, a, b)
		}
	}
	m.touching = current
}

// Clear drops every registration and the touching set.
func (m *Manager) Clear() {
	m.entries = nil
	m.index = make(map[models.EntityID]int)
	m.touching = make(map[pairKey]struct{})
}

func (m *Manager) resolve(info Info, a, b entry) {
	response := Select(a.response, b.response)
	response.Resolve(info, a.body, b.body)
	strategy := response.Strategy()

	m.log.Debug("contact resolved",
		log.String("a", string(info.A())),
		log.String("b", string(info.B())),
		log.Float64("depth", info.Depth()),
		log.String("strategy", strategy.String()),
	)

	if m.audio != nil && m.soundName != "" {
		m.audio.PlaySound(m.soundName)
	}
	if m.onContact != nil {
		m.onContact(info, strategy)
	}
	if m.bus.HasSubscribers(bus.EventCollision) {
		err := m.bus.Publish(bus.NewEvent(bus.EventCollision, "collision", map[string]any{
			"a":        info.A(),
			"b":        info.B(),
			"depth":    info.Depth(),
			"strategy": strategy.String(),
		}))
		if err != nil {
			m.log.Warn("collision listener failed", log.Error(err))
		}
	}
}
