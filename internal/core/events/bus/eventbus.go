package bus

import (
	"errors"
	"maps"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNilListener    = errors.New("bus: nil listener")
	ErrEmptyEventType = errors.New("bus: empty event type")
)

// simpleEvent is the default Event implementation.
type simpleEvent struct {
	typeStr string
	source  string
	ts      time.Time
	params  map[string]any
}

func (e simpleEvent) Type() string         { return e.typeStr }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }

func (e simpleEvent) Param(key string) (any, bool) {
	v, ok := e.params[key]
	return v, ok
}

func (e simpleEvent) Params() map[string]any {
	return maps.Clone(e.params)
}

// NewEvent creates an Event. The params map is copied so later mutation by
// the caller does not leak into delivered events.
func NewEvent(typ, src string, params map[string]any) Event {
	return simpleEvent{typeStr: typ, source: src, ts: time.Now(), params: maps.Clone(params)}
}

// subscription implements Subscription.
type subscription struct {
	id        string
	eventType string
	listener  Listener
	bus       *inMemoryBus
	mu        sync.Mutex
	active    bool
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) EventType() string  { return s.eventType }
func (s *subscription) Listener() Listener { return s.listener }

func (s *subscription) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *subscription) Cancel() error {
	s.bus.remove(s)
	return nil
}

func (s *subscription) deactivate() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// inMemoryBus is the EventBus implementation. The mutex only guards the
// registration tables; listeners always run outside of it so they may
// publish, subscribe or unsubscribe re-entrantly.
type inMemoryBus struct {
	mu sync.RWMutex
	// handlers: eventType -> subscriptions in registration order
	handlers  map[string][]*subscription
	metrics   EventBusMetrics
	observers map[EventBusObserver]struct{}
}

// New creates a new EventBus instance.
func New() EventBus {
	return &inMemoryBus{
		handlers:  make(map[string][]*subscription),
		observers: make(map[EventBusObserver]struct{}),
	}
}

func (b *inMemoryBus) Subscribe(eventType string, listener Listener) (Subscription, error) {
	if listener == nil {
		return nil, ErrNilListener
	}
	if eventType == "" {
		return nil, ErrEmptyEventType
	}
	s := &subscription{
		id:        uuid.NewString(),
		eventType: eventType,
		listener:  listener,
		bus:       b,
		active:    true,
	}
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], s)
	b.mu.Unlock()
	return s, nil
}

func (b *inMemoryBus) SubscribeFunc(eventType string, fn func(Event) error) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilListener
	}
	return b.Subscribe(eventType, ListenerFunc(fn))
}

func (b *inMemoryBus) Unsubscribe(listener Listener) int {
	if listener == nil || !reflect.TypeOf(listener).Comparable() {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	removed := 0
	for etype, subs := range b.handlers {
		kept := make([]*subscription, 0, len(subs))
		for _, s := range subs {
			if sameListener(s.listener, listener) {
				s.deactivate()
				removed++
				continue
			}
			kept = append(kept, s)
		}
		b.setLocked(etype, kept)
	}
	return removed
}

func (b *inMemoryBus) Cancel(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) HasSubscribers(eventType string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

func (b *inMemoryBus) AddObserver(obs EventBusObserver) {
	b.mu.Lock()
	b.observers[obs] = struct{}{}
	b.mu.Unlock()
}

func (b *inMemoryBus) RemoveObserver(obs EventBusObserver) {
	b.mu.Lock()
	delete(b.observers, obs)
	b.mu.Unlock()
}

func (b *inMemoryBus) GetMetrics() EventBusMetrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}

func (b *inMemoryBus) Publish(event Event) error {
	if event == nil {
		return nil
	}
	start := time.Now()
	etype := event.Type()

	b.mu.RLock()
	live := b.handlers[etype]
	subs := make([]*subscription, len(live))
	copy(subs, live)
	var observers []EventBusObserver
	if len(b.observers) > 0 {
		observers = make([]EventBusObserver, 0, len(b.observers))
		for obs := range b.observers {
			observers = append(observers, obs)
		}
	}
	b.mu.RUnlock()

	for _, obs := range observers {
		obs.OnPublish(etype, event)
	}

	var all error
	for _, s := range subs {
		if err := s.listener.OnEvent(event); err != nil {
			all = errors.Join(all, err)
		}
	}

	if len(observers) > 0 {
		dur := time.Since(start).Microseconds()
		for _, obs := range observers {
			obs.OnDelivered(etype, len(subs), all, dur)
		}
		b.mu.Lock()
		b.metrics.Published++
		b.metrics.DeliveredListeners += uint64(len(subs))
		if all != nil {
			b.metrics.Errors++
		}
		var active uint64
		for _, m := range b.handlers {
			active += uint64(len(m))
		}
		b.metrics.SubscribersActive = active
		b.mu.Unlock()
	}
	return all
}

func (b *inMemoryBus) remove(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[s.eventType]
	for i, cur := range subs {
		if cur == s {
			next := make([]*subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.setLocked(s.eventType, next)
			break
		}
	}
	s.deactivate()
}

func (b *inMemoryBus) setLocked(eventType string, subs []*subscription) {
	if len(subs) == 0 {
		delete(b.handlers, eventType)
		return
	}
	b.handlers[eventType] = subs
}

// sameListener compares two listeners without panicking on uncomparable
// dynamic types.
func sameListener(a, b Listener) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
