package bus

import "time"

// EventBus is a synchronous, in-process pub/sub channel that couples the
// runtime subsystems without direct references.
//
// Key characteristics:
//   - Type-based fan-out: listeners subscribe by Event.Type() string.
//   - Synchronous delivery: Publish calls listeners in the caller goroutine, in
//     subscription order.
//   - Snapshot dispatch: Publish iterates a copy of the subscriber list, so a
//     listener may unsubscribe itself or others mid-dispatch. Listeners removed
//     during a dispatch still receive the event being dispatched.
//   - Error aggregation: listener errors are joined and returned from Publish.
//   - No queuing, no priorities, no cross-frame buffering.
type EventBus interface {
	// Publish delivers the event synchronously to every subscriber of
	// event.Type() registered at the moment of the call.
	Publish(event Event) error
	// Subscribe appends a listener for eventType and returns a handle that
	// can be used to cancel that single registration.
	Subscribe(eventType string, listener Listener) (Subscription, error)
	// SubscribeFunc is Subscribe for plain functions.
	SubscribeFunc(eventType string, fn func(Event) error) (Subscription, error)
	// Unsubscribe removes the listener from every event type and returns the
	// number of registrations removed. Listeners whose dynamic type is not
	// comparable (e.g. ListenerFunc) can only be removed via Cancel.
	Unsubscribe(listener Listener) int
	// Cancel removes a single registration. Safe to call with nil.
	Cancel(Subscription) error
	// HasSubscribers reports whether anything listens to eventType.
	HasSubscribers(eventType string) bool

	// AddObserver registers an observer to receive delivery callbacks.
	AddObserver(obs EventBusObserver)
	// RemoveObserver unregisters a previously added observer.
	RemoveObserver(obs EventBusObserver)
	// GetMetrics returns a snapshot of counters. Counters only move while at
	// least one observer is registered.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus: a kind tag plus
// an open string-keyed parameter bag.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	// Param returns a single parameter.
	Param(key string) (any, bool)
	// Params returns a copy of the parameter bag.
	Params() map[string]any
}

// Listener receives delivered events.
type Listener interface {
	OnEvent(event Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(event Event) error

func (f ListenerFunc) OnEvent(event Event) error { return f(event) }

// Subscription represents a registered listener bound to an event type.
type Subscription interface {
	// ID is a unique identifier for this subscription.
	ID() string
	// EventType returns the event type this subscription listens to.
	EventType() string
	// Listener returns the receiver associated with this subscription.
	Listener() Listener
	// IsActive reports whether this subscription is still registered.
	IsActive() bool
	// Cancel de-registers the listener from the bus. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries. Observers should return
// quickly.
type EventBusObserver interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, listeners int, err error, durationMicros int64)
}

// EventBusMetrics is updated only while at least one observer is registered.
type EventBusMetrics struct {
	Published          uint64
	DeliveredListeners uint64
	Errors             uint64
	SubscribersActive  uint64
}
