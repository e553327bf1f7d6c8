package bus

import (
	"testing"
)

type nopObserver struct{}

func (nopObserver) OnPublish(string, Event)               {}
func (nopObserver) OnDelivered(string, int, error, int64) {}

// BenchmarkCollisionContact mirrors one contact per frame with the usual
// listeners attached (sound, gameplay counter).
func BenchmarkCollisionContact(b *testing.B) {
	eb := New()
	contacts := 0
	for range 2 {
		_, _ = eb.SubscribeFunc(EventCollision, func(Event) error { contacts++; return nil })
	}
	params := map[string]any{"a": "e1", "b": "e2", "depth": 0.5, "strategy": "bounce"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = eb.Publish(NewEvent(EventCollision, "collision", params))
	}
}

func BenchmarkHasSubscribersGate(b *testing.B) {
	eb := New()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if eb.HasSubscribers(EventFrameCompleted) {
			b.Fatal("unexpected subscriber")
		}
	}
}

func BenchmarkPublishWithObserver(b *testing.B) {
	eb := New()
	eb.AddObserver(nopObserver{})
	for _, kind := range []string{EventPaused, EventResumed, EventStart} {
		for range 8 {
			_, _ = eb.SubscribeFunc(kind, func(Event) error { return nil })
		}
	}
	e := NewEvent(EventPaused, "bench", nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = eb.Publish(e)
	}
}
