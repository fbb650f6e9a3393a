package events

import (
	"sync/atomic"

	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
	dropped    atomic.Uint64
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers of its concrete type.
// Usage: bus.Publish(LevelChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case LevelChangedEvent:
		event.Publish(b.dispatcher, e)
	case FormatterChangedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	case PrintStatsEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function. The handler's
// parameter type selects the events it receives. Unknown handler types get
// a no-op unsubscribe.
// Usage: unsub := bus.Subscribe(func(e LevelChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(LevelChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FormatterChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PrintStatsEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
