package events

import "github.com/kelindar/event"

// SubscribeToChannel delivers events of type T to ch for select-loop
// consumers such as the SSE handlers. A full channel drops the event and
// counts it in Dropped.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
			bus.dropped.Add(1)
		}
	})
}

// Dropped returns how many events slow channel subscribers have missed.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
