package events

import (
	"sync/atomic"
	"time"

	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/loglevel"
)

// LevelObserver returns a registry observer that publishes every level
// change on bus.
func LevelObserver(bus *Bus) loglevel.Observer {
	return func(c loglevel.Change) {
		bus.Publish(LevelChangedEvent{
			Logger:    c.Logger,
			Previous:  c.Previous.String(),
			Current:   c.Current.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Console is a host.Console that publishes each printed line as a
// LogEntryEvent.
type Console struct {
	bus *Bus
	seq atomic.Uint64
}

// NewConsole creates a console publishing on bus.
func NewConsole(bus *Bus) *Console {
	return &Console{bus: bus}
}

// Method implements host.Console. Every method name is accepted.
func (c *Console) Method(name string) host.PrintFunc {
	return func(args ...any) {
		c.bus.Publish(LogEntryEvent{
			Seq:       c.seq.Add(1),
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Method:    name,
			Line:      host.Sprint(args...),
		})
	}
}
