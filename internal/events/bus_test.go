package events

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/loglevel"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan LevelChangedEvent, 1)

	unsub := bus.Subscribe(func(e LevelChangedEvent) {
		received <- e
	})
	defer unsub()

	ev := LevelChangedEvent{Logger: "api", Previous: "warn", Current: "debug"}
	bus.Publish(ev)

	select {
	case got := <-received:
		if got != ev {
			t.Errorf("got %+v, want %+v", got, ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := New()
	received1 := make(chan FormatterChangedEvent, 1)
	received2 := make(chan FormatterChangedEvent, 1)

	unsub1 := bus.Subscribe(func(e FormatterChangedEvent) { received1 <- e })
	defer unsub1()
	unsub2 := bus.Subscribe(func(e FormatterChangedEvent) { received2 <- e })
	defer unsub2()

	bus.Publish(FormatterChangedEvent{Format: "json"})

	for i, ch := range []chan FormatterChangedEvent{received1, received2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive the event", i+1)
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan LevelChangedEvent, 1)

	unsub := bus.Subscribe(func(e LevelChangedEvent) {
		received <- e
	})

	bus.Publish(LevelChangedEvent{Logger: "a"})
	<-received

	unsub()

	bus.Publish(LevelChangedEvent{Logger: "b"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	levelReceived := make(chan bool, 1)
	entryReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(LevelChangedEvent) { levelReceived <- true })
	defer unsub1()
	unsub2 := bus.Subscribe(func(LogEntryEvent) { entryReceived <- true })
	defer unsub2()

	bus.Publish(LevelChangedEvent{Logger: "x"})
	<-levelReceived

	select {
	case <-entryReceived:
		t.Fatal("LogEntryEvent subscriber received a LevelChangedEvent")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(string) {})
	unsub()
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 1)
	unsub := SubscribeToChannel[LevelChangedEvent](bus, ch)
	defer unsub()

	bus.Publish(LevelChangedEvent{Logger: "first"})
	select {
	case ev := <-ch:
		if e, ok := ev.(LevelChangedEvent); !ok || e.Logger != "first" {
			t.Errorf("got %#v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel delivery")
	}
}

func TestSubscribeToChannelCountsDrops(t *testing.T) {
	bus := New()
	full := make(chan any)
	unsub := SubscribeToChannel[LogEntryEvent](bus, full)
	defer unsub()

	bus.Publish(LogEntryEvent{Seq: 1, Line: "nobody reads this"})

	deadline := time.Now().Add(time.Second)
	for bus.Dropped() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("Dropped() = %d, want 1", bus.Dropped())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLevelObserverPublishes(t *testing.T) {
	bus := New()
	received := make(chan LevelChangedEvent, 4)
	unsub := bus.Subscribe(func(e LevelChangedEvent) { received <- e })
	defer unsub()

	root := loglevel.New(
		loglevel.WithEnvironment(&host.Static{Out: host.NewBufferConsole(1)}),
		loglevel.WithObserver(LevelObserver(bus)),
	)
	root.MustGetLogger("db").SetLevel(level.Debug, false)

	select {
	case e := <-received:
		if e.Logger != "db" || e.Previous != "warn" || e.Current != "debug" {
			t.Errorf("event = %+v", e)
		}
		if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
			t.Errorf("timestamp %q: %v", e.Timestamp, err)
		}
	case <-time.After(time.Second):
		t.Fatal("no LevelChangedEvent published")
	}
}

func TestConsolePublishesEntries(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var got []LogEntryEvent
	done := make(chan struct{})
	unsub := bus.Subscribe(func(e LogEntryEvent) {
		mu.Lock()
		got = append(got, e)
		if len(got) == 2 {
			close(done)
		}
		mu.Unlock()
	})
	defer unsub()

	console := NewConsole(bus)
	host.Select(console, "warn")("[WARN]", "disk", 91)
	host.Select(console, "error")("[ERROR] failed")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for log entries")
	}

	mu.Lock()
	defer mu.Unlock()
	if got[0].Seq != 1 || got[1].Seq != 2 {
		t.Errorf("sequence = %d, %d", got[0].Seq, got[1].Seq)
	}
	if got[0].Method != "warn" || got[0].Line != "[WARN] disk 91" {
		t.Errorf("first entry = %+v", got[0])
	}
}

func TestEventJSON(t *testing.T) {
	data, err := json.Marshal(LevelChangedEvent{Logger: "api", Previous: "info", Current: "silent"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"logger":"api","previous":"info","current":"silent","timestamp":""}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
