package exporters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/loglevel/internal/events"
	"github.com/smazurov/loglevel/internal/metrics"
	"github.com/smazurov/loglevel/pkg/host"
)

type mockEventBus struct {
	mu        sync.Mutex
	events    []events.Event
	published chan struct{}
}

func newMockEventBus() *mockEventBus {
	return &mockEventBus{
		events:    make([]events.Event, 0),
		published: make(chan struct{}, 100),
	}
}

func (m *mockEventBus) Publish(ev events.Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	select {
	case m.published <- struct{}{}:
	default:
	}
}

func (m *mockEventBus) getEvents() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]events.Event, len(m.events))
	copy(result, m.events)
	return result
}

func TestSSEExporterPublishesStats(t *testing.T) {
	console := metrics.NewCountingConsole(host.Funcs{"trace": func(...any) {}})
	console.Method("trace")("x")

	mock := newMockEventBus()
	exporter := NewSSEExporter(mock)
	exporter.interval = 20 * time.Millisecond

	exporter.Start(context.Background())

	select {
	case <-mock.published:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for stats publish")
	}

	// Unchanged counts are not republished.
	time.Sleep(100 * time.Millisecond)
	exporter.Stop()

	evts := mock.getEvents()
	if len(evts) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(evts))
	}
	stats, ok := evts[0].(events.PrintStatsEvent)
	if !ok {
		t.Fatalf("unexpected event type %T", evts[0])
	}
	if stats.Counts["trace"] < 1 {
		t.Errorf("trace count = %d, want >= 1", stats.Counts["trace"])
	}
}

func TestSSEExporterStopWithoutStart(_ *testing.T) {
	NewSSEExporter(newMockEventBus()).Stop()
}

func TestGetEventTypes(t *testing.T) {
	if _, ok := GetEventTypes()["print-stats"].(events.PrintStatsEvent); !ok {
		t.Error("print-stats not registered")
	}
}
