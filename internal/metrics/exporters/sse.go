package exporters

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/smazurov/loglevel/internal/events"
	"github.com/smazurov/loglevel/internal/metrics"
)

// EventPublisher interface for publishing events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// SSEExporter periodically publishes console print counts as events.
// Nothing is published while the counts are unchanged.
type SSEExporter struct {
	eventBus EventPublisher
	interval time.Duration
	last     map[string]uint64
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSSEExporter creates a new SSE exporter.
func NewSSEExporter(eventBus EventPublisher) *SSEExporter {
	return &SSEExporter{
		eventBus: eventBus,
		interval: 1 * time.Second,
	}
}

// Start begins the SSE export loop.
func (s *SSEExporter) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run()
}

// Stop stops the SSE exporter and waits for the goroutine to finish.
func (s *SSEExporter) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *SSEExporter) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.publishStats()
		}
	}
}

func (s *SSEExporter) publishStats() {
	counts := metrics.GetPrintCounts()
	if len(counts) == 0 || maps.Equal(counts, s.last) {
		return
	}
	s.last = counts
	s.eventBus.Publish(events.PrintStatsEvent{
		Counts:    counts,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// GetEventTypes returns event types for SSE endpoint registration.
func GetEventTypes() map[string]any {
	return map[string]any{
		"print-stats": events.PrintStatsEvent{},
	}
}
