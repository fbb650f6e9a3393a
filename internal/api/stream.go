package api

import (
	"context"
	"maps"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/loglevel/internal/api/models"
	"github.com/smazurov/loglevel/internal/events"
	"github.com/smazurov/loglevel/internal/metrics/exporters"
)

func (s *Server) registerOutputRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-output",
		Method:      http.MethodGet,
		Path:        "/api/output",
		Summary:     "Recent Output",
		Description: "Recent lines printed by the service's loggers, oldest first",
		Tags:        []string{"output"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, input *models.OutputRequest) (*models.OutputResponse, error) {
		entries := s.output.ReadAll()
		if input.Limit > 0 && len(entries) > input.Limit {
			entries = entries[len(entries)-input.Limit:]
		}
		lines := make([]models.OutputLine, len(entries))
		for i, e := range entries {
			lines[i] = models.OutputLine{Time: e.Time, Method: e.Method, Line: e.Line}
		}
		return &models.OutputResponse{
			Body: models.OutputData{Lines: lines, Count: len(lines)},
		}, nil
	})
}

func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "levels-stream",
		Method:      http.MethodGet,
		Path:        "/api/levels/stream",
		Summary:     "Level Event Stream",
		Description: "Real-time stream of level and formatter changes. Sends the current level of every logger first.",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func() map[string]any {
		eventTypes := map[string]any{
			"level-changed":     events.LevelChangedEvent{},
			"formatter-changed": events.FormatterChangedEvent{},
		}
		maps.Copy(eventTypes, exporters.GetEventTypes())
		return eventTypes
	}(), func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 32)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.LevelChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.FormatterChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.PrintStatsEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		now := time.Now().UTC().Format(time.RFC3339)
		snapshot := []models.LoggerData{loggerData(s.registry.Logger)}
		for _, name := range s.registry.Names() {
			if l, ok := s.registry.Lookup(name); ok {
				snapshot = append(snapshot, loggerData(l))
			}
		}
		for _, l := range snapshot {
			if err := send.Data(events.LevelChangedEvent{
				Logger:    l.Name,
				Previous:  l.Level,
				Current:   l.Level,
				Timestamp: now,
			}); err != nil {
				return
			}
		}

		forward(ctx, eventCh, send)
	})

	sse.Register(s.api, huma.Operation{
		OperationID: "output-stream",
		Method:      http.MethodGet,
		Path:        "/api/output/stream",
		Summary:     "Output Stream",
		Description: "Real-time stream of printed lines. Sends the buffered history first, then new lines.",
		Tags:        []string{"output"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"message": events.LogEntryEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 100)
		unsubscribe := events.SubscribeToChannel[events.LogEntryEvent](s.eventBus, eventCh)
		defer unsubscribe()

		if s.output != nil {
			for _, entry := range s.output.ReadAll() {
				if err := send.Data(events.LogEntryEvent{
					Timestamp: entry.Time.UTC().Format(time.RFC3339Nano),
					Method:    entry.Method,
					Line:      entry.Line,
				}); err != nil {
					return
				}
			}
		}

		forward(ctx, eventCh, send)
	})
}

// forward relays events to the client until the request ends or a send fails.
func forward(ctx context.Context, eventCh <-chan any, send sse.Sender) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventCh:
			if err := send.Data(ev); err != nil {
				return
			}
		}
	}
}
