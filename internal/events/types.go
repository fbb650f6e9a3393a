package events

// Event type constants for kelindar/event.
const (
	TypeLevelChanged uint32 = iota + 1
	TypeFormatterChanged
	TypeLogEntry
	TypePrintStats
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LevelChangedEvent is published whenever a logger's effective level changes.
type LevelChangedEvent struct {
	Logger    string `json:"logger" example:"api" doc:"Logger name, empty for the root logger"`
	Previous  string `json:"previous" example:"warn" doc:"Level before the change"`
	Current   string `json:"current" example:"debug" doc:"Level after the change"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LevelChangedEvent.
func (e LevelChangedEvent) Type() uint32 { return TypeLevelChanged }

// FormatterChangedEvent is published when the registry's output settings change.
type FormatterChangedEvent struct {
	Format     string `json:"format" example:"json" doc:"Formatter kind: default, minimal or json"`
	Colors     bool   `json:"colors" doc:"Whether colored prefixes are enabled"`
	Timestamps bool   `json:"timestamps" doc:"Whether timestamps are included"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for FormatterChangedEvent.
func (e FormatterChangedEvent) Type() uint32 { return TypeFormatterChanged }

// LogEntryEvent represents one printed line for SSE streaming.
type LogEntryEvent struct {
	Seq       uint64 `json:"seq" example:"42" doc:"Monotonic sequence number for deduplication"`
	Timestamp string `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Print timestamp"`
	Method    string `json:"method" example:"warn" doc:"Console method the line was printed with"`
	Line      string `json:"line" doc:"Rendered line"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }

// PrintStatsEvent carries the running print counts per console method.
type PrintStatsEvent struct {
	Counts    map[string]uint64 `json:"counts" doc:"Prints per console method"`
	Timestamp string            `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PrintStatsEvent.
func (e PrintStatsEvent) Type() uint32 { return TypePrintStats }
