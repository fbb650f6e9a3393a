package metrics

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/loglevel"
	"github.com/smazurov/loglevel/pkg/storage"
)

func TestLoggerStatsCache(t *testing.T) {
	name := "cache-logger"
	DeleteLoggerMetrics(name)

	if s := GetLoggerStats(name); s != nil {
		t.Error("expected nil for untracked logger")
	}

	SetLoggerLevel(name, level.Warn)
	RecordLevelChange(name, level.Debug)
	RecordLevelChange(name, level.Error)

	s := GetLoggerStats(name)
	if s == nil {
		t.Fatal("expected stats")
	}
	if s.Level != level.Error || s.Changes != 2 {
		t.Errorf("stats = %+v, want error/2", *s)
	}
	if got := testutil.ToFloat64(loggerLevel.WithLabelValues(name)); got != float64(level.Error) {
		t.Errorf("gauge = %v, want %v", got, float64(level.Error))
	}
	if got := testutil.ToFloat64(levelChanges.WithLabelValues(name)); got != 2 {
		t.Errorf("changes counter = %v, want 2", got)
	}

	s.Changes = 99
	if GetLoggerStats(name).Changes != 2 {
		t.Error("cache was modified through the returned copy")
	}

	DeleteLoggerMetrics(name)
	if GetLoggerStats(name) != nil {
		t.Error("expected nil after delete")
	}
}

func TestRootLabel(t *testing.T) {
	DeleteLoggerMetrics("")
	SetLoggerLevel("", level.Info)
	if _, ok := GetAllLoggerStats()[RootLabel]; !ok {
		t.Errorf("root logger not tracked under %q", RootLabel)
	}
	DeleteLoggerMetrics("")
}

func TestTrackRegistry(t *testing.T) {
	DeleteLoggerMetrics("")
	DeleteLoggerMetrics("track-a")
	DeleteLoggerMetrics("track-b")

	root := loglevel.New(loglevel.WithEnvironment(&host.Static{Out: host.NewBufferConsole(1)}))
	root.MustGetLogger("track-a")
	Track(root)

	if s := GetLoggerStats("track-a"); s == nil || s.Level != level.Warn || s.Changes != 0 {
		t.Errorf("track-a = %+v", s)
	}

	root.SetLevel(level.Info, false)
	root.MustGetLogger("track-b").SetLevel(level.Trace, false)

	all := GetAllLoggerStats()
	if s := all[RootLabel]; s == nil || s.Level != level.Info || s.Changes != 1 {
		t.Errorf("root = %+v", s)
	}
	if s := all["track-a"]; s == nil || s.Level != level.Info || s.Changes != 1 {
		t.Errorf("track-a = %+v", s)
	}
	if s := all["track-b"]; s == nil || s.Level != level.Trace {
		t.Errorf("track-b = %+v", s)
	}

	DeleteLoggerMetrics("")
	DeleteLoggerMetrics("track-a")
	DeleteLoggerMetrics("track-b")
}

func TestTrackLoggerCreatedLater(t *testing.T) {
	kv := host.NewMemoryStore()
	_ = kv.Set("logger:track-saved", "error")
	env := &host.Static{Out: host.NewBufferConsole(1), Store: kv}
	root := loglevel.New(
		loglevel.WithEnvironment(env),
		loglevel.WithStorage(storage.NewKeyValue(env, "")),
	)
	Track(root)

	root.MustGetLogger("track-late")
	root.MustGetLogger("track-saved")

	if got := testutil.ToFloat64(loggerLevel.WithLabelValues("track-late")); got != float64(level.Warn) {
		t.Errorf("track-late gauge = %v, want %v", got, float64(level.Warn))
	}
	if s := GetLoggerStats("track-saved"); s == nil || s.Level != level.Error || s.Changes != 0 {
		t.Errorf("track-saved = %+v", s)
	}

	DeleteLoggerMetrics("")
	DeleteLoggerMetrics("track-late")
	DeleteLoggerMetrics("track-saved")
}

func TestCountingConsole(t *testing.T) {
	out := host.NewBufferConsole(10)
	console := NewCountingConsole(host.Funcs{
		"warn": out.Method("warn"),
		"log":  out.Method("log"),
	})

	before := testutil.ToFloat64(consolePrints.WithLabelValues("warn"))
	beforeCache := GetPrintCounts()["warn"]

	host.Select(console, "warn")("a")
	host.Select(console, "warn")("b")
	host.Select(console, "info")("falls back to log")

	if got := testutil.ToFloat64(consolePrints.WithLabelValues("warn")) - before; got != 2 {
		t.Errorf("warn prints = %v, want 2", got)
	}
	if got := GetPrintCounts()["warn"] - beforeCache; got != 2 {
		t.Errorf("cached warn prints = %d, want 2", got)
	}
	if console.Method("info") != nil {
		t.Error("missing method should stay missing")
	}
	if lines := out.Lines(); len(lines) != 3 {
		t.Errorf("wrapped console got %v", lines)
	}
	if NewCountingConsole(nil).Method("log") != nil {
		t.Error("nil console should have no methods")
	}
}

func TestCountingConsoleConcurrency(t *testing.T) {
	console := NewCountingConsole(host.Funcs{"error": func(...any) {}})
	before := GetPrintCounts()["error"]

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			console.Method("error")("x")
			_ = GetPrintCounts()
		}()
	}
	wg.Wait()

	if got := GetPrintCounts()["error"] - before; got != 50 {
		t.Errorf("error prints = %d, want 50", got)
	}
}

func TestCountingStorage(t *testing.T) {
	s := NewCountingStorage(storage.NewMemory())
	count := func(op, res string) float64 {
		return testutil.ToFloat64(storageOps.WithLabelValues(op, res))
	}
	saves, hits, misses := count("save", "ok"), count("load", "hit"), count("load", "miss")
	removed, absent := count("clear", "removed"), count("clear", "absent")

	s.Save(level.Debug, "db")
	if lvl, ok := s.Load("db"); !ok || lvl != level.Debug {
		t.Errorf("Load = %s, %v", lvl, ok)
	}
	s.Load("other")
	s.Clear("db")
	s.Clear("db")

	tests := []struct {
		name      string
		got, want float64
	}{
		{"save ok", count("save", "ok") - saves, 1},
		{"load hit", count("load", "hit") - hits, 1},
		{"load miss", count("load", "miss") - misses, 1},
		{"clear removed", count("clear", "removed") - removed, 1},
		{"clear absent", count("clear", "absent") - absent, 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMetricNames(t *testing.T) {
	SetLoggerLevel("names", level.Info)
	defer DeleteLoggerMetrics("names")

	problems, err := testutil.CollectAndLint(loggerLevel)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range problems {
		t.Errorf("lint %s: %s", p.Metric, p.Text)
	}
}

func TestTrackDroppedEvents(t *testing.T) {
	var dropped atomic.Uint64
	dropped.Store(3)
	TrackDroppedEvents(dropped.Load)
	// A second registration is ignored rather than panicking.
	TrackDroppedEvents(func() uint64 { return 99 })

	expected := `
# HELP loglevel_events_dropped_total Events dropped because a stream subscriber fell behind
# TYPE loglevel_events_dropped_total counter
loglevel_events_dropped_total 3
`
	if err := testutil.GatherAndCompare(prometheus.DefaultGatherer, strings.NewReader(expected), "loglevel_events_dropped_total"); err != nil {
		t.Error(err)
	}
}
