package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smazurov/loglevel/pkg/host"
)

var (
	consolePrints = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loglevel",
		Subsystem: "console",
		Name:      "prints_total",
		Help:      "Print calls that reached the console, by method",
	}, []string{"method"})

	printCache   = make(map[string]uint64)
	printCacheMu sync.RWMutex
)

// CountingConsole counts every print call before handing it to the
// wrapped console.
type CountingConsole struct {
	inner host.Console
}

// NewCountingConsole wraps inner.
func NewCountingConsole(inner host.Console) *CountingConsole {
	return &CountingConsole{inner: inner}
}

// Method implements host.Console. Missing methods stay missing so the
// caller's fallback to "log" still applies.
func (c *CountingConsole) Method(name string) host.PrintFunc {
	if c.inner == nil {
		return nil
	}
	fn := c.inner.Method(name)
	if fn == nil {
		return nil
	}
	counter := consolePrints.WithLabelValues(name)
	return func(args ...any) {
		counter.Inc()
		printCacheMu.Lock()
		printCache[name]++
		printCacheMu.Unlock()
		fn(args...)
	}
}

// GetPrintCounts returns the number of prints per console method.
func GetPrintCounts() map[string]uint64 {
	printCacheMu.RLock()
	defer printCacheMu.RUnlock()
	result := make(map[string]uint64, len(printCache))
	for method, n := range printCache {
		result[method] = n
	}
	return result
}

// TrackDroppedEvents exports count as loglevel_events_dropped_total, the
// number of events slow stream subscribers missed. Only the first call
// registers.
func TrackDroppedEvents(count func() uint64) {
	collector := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "loglevel",
		Subsystem: "events",
		Name:      "dropped_total",
		Help:      "Events dropped because a stream subscriber fell behind",
	}, func() float64 { return float64(count()) })

	var already prometheus.AlreadyRegisteredError
	if err := prometheus.Register(collector); err != nil && !errors.As(err, &already) {
		panic(err)
	}
}
