// Package metrics provides Prometheus metrics for the logger registry: the
// current level of every logger, level changes, console prints and storage
// operations.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/loglevel"
)

// RootLabel is the logger label used for the unnamed root logger.
const RootLabel = "root"

var (
	loggerLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "loglevel",
		Subsystem: "logger",
		Name:      "level",
		Help:      "Current numeric level of a logger (0 trace to 5 silent)",
	}, []string{"logger"})

	levelChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loglevel",
		Subsystem: "logger",
		Name:      "level_changes_total",
		Help:      "Number of effective level changes",
	}, []string{"logger"})

	// Local cache for API and SSE exporter access.
	loggerCache   = make(map[string]*LoggerStats)
	loggerCacheMu sync.RWMutex
)

// LoggerStats holds current metric values for a logger.
type LoggerStats struct {
	Level   level.Level
	Changes uint64
}

func loggerLabel(name string) string {
	if name == "" {
		return RootLabel
	}
	return name
}

// SetLoggerLevel records the current level of a logger without counting a change.
func SetLoggerLevel(name string, lvl level.Level) {
	label := loggerLabel(name)
	loggerLevel.WithLabelValues(label).Set(float64(lvl))
	updateLogger(label, func(s *LoggerStats) { s.Level = lvl })
}

// RecordLevelChange records a level change of a logger.
func RecordLevelChange(name string, lvl level.Level) {
	label := loggerLabel(name)
	loggerLevel.WithLabelValues(label).Set(float64(lvl))
	levelChanges.WithLabelValues(label).Inc()
	updateLogger(label, func(s *LoggerStats) {
		s.Level = lvl
		s.Changes++
	})
}

// Observer returns a registry observer feeding RecordLevelChange.
func Observer() loglevel.Observer {
	return func(c loglevel.Change) {
		RecordLevelChange(c.Logger, c.Current)
	}
}

// Track records the current level of root, of every logger it has created
// and of every logger it creates later, and observes future changes.
func Track(root *loglevel.Root) {
	root.OnCreate(func(l *loglevel.Logger) {
		SetLoggerLevel(l.Name(), l.Level())
	})
	SetLoggerLevel(root.Name(), root.Level())
	for name, l := range root.Loggers() {
		SetLoggerLevel(name, l.Level())
	}
	root.Observe(Observer())
}

// DeleteLoggerMetrics removes all metrics for a logger.
func DeleteLoggerMetrics(name string) {
	label := loggerLabel(name)
	loggerLevel.DeleteLabelValues(label)
	levelChanges.DeleteLabelValues(label)

	loggerCacheMu.Lock()
	delete(loggerCache, label)
	loggerCacheMu.Unlock()
}

// GetLoggerStats returns current metric values for a logger.
func GetLoggerStats(name string) *LoggerStats {
	loggerCacheMu.RLock()
	defer loggerCacheMu.RUnlock()
	if s, ok := loggerCache[loggerLabel(name)]; ok {
		dup := *s
		return &dup
	}
	return nil
}

// GetAllLoggerStats returns metrics for every tracked logger keyed by label.
func GetAllLoggerStats() map[string]*LoggerStats {
	loggerCacheMu.RLock()
	defer loggerCacheMu.RUnlock()
	result := make(map[string]*LoggerStats, len(loggerCache))
	for label, s := range loggerCache {
		dup := *s
		result[label] = &dup
	}
	return result
}

func updateLogger(label string, update func(*LoggerStats)) {
	loggerCacheMu.Lock()
	defer loggerCacheMu.Unlock()
	s, ok := loggerCache[label]
	if !ok {
		s = &LoggerStats{}
		loggerCache[label] = s
	}
	update(s)
}
