package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/storage"
)

var storageOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "loglevel",
	Subsystem: "storage",
	Name:      "operations_total",
	Help:      "Level storage operations by operation and result",
}, []string{"op", "result"})

// CountingStorage counts the operations of the wrapped storage.
type CountingStorage struct {
	inner storage.Storage
}

// NewCountingStorage wraps inner.
func NewCountingStorage(inner storage.Storage) *CountingStorage {
	return &CountingStorage{inner: inner}
}

// Save implements storage.Storage.
func (c *CountingStorage) Save(lvl level.Level, name string) bool {
	ok := c.inner.Save(lvl, name)
	storageOps.WithLabelValues("save", result(ok, "ok", "failed")).Inc()
	return ok
}

// Load implements storage.Storage.
func (c *CountingStorage) Load(name string) (level.Level, bool) {
	lvl, ok := c.inner.Load(name)
	storageOps.WithLabelValues("load", result(ok, "hit", "miss")).Inc()
	return lvl, ok
}

// Clear implements storage.Storage.
func (c *CountingStorage) Clear(name string) bool {
	ok := c.inner.Clear(name)
	storageOps.WithLabelValues("clear", result(ok, "removed", "absent")).Inc()
	return ok
}

func result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
