// Package storage persists logger levels across restarts.
//
// Every backend keys on the logger name, with the empty name standing for the
// root logger. Backends never fail loudly: an unavailable host capability or
// a store error turns into false (or absent) plus a diagnostic on the
// configured slog logger.
package storage

import (
	"log/slog"
	"time"

	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
)

// Storage saves, loads and clears the level of a named logger.
type Storage interface {
	Save(lvl level.Level, name string) bool
	Load(name string) (level.Level, bool)
	Clear(name string) bool
}

// DefaultPrefix namespaces keys written by the durable and cookie backends.
const DefaultPrefix = "logger"

// Option configures a backend.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	expiryDays int
	now        func() time.Time
}

func newOptions(opts []Option) options {
	o := options{expiryDays: defaultExpiryDays, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

// WithLogger sets the logger receiving storage diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithExpiryDays sets the lifetime of cookies written by the Cookie backend.
func WithExpiryDays(days int) Option {
	return func(o *options) {
		o.expiryDays = days
	}
}

// WithClock replaces the time source used for cookie expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Select probes the host and returns the first available backend: the
// durable key-value store, then cookies, then process memory.
func Select(env host.Environment, prefix string, opts ...Option) Storage {
	switch {
	case host.HasKeyValue(env):
		return NewKeyValue(env, prefix, opts...)
	case host.HasCookies(env):
		return NewCookie(env, prefix, opts...)
	default:
		return NewMemory()
	}
}

func storageKey(prefix, name string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if name == "" {
		return prefix
	}
	return prefix + ":" + name
}

// parseStored normalizes a persisted value, warning when it is not a level.
func parseStored(o options, backend, key, value string) (level.Level, bool) {
	lvl, err := level.Parse(value)
	if err != nil {
		o.log().Warn("Invalid saved log level", "backend", backend, "key", key, "value", value)
		return 0, false
	}
	return lvl, true
}
