package loglevel

import (
	"log/slog"

	"github.com/smazurov/loglevel/pkg/format"
	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/storage"
)

// Change describes a level transition of one logger. Logger is empty for
// the root.
type Change struct {
	Logger   string
	Previous level.Level
	Current  level.Level
}

// Observer is called synchronously after a level change. It must not call
// back into the registry that owns the logger.
type Observer func(Change)

// Option configures a Logger or a Root.
type Option func(*config)

type config struct {
	env       host.Environment
	diag      *slog.Logger
	formatter format.Formatter
	storage   storage.Storage
	observers []Observer
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithEnvironment runs the logger on env instead of the current host.
func WithEnvironment(env host.Environment) Option {
	return func(c *config) {
		c.env = env
	}
}

// WithDiagnostics sets where invalid levels and storage failures are reported.
// The default is slog.Default().
func WithDiagnostics(l *slog.Logger) Option {
	return func(c *config) {
		c.diag = l
	}
}

// WithFormatter sets the initial formatter.
func WithFormatter(f format.Formatter) Option {
	return func(c *config) {
		c.formatter = f
	}
}

// WithStorage enables persistence through s from the start.
func WithStorage(s storage.Storage) Option {
	return func(c *config) {
		c.storage = s
	}
}

// WithObserver registers a level change observer.
func WithObserver(fn Observer) Option {
	return func(c *config) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}
