package loglevel

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/smazurov/loglevel/pkg/format"
	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/storage"
)

// Logger filters calls by level and hands the survivors, rendered by its
// formatter, to the host console. A Logger is safe for concurrent use.
type Logger struct {
	name string
	env  host.Environment
	diag *slog.Logger

	mu           sync.RWMutex
	current      level.Level
	defaultLevel level.Level
	formatter    format.Formatter
	storage      storage.Storage
	observers    []Observer
}

// NewLogger creates a standalone logger at Warn with a Default formatter and
// no persistence. Loggers obtained from a Root share its configuration
// instead.
func NewLogger(name string, opts ...Option) *Logger {
	return newLogger(name, newConfig(opts))
}

func newLogger(name string, cfg config) *Logger {
	l := &Logger{
		name:         name,
		env:          cfg.env,
		diag:         cfg.diag,
		current:      level.Warn,
		defaultLevel: level.Warn,
		formatter:    cfg.formatter,
		storage:      cfg.storage,
		observers:    slices.Clone(cfg.observers),
	}
	if l.formatter == nil {
		l.formatter = format.NewDefault(format.WithEnvironment(cfg.env))
	}
	if l.storage != nil {
		l.loadPersisted()
	}
	return l
}

// Name returns the logger name; the root logger has none.
func (l *Logger) Name() string { return l.name }

// Trace logs args at Trace. Like every leveled method it returns l so
// calls can be chained.
func (l *Logger) Trace(args ...any) *Logger { return l.dispatch(level.Trace, "trace", args) }

// Debug logs args at Debug.
func (l *Logger) Debug(args ...any) *Logger { return l.dispatch(level.Debug, "debug", args) }

// Info logs args at Info.
func (l *Logger) Info(args ...any) *Logger { return l.dispatch(level.Info, "info", args) }

// Warn logs args at Warn.
func (l *Logger) Warn(args ...any) *Logger { return l.dispatch(level.Warn, "warn", args) }

// Error logs args at Error.
func (l *Logger) Error(args ...any) *Logger { return l.dispatch(level.Error, "error", args) }

// Log is Debug.
func (l *Logger) Log(args ...any) *Logger { return l.dispatch(level.Debug, "debug", args) }

// Print logs args at lvl through the console method named after it. Silent
// and out-of-range levels print nothing.
func (l *Logger) Print(lvl level.Level, args ...any) *Logger {
	if lvl >= level.Silent {
		return l
	}
	return l.dispatch(lvl, lvl.String(), args)
}

// Enabled reports whether a call at lvl would be printed.
func (l *Logger) Enabled(lvl level.Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return lvl < level.Silent && lvl >= l.current
}

func (l *Logger) dispatch(lvl level.Level, method string, args []any) *Logger {
	l.mu.RLock()
	current, f := l.current, l.formatter
	l.mu.RUnlock()

	if lvl < current {
		return l
	}
	env := l.environment()
	if !host.HasConsole(env) {
		return l
	}
	emit := host.Select(env.Console(), method)
	if emit == nil {
		return l
	}
	emit(f.Format(lvl, method, l.name, args)...)
	return l
}

func (l *Logger) environment() host.Environment {
	if l.env != nil {
		return l.env
	}
	return host.Current()
}

func (l *Logger) diagnostics() *slog.Logger {
	if l.diag != nil {
		return l.diag
	}
	return slog.Default()
}

// Level returns the current level.
func (l *Logger) Level() level.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// LevelName returns the canonical name of the current level.
func (l *Logger) LevelName() string {
	return l.Level().String()
}

// DefaultLevel returns the level ResetLevel restores.
func (l *Logger) DefaultLevel() level.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.defaultLevel
}

// SetLevel sets the current level from any descriptor level.Normalize
// accepts, saving it when persist is set and storage is attached. An invalid
// descriptor is reported on the diagnostics logger and changes nothing.
func (l *Logger) SetLevel(desc any, persist bool) *Logger {
	lvl, err := level.Normalize(desc)
	if err != nil {
		l.diagnostics().Error("Invalid log level", "logger", l.name, "level", desc, "error", err)
		return l
	}
	l.applyLevel(lvl, persist)
	return l
}

func (l *Logger) applyLevel(lvl level.Level, persist bool) {
	l.mu.Lock()
	prev := l.current
	l.current = lvl
	store := l.storage
	l.mu.Unlock()

	if persist && store != nil {
		store.Save(lvl, l.name)
	}
	l.notify(prev, lvl)
}

// SetDefaultLevel sets the level ResetLevel restores. The current level
// follows it only while it still equals Warn, the initial level; a logger
// explicitly set to Warn therefore also follows.
func (l *Logger) SetDefaultLevel(desc any) *Logger {
	lvl, err := level.Normalize(desc)
	if err != nil {
		l.diagnostics().Error("Invalid default log level", "logger", l.name, "level", desc, "error", err)
		return l
	}

	l.mu.Lock()
	prev := l.current
	l.defaultLevel = lvl
	if l.current == level.Warn {
		l.current = lvl
	}
	next := l.current
	l.mu.Unlock()

	l.notify(prev, next)
	return l
}

// ResetLevel clears any persisted level and restores the default level.
func (l *Logger) ResetLevel() *Logger {
	l.mu.Lock()
	prev := l.current
	l.current = l.defaultLevel
	next := l.current
	store := l.storage
	l.mu.Unlock()

	if store != nil {
		store.Clear(l.name)
	}
	l.notify(prev, next)
	return l
}

// EnableAll sets the level to Trace.
func (l *Logger) EnableAll(persist bool) *Logger {
	return l.SetLevel(level.Trace, persist)
}

// DisableAll sets the level to Silent.
func (l *Logger) DisableAll(persist bool) *Logger {
	return l.SetLevel(level.Silent, persist)
}

// SetFormatter replaces the formatter. A nil formatter is ignored.
func (l *Logger) SetFormatter(f format.Formatter) *Logger {
	if f == nil {
		return l
	}
	l.mu.Lock()
	l.formatter = f
	l.mu.Unlock()
	return l
}

// Formatter returns the formatter in use.
func (l *Logger) Formatter() format.Formatter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.formatter
}

// UseColors toggles colors on the formatter in use, which may be shared.
func (l *Logger) UseColors(enable bool) *Logger {
	l.Formatter().SetUseColors(enable)
	return l
}

// UseTimestamps toggles timestamps on the formatter in use, which may be shared.
func (l *Logger) UseTimestamps(enable bool) *Logger {
	l.Formatter().SetIncludeTimestamps(enable)
	return l
}

// Persist attaches s, or the best backend the host offers when s is nil,
// and adopts any level already saved for this logger.
func (l *Logger) Persist(s storage.Storage) *Logger {
	if s == nil {
		s = storage.Select(l.environment(), storage.DefaultPrefix, storage.WithLogger(l.diag))
	}
	l.attach(s)
	l.loadPersisted()
	return l
}

func (l *Logger) attach(s storage.Storage) {
	l.mu.Lock()
	l.storage = s
	l.mu.Unlock()
}

// Storage returns the attached persistence backend, or nil.
func (l *Logger) Storage() storage.Storage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.storage
}

func (l *Logger) loadPersisted() {
	l.mu.RLock()
	store := l.storage
	l.mu.RUnlock()
	if store == nil {
		return
	}
	if lvl, ok := store.Load(l.name); ok {
		l.applyLevel(lvl, false)
	}
}

// Observe registers fn to be told about every level change of this logger.
func (l *Logger) Observe(fn Observer) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.observers = append(l.observers, fn)
	l.mu.Unlock()
}

func (l *Logger) notify(prev, next level.Level) {
	if prev == next {
		return
	}
	l.mu.RLock()
	observers := l.observers
	l.mu.RUnlock()

	change := Change{Logger: l.name, Previous: prev, Current: next}
	for _, fn := range observers {
		fn(change)
	}
}
