package loglevel

import (
	"errors"
	"slices"
	"sync"

	"github.com/smazurov/loglevel/pkg/format"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/storage"
)

// ErrEmptyName is returned by GetLogger for an empty name.
var ErrEmptyName = errors.New("logger name cannot be empty")

// GlobalName is the identifier BindGlobal publishes the registry under.
const GlobalName = "log"

// Root is the unnamed root logger and the registry of its named children.
// Level, formatter, color, timestamp and persistence changes made through
// Root apply to the root and to every child that exists at the time; a
// child created later starts from the root's state at creation.
type Root struct {
	*Logger

	mu       sync.Mutex
	cfg      config
	children map[string]*Logger
	onCreate []func(*Logger)

	prior    any
	hadPrior bool
	bound    bool
}

// New creates an independent registry. Persistence is off unless
// WithStorage is given or Persist is called.
func New(opts ...Option) *Root {
	cfg := newConfig(opts)
	return &Root{
		Logger:   newLogger("", cfg),
		cfg:      cfg,
		children: make(map[string]*Logger),
	}
}

// GetLogger returns the child named name, creating it on first use with the
// root's current level and formatter and any level persisted for the name.
// The same name always yields the same *Logger.
//
// Storage is read and creation hooks run without the registry lock held, so
// either may log through this registry.
func (r *Root) GetLogger(name string) (*Logger, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	r.mu.Lock()
	if l, ok := r.children[name]; ok {
		r.mu.Unlock()
		return l, nil
	}
	store := r.Storage()
	r.mu.Unlock()

	var saved level.Level
	var hasSaved bool
	if store != nil {
		saved, hasSaved = store.Load(name)
	}

	r.mu.Lock()
	if l, ok := r.children[name]; ok {
		r.mu.Unlock()
		return l, nil
	}
	cfg := r.cfg
	cfg.formatter = r.Formatter()
	cfg.storage = nil
	l := newLogger(name, cfg)
	l.current = r.Level()
	if store != nil {
		l.storage = store
		if hasSaved {
			l.current = saved
		}
	}
	r.children[name] = l
	hooks := r.onCreate
	r.mu.Unlock()

	for _, fn := range hooks {
		fn(l)
	}
	return l, nil
}

// OnCreate registers fn to run once for every child created from now on.
func (r *Root) OnCreate(fn func(*Logger)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.onCreate = append(slices.Clip(r.onCreate), fn)
	r.mu.Unlock()
}

// MustGetLogger is GetLogger for names known to be non-empty.
func (r *Root) MustGetLogger(name string) *Logger {
	l, err := r.GetLogger(name)
	if err != nil {
		panic(err)
	}
	return l
}

// Lookup returns an existing child without creating it.
func (r *Root) Lookup(name string) (*Logger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.children[name]
	return l, ok
}

// Loggers returns a snapshot of every child keyed by name.
func (r *Root) Loggers() map[string]*Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*Logger, len(r.children))
	for name, l := range r.children {
		out[name] = l
	}
	return out
}

// Names returns the child names in sorted order.
func (r *Root) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.children))
	for name := range r.children {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// all returns the root followed by every child. Callers act on the result
// after the registry lock is released.
func (r *Root) all() []*Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loggersLocked()
}

func (r *Root) loggersLocked() []*Logger {
	out := make([]*Logger, 0, len(r.children)+1)
	out = append(out, r.Logger)
	for _, l := range r.children {
		out = append(out, l)
	}
	return out
}

// each runs fn on the root and every child existing when it is called.
func (r *Root) each(fn func(*Logger)) {
	for _, l := range r.all() {
		fn(l)
	}
}

// SetLevel sets the level of the root and of every existing child. With
// persist set, each logger saves its level to its own storage.
func (r *Root) SetLevel(desc any, persist bool) *Root {
	lvl, err := level.Normalize(desc)
	if err != nil {
		r.diagnostics().Error("Invalid log level", "logger", "root", "level", desc, "error", err)
		return r
	}
	r.each(func(l *Logger) { l.applyLevel(lvl, persist) })
	return r
}

// EnableAll sets every logger to Trace.
func (r *Root) EnableAll(persist bool) *Root {
	return r.SetLevel(level.Trace, persist)
}

// DisableAll sets every logger to Silent.
func (r *Root) DisableAll(persist bool) *Root {
	return r.SetLevel(level.Silent, persist)
}

// SetFormatter gives the root and every existing child the same formatter.
func (r *Root) SetFormatter(f format.Formatter) *Root {
	if f == nil {
		return r
	}
	r.each(func(l *Logger) { l.SetFormatter(f) })
	return r
}

// UseColors toggles colors on the formatter of every logger.
func (r *Root) UseColors(enable bool) *Root {
	r.each(func(l *Logger) { l.UseColors(enable) })
	return r
}

// UseTimestamps toggles timestamps on the formatter of every logger.
func (r *Root) UseTimestamps(enable bool) *Root {
	r.each(func(l *Logger) { l.UseTimestamps(enable) })
	return r
}

// Persist attaches s, or the best backend the host offers when s is nil, to
// the root and every existing child, each adopting its saved level.
func (r *Root) Persist(s storage.Storage) *Root {
	if s == nil {
		s = storage.Select(r.environment(), storage.DefaultPrefix, storage.WithLogger(r.diag))
	}
	// Attach under the lock so a child created meanwhile sees the backend,
	// then load saved levels without it.
	r.mu.Lock()
	loggers := r.loggersLocked()
	for _, l := range loggers {
		l.attach(s)
	}
	r.mu.Unlock()

	for _, l := range loggers {
		l.loadPersisted()
	}
	return r
}

// Observe registers fn on the root, every existing child and every child
// created later.
func (r *Root) Observe(fn Observer) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.observers = append(slices.Clip(r.cfg.observers), fn)
	r.Logger.Observe(fn)
	for _, l := range r.children {
		l.Observe(fn)
	}
}

// BindGlobal publishes the registry as "log" in the host's global scope,
// remembering the value it replaces. It only applies on graphical hosts and
// reports whether the binding was made.
func (r *Root) BindGlobal() bool {
	env := r.environment()
	if !env.IsGraphical() {
		return false
	}
	scope := env.Globals()
	if scope == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.bound {
		r.prior, r.hadPrior = scope.Get(GlobalName)
	}
	scope.Set(GlobalName, r)
	r.bound = true
	return true
}

// NoConflict restores whatever "log" held before BindGlobal, but only while
// "log" still refers to this registry.
func (r *Root) NoConflict() *Root {
	scope := r.environment().Globals()
	if scope == nil {
		return r
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.bound {
		return r
	}
	if current, ok := scope.Get(GlobalName); !ok || current != any(r) {
		return r
	}
	if r.hadPrior {
		scope.Set(GlobalName, r.prior)
	} else {
		scope.Delete(GlobalName)
	}
	r.bound = false
	return r
}
