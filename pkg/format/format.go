// Package format turns a leveled call into the arguments handed to a console
// print primitive.
//
// Three variants ship with the package: Default prefixes a timestamp, the
// level tag and the logger name; Minimal prefixes only the logger name; JSON
// renders the whole call as one JSON document. Decoration follows the host:
// CSS styles on graphical consoles, ANSI escapes on color terminals, plain
// text elsewhere.
package format

import (
	"sync"
	"time"

	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
)

// Formatter renders one call. Implementations are safe for concurrent use;
// flag changes are seen by every logger sharing the formatter.
type Formatter interface {
	// Format returns the console arguments for a call, or an empty slice for Silent.
	Format(lvl level.Level, method, loggerName string, args []any) []any

	UsesColors() bool
	SetUseColors(enable bool)
	IncludesTimestamps() bool
	SetIncludeTimestamps(enable bool)

	// With returns an independent formatter of the same kind carrying the
	// receiver's flags with opts applied on top.
	With(opts ...Option) Formatter
}

// Kind names a formatter variant, as used in configuration.
type Kind string

// Formatter kinds.
const (
	KindDefault Kind = "default"
	KindMinimal Kind = "minimal"
	KindJSON    Kind = "json"
)

// New builds a formatter of the given kind. Unknown kinds yield Default.
func New(kind Kind, opts ...Option) Formatter {
	switch kind {
	case KindMinimal:
		return NewMinimal(opts...)
	case KindJSON:
		return NewJSON(opts...)
	default:
		return NewDefault(opts...)
	}
}

// KindOf reports the variant of f.
func KindOf(f Formatter) Kind {
	switch f.(type) {
	case *Minimal:
		return KindMinimal
	case *JSON:
		return KindJSON
	default:
		return KindDefault
	}
}

// As builds a formatter of kind on the same host and clock as f, with the
// kind's default flags and opts applied on top.
func As(f Formatter, kind Kind, opts ...Option) Formatter {
	var base []Option
	if fl := flagsOf(f); fl != nil {
		s := fl.snapshot()
		base = append(base, WithEnvironment(s.env), WithClock(s.now))
	}
	return New(kind, append(base, opts...)...)
}

func flagsOf(f Formatter) *flags {
	switch v := f.(type) {
	case *Default:
		return v.flags
	case *Minimal:
		return v.flags
	case *JSON:
		return v.flags
	default:
		return nil
	}
}

// Option configures a formatter at construction.
type Option func(*settings)

type settings struct {
	colors     bool
	timestamps bool
	env        host.Environment
	now        func() time.Time
}

// WithColors sets the color flag.
func WithColors(enable bool) Option {
	return func(s *settings) {
		s.colors = enable
	}
}

// WithTimestamps sets the timestamp flag.
func WithTimestamps(enable bool) Option {
	return func(s *settings) {
		s.timestamps = enable
	}
}

// WithEnvironment fixes the host consulted for decoration. By default the
// current host is used.
func WithEnvironment(env host.Environment) Option {
	return func(s *settings) {
		s.env = env
	}
}

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// flags holds the state shared by every variant.
type flags struct {
	mu         sync.RWMutex
	colors     bool
	timestamps bool
	env        host.Environment
	now        func() time.Time
}

func newFlags(s settings, opts []Option) *flags {
	for _, opt := range opts {
		opt(&s)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return &flags{colors: s.colors, timestamps: s.timestamps, env: s.env, now: s.now}
}

func (f *flags) snapshot() settings {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return settings{colors: f.colors, timestamps: f.timestamps, env: f.env, now: f.now}
}

func (f *flags) environment() host.Environment {
	if f.env != nil {
		return f.env
	}
	return host.Current()
}

func (f *flags) useColors() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.colors
}

func (f *flags) useTimestamps() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.timestamps
}

func (f *flags) setColors(enable bool) {
	f.mu.Lock()
	f.colors = enable
	f.mu.Unlock()
}

func (f *flags) setTimestamps(enable bool) {
	f.mu.Lock()
	f.timestamps = enable
	f.mu.Unlock()
}

// decorate applies the host's color style to prefix and prepends it to args.
func decorate(env host.Environment, colors bool, lvl level.Level, prefix string, args []any) []any {
	switch {
	case colors && env.IsGraphical():
		if !env.SupportsColor() {
			return prepend(prefix, args)
		}
		out := make([]any, 0, len(args)+3)
		out = append(out, "%c"+prefix+"%c", CSS(lvl), "")
		return append(out, args...)
	case colors && env.IsTerminal():
		if !env.SupportsColor() {
			return prepend(prefix, args)
		}
		return prepend(ANSI(lvl, prefix), args)
	default:
		return prepend(prefix, args)
	}
}

func prepend(prefix string, args []any) []any {
	out := make([]any, 0, len(args)+1)
	out = append(out, prefix)
	return append(out, args...)
}
