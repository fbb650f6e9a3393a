package format

import "github.com/smazurov/loglevel/pkg/level"

// Minimal prints only "[name]" before the arguments and never a timestamp.
type Minimal struct {
	*flags
}

// NewMinimal creates a Minimal formatter. WithTimestamps has no effect.
func NewMinimal(opts ...Option) *Minimal {
	m := &Minimal{flags: newFlags(settings{colors: true}, opts)}
	m.timestamps = false
	return m
}

// Format implements Formatter.
func (m *Minimal) Format(lvl level.Level, _ string, loggerName string, args []any) []any {
	if lvl >= level.Silent {
		return []any{}
	}

	if loggerName == "" {
		// Nothing to prefix, with or without colors.
		return args
	}

	return decorate(m.environment(), m.useColors(), lvl, "["+loggerName+"]", args)
}

// UsesColors implements Formatter.
func (m *Minimal) UsesColors() bool { return m.useColors() }

// SetUseColors implements Formatter.
func (m *Minimal) SetUseColors(enable bool) { m.setColors(enable) }

// IncludesTimestamps implements Formatter. It is always false.
func (m *Minimal) IncludesTimestamps() bool { return false }

// SetIncludeTimestamps implements Formatter. It is a no-op.
func (m *Minimal) SetIncludeTimestamps(bool) {}

// With implements Formatter.
func (m *Minimal) With(opts ...Option) Formatter {
	return NewMinimal(append([]Option{restore(m.snapshot())}, opts...)...)
}

func restore(s settings) Option {
	return func(dst *settings) {
		*dst = s
	}
}
