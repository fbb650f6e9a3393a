package format

import (
	"strings"

	"github.com/smazurov/loglevel/pkg/level"
)

// Default prints "[2006-01-02 15:04:05] [LEVEL] [name]:" before the
// arguments. Colors and timestamps are on unless disabled.
type Default struct {
	*flags
}

// NewDefault creates a Default formatter.
func NewDefault(opts ...Option) *Default {
	return &Default{flags: newFlags(settings{colors: true, timestamps: true}, opts)}
}

// Format implements Formatter.
func (d *Default) Format(lvl level.Level, _ string, loggerName string, args []any) []any {
	if lvl >= level.Silent {
		return []any{}
	}

	s := d.snapshot()
	env := d.environment()

	var b strings.Builder
	if s.timestamps {
		b.WriteString("[" + FormatTime(s.now(), TimeOptions{}) + "] ")
	}
	b.WriteByte('[')
	if s.colors && env.IsGraphical() {
		b.WriteString(lvl.Icon() + " ")
	}
	b.WriteString(lvl.Upper())
	b.WriteByte(']')
	if loggerName != "" {
		b.WriteString(" [" + loggerName + "]:")
	}

	return decorate(env, s.colors, lvl, b.String(), args)
}

// UsesColors implements Formatter.
func (d *Default) UsesColors() bool { return d.useColors() }

// SetUseColors implements Formatter.
func (d *Default) SetUseColors(enable bool) { d.setColors(enable) }

// IncludesTimestamps implements Formatter.
func (d *Default) IncludesTimestamps() bool { return d.useTimestamps() }

// SetIncludeTimestamps implements Formatter.
func (d *Default) SetIncludeTimestamps(enable bool) { d.setTimestamps(enable) }

// With implements Formatter.
func (d *Default) With(opts ...Option) Formatter {
	return &Default{flags: newFlags(d.snapshot(), opts)}
}
