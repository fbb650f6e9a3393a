package format

import (
	"github.com/fatih/color"

	"github.com/smazurov/loglevel/pkg/level"
)

var ansi = map[level.Level]*color.Color{
	level.Trace: forced(color.FgCyan),
	level.Debug: forced(color.FgGreen),
	level.Info:  forced(color.FgHiBlue),
	level.Warn:  forced(color.FgYellow),
	level.Error: forced(color.FgHiRed),
}

// forced returns a color that always emits escapes; whether the host renders
// them is decided by the caller.
func forced(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// ANSI wraps text in the terminal color of lvl. Silent is left plain.
func ANSI(lvl level.Level, text string) string {
	c, ok := ansi[lvl]
	if !ok {
		return text
	}
	return c.Sprint(text)
}

// CSS returns the console style for a level badge.
func CSS(lvl level.Level) string {
	return "color: white; background-color: " + lvl.Color() +
		"; padding: 2px 6px; border-radius: 2px; font-weight: bold;"
}
