// Package level defines the six-level ordinal scale used by every logger and
// the normalization that turns loose level descriptors into an ordinal.
package level

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Level is a log level ordinal. Lower values are more verbose.
type Level uint8

// Log levels in ascending order of severity.
const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Silent
)

var (
	names = [...]string{"trace", "debug", "info", "warn", "error", "silent"}

	// identifiers are the names of the level constants, matched separately from names.
	identifiers = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "SILENT"}

	colors = [...]string{
		"#4dabf7", // cyan
		"#40c057", // green
		"#228be6", // blue
		"#fd7e14", // orange
		"#fa5252", // red
		"#adb5bd", // gray
	}

	icons = [...]string{"🔍", "🐛", "ℹ️", "⚠️", "❌", "🔇"}
)

// ErrInvalidLevel is matched by every *InvalidLevelError.
var ErrInvalidLevel = errors.New("invalid log level")

// InvalidLevelError reports a descriptor that does not name a level.
type InvalidLevelError struct {
	Descriptor any
}

func (e *InvalidLevelError) Error() string {
	switch d := e.Descriptor.(type) {
	case string:
		return fmt.Sprintf("invalid log level: %q", d)
	case nil:
		return "invalid log level: <nil>"
	default:
		if isNumber(d) {
			return fmt.Sprintf("invalid numeric log level: %v. Must be between 0 and 5", d)
		}
		return fmt.Sprintf("invalid log level: %v (%T)", d, d)
	}
}

// Is reports whether target is ErrInvalidLevel.
func (e *InvalidLevelError) Is(target error) bool {
	return target == ErrInvalidLevel
}

// All returns every level in ascending order, Silent included.
func All() []Level {
	return []Level{Trace, Debug, Info, Warn, Error, Silent}
}

// Valid reports whether l is inside the ordinal range.
func (l Level) Valid() bool {
	return l <= Silent
}

// String returns the canonical lowercase name.
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", uint8(l))
	}
	return names[l]
}

// Upper returns the uppercase tag printed in message prefixes.
func (l Level) Upper() string {
	if !l.Valid() {
		return strings.ToUpper(l.String())
	}
	return identifiers[l]
}

// Color returns the CSS color used to style the level in graphical consoles.
func (l Level) Color() string {
	if !l.Valid() {
		return colors[Silent]
	}
	return colors[l]
}

// Icon returns the glyph shown next to the level in graphical consoles.
func (l Level) Icon() string {
	if !l.Valid() {
		return ""
	}
	return icons[l]
}

// MarshalText encodes the level as its canonical name.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, &InvalidLevelError{Descriptor: uint8(l)}
	}
	return []byte(names[l]), nil
}

// UnmarshalText accepts any name Parse accepts.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Parse matches s case-insensitively against the constant identifiers and
// then against the canonical names.
func Parse(s string) (Level, error) {
	upper := strings.ToUpper(s)
	for i, id := range identifiers {
		if id == upper {
			return Level(i), nil
		}
	}
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return Level(i), nil
		}
	}
	return 0, &InvalidLevelError{Descriptor: s}
}

// Normalize converts a level descriptor into a Level. Accepted descriptors are
// a Level, any integer in [0,5], an integral float in [0,5], or a level name.
// Normalize never has side effects.
func Normalize(desc any) (Level, error) {
	switch d := desc.(type) {
	case Level:
		if d.Valid() {
			return d, nil
		}
		return 0, &InvalidLevelError{Descriptor: uint8(d)}
	case string:
		return Parse(d)
	case int:
		return fromInt(int64(d), desc)
	case int8:
		return fromInt(int64(d), desc)
	case int16:
		return fromInt(int64(d), desc)
	case int32:
		return fromInt(int64(d), desc)
	case int64:
		return fromInt(d, desc)
	case uint:
		return fromUint(uint64(d), desc)
	case uint8:
		return fromUint(uint64(d), desc)
	case uint16:
		return fromUint(uint64(d), desc)
	case uint32:
		return fromUint(uint64(d), desc)
	case uint64:
		return fromUint(d, desc)
	case float32:
		return fromFloat(float64(d), desc)
	case float64:
		return fromFloat(d, desc)
	}
	return 0, &InvalidLevelError{Descriptor: desc}
}

// MustNormalize is Normalize that panics on invalid input. It is meant for
// package-level constants and tests.
func MustNormalize(desc any) Level {
	l, err := Normalize(desc)
	if err != nil {
		panic(err)
	}
	return l
}

func fromInt(n int64, desc any) (Level, error) {
	if n < 0 || n > int64(Silent) {
		return 0, &InvalidLevelError{Descriptor: desc}
	}
	return Level(n), nil
}

func fromUint(n uint64, desc any) (Level, error) {
	if n > uint64(Silent) {
		return 0, &InvalidLevelError{Descriptor: desc}
	}
	return Level(n), nil
}

func fromFloat(f float64, desc any) (Level, error) {
	if math.IsNaN(f) || f != math.Trunc(f) || f < 0 || f > float64(Silent) {
		return 0, &InvalidLevelError{Descriptor: desc}
	}
	return Level(f), nil
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
