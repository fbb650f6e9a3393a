// Package host describes the environment a logger runs in: the console print
// primitives, the capability probes, and the local stores used to persist
// levels.
//
// Native builds run on a terminal-capable Process host. Builds for js/wasm
// run on a Browser host with a graphical console, localStorage, cookies and
// a global scope. Tests use Static.
package host

import (
	"fmt"
	"strings"
)

// PrintFunc is a single console print primitive.
type PrintFunc func(args ...any)

// Console resolves print primitives by method name ("trace", "debug",
// "info", "warn", "error" and the generic "log").
type Console interface {
	// Method returns the primitive for name, or nil when the console has none.
	Method(name string) PrintFunc
}

// KeyValueStore is a string-keyed store scoped to one namespace.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// CookieJar mirrors a document cookie string: reading returns every live
// cookie as "name=value" pairs joined by "; ", writing takes one Set-Cookie
// style string.
type CookieJar interface {
	Cookie() string
	SetCookie(raw string)
}

// GlobalScope is the host's global namespace.
type GlobalScope interface {
	Get(name string) (any, bool)
	Set(name string, value any)
	Delete(name string)
}

// Environment answers capability probes and hands out host resources. Every
// method is evaluated on each call.
type Environment interface {
	// IsGraphical reports a console that renders CSS styled output.
	IsGraphical() bool
	// IsTerminal reports a host whose console writes to a text terminal.
	IsTerminal() bool
	// SupportsColor reports whether the console renders color at all.
	SupportsColor() bool
	// Console returns nil when no print primitive exists.
	Console() Console
	// KeyValue returns nil when no durable store exists.
	KeyValue() KeyValueStore
	// Cookies returns nil when cookies are unsupported.
	Cookies() CookieJar
	// Globals returns nil when the host has no reachable global scope.
	Globals() GlobalScope
}

const (
	// MethodLog is the generic print primitive used when a level method is missing.
	MethodLog = "log"

	probeKey = "__logger_test__"
)

// Select returns the primitive for method, falling back to the generic one.
func Select(c Console, method string) PrintFunc {
	if c == nil {
		return nil
	}
	if fn := c.Method(method); fn != nil {
		return fn
	}
	return c.Method(MethodLog)
}

// HasConsole reports whether any print primitive is available.
func HasConsole(env Environment) bool {
	return env != nil && env.Console() != nil
}

// HasKeyValue probes the durable store with a write, read and remove.
func HasKeyValue(env Environment) bool {
	if env == nil {
		return false
	}
	store := env.KeyValue()
	if store == nil {
		return false
	}
	if err := store.Set(probeKey, probeKey); err != nil {
		return false
	}
	v, ok, err := store.Get(probeKey)
	_ = store.Remove(probeKey)
	return err == nil && ok && v == probeKey
}

// HasCookies probes the cookie jar by setting and expiring a test cookie.
func HasCookies(env Environment) bool {
	if env == nil {
		return false
	}
	jar := env.Cookies()
	if jar == nil {
		return false
	}
	jar.SetCookie(probeKey + "=" + probeKey + "; path=/")
	found := strings.Contains(jar.Cookie(), probeKey)
	jar.SetCookie(probeKey + "=; expires=Thu, 01 Jan 1970 00:00:00 GMT; path=/")
	return found
}

// Sprint renders console arguments as one line, separating them with spaces.
func Sprint(args ...any) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch v := arg.(type) {
		case string:
			b.WriteString(v)
		case error:
			b.WriteString(v.Error())
		case fmt.Stringer:
			b.WriteString(v.String())
		default:
			fmt.Fprintf(&b, "%+v", v)
		}
	}
	return b.String()
}

// Funcs is a Console built from a fixed set of primitives.
type Funcs map[string]PrintFunc

// Method implements Console.
func (f Funcs) Method(name string) PrintFunc {
	return f[name]
}
