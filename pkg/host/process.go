//go:build !js

package host

import (
	"os"
	"slices"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

var colorTerms = []string{"xterm", "xterm-256color", "screen", "screen-256color"}

// Process is the Environment of a native process: a terminal-capable host
// with no graphical console and no global scope. A durable store and a
// cookie jar are only present when supplied.
type Process struct {
	console Console
	store   KeyValueStore
	jar     CookieJar
	out     *os.File
	getenv  func(string) string
}

// ProcessOption configures a Process.
type ProcessOption func(*Process)

// WithConsole replaces the terminal console.
func WithConsole(c Console) ProcessOption {
	return func(p *Process) {
		p.console = c
	}
}

// WithKeyValue attaches a durable key-value store.
func WithKeyValue(s KeyValueStore) ProcessOption {
	return func(p *Process) {
		p.store = s
	}
}

// WithCookieJar attaches a cookie jar.
func WithCookieJar(j CookieJar) ProcessOption {
	return func(p *Process) {
		p.jar = j
	}
}

// WithGetenv overrides environment variable lookup, used by color detection.
func WithGetenv(fn func(string) string) ProcessOption {
	return func(p *Process) {
		p.getenv = fn
	}
}

// NewProcess creates a Process host writing to stdout and stderr.
func NewProcess(opts ...ProcessOption) *Process {
	p := &Process{
		out:    os.Stdout,
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.console == nil {
		p.console = NewTerminalConsole(colorable.NewColorableStdout(), colorable.NewColorableStderr())
	}
	return p
}

var (
	current     Environment
	currentOnce sync.Once
)

// Current returns the host of the running process.
func Current() Environment {
	currentOnce.Do(func() {
		current = NewProcess()
	})
	return current
}

// IsGraphical implements Environment.
func (p *Process) IsGraphical() bool { return false }

// IsTerminal implements Environment.
func (p *Process) IsTerminal() bool { return true }

// SupportsColor honors NO_COLOR, then accepts a TTY on stdout or a known TERM.
func (p *Process) SupportsColor() bool {
	if p.getenv("NO_COLOR") != "" {
		return false
	}
	if p.out != nil {
		fd := p.out.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return true
		}
	}
	return slices.Contains(colorTerms, p.getenv("TERM"))
}

// Console implements Environment.
func (p *Process) Console() Console { return p.console }

// KeyValue implements Environment.
func (p *Process) KeyValue() KeyValueStore { return p.store }

// Cookies implements Environment.
func (p *Process) Cookies() CookieJar { return p.jar }

// Globals implements Environment. Native processes expose no global scope.
func (p *Process) Globals() GlobalScope { return nil }
