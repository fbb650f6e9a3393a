package host

import (
	"io"
	"sync"
)

// TerminalConsole prints one line per call. trace, debug, info and log go to
// out; warn and error go to errOut.
type TerminalConsole struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

// NewTerminalConsole creates a console over the given writers. A nil errOut
// sends everything to out.
func NewTerminalConsole(out, errOut io.Writer) *TerminalConsole {
	if errOut == nil {
		errOut = out
	}
	return &TerminalConsole{out: out, errOut: errOut}
}

// Method implements Console.
func (c *TerminalConsole) Method(name string) PrintFunc {
	switch name {
	case "trace", "debug", "info", MethodLog:
		return c.printer(c.out)
	case "warn", "error":
		return c.printer(c.errOut)
	default:
		return nil
	}
}

func (c *TerminalConsole) printer(w io.Writer) PrintFunc {
	return func(args ...any) {
		line := Sprint(args...) + "\n"
		c.mu.Lock()
		defer c.mu.Unlock()
		_, _ = io.WriteString(w, line)
	}
}
