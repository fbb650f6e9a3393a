//go:build !js

package host

import (
	"fmt"
	"os"

	"github.com/coreos/go-systemd/v22/journal"
)

// JournalConsole prints to the systemd journal, one entry per call.
type JournalConsole struct {
	identifier string
}

// NewJournalConsole creates a console tagging entries with identifier.
func NewJournalConsole(identifier string) *JournalConsole {
	return &JournalConsole{identifier: identifier}
}

// JournalAvailable reports whether the systemd journal socket is reachable.
func JournalAvailable() bool {
	return journal.Enabled()
}

// Method implements Console.
func (j *JournalConsole) Method(name string) PrintFunc {
	priority, ok := methodPriority(name)
	if !ok {
		return nil
	}
	return func(args ...any) {
		fields := map[string]string{
			"SYSLOG_IDENTIFIER": j.identifier,
			"CONSOLE_METHOD":    name,
		}
		if err := journal.Send(Sprint(args...), priority, fields); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send to journal: %v\n", err)
		}
	}
}

func methodPriority(name string) (journal.Priority, bool) {
	switch name {
	case "error":
		return journal.PriErr, true
	case "warn":
		return journal.PriWarning, true
	case "info", MethodLog:
		return journal.PriInfo, true
	case "debug", "trace":
		return journal.PriDebug, true
	default:
		return 0, false
	}
}
