package host

// MultiConsole fans each print call out to several consoles.
type MultiConsole struct {
	consoles []Console
}

// NewMultiConsole creates a console printing to every non-nil console given.
func NewMultiConsole(consoles ...Console) *MultiConsole {
	m := &MultiConsole{}
	for _, c := range consoles {
		if c != nil {
			m.consoles = append(m.consoles, c)
		}
	}
	return m
}

// Method implements Console. Each member resolves the method with its own
// fallback to "log"; nil is returned when no member can print.
func (m *MultiConsole) Method(name string) PrintFunc {
	var fns []PrintFunc
	for _, c := range m.consoles {
		if fn := Select(c, name); fn != nil {
			fns = append(fns, fn)
		}
	}
	if len(fns) == 0 {
		return nil
	}
	return func(args ...any) {
		for _, fn := range fns {
			fn(args...)
		}
	}
}
