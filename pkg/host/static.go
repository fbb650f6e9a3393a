package host

import "sync"

// Static is an Environment with fixed answers. Fields may be changed between
// calls to simulate a host whose capabilities come and go.
type Static struct {
	Graphical bool
	Terminal  bool
	Color     bool
	Out       Console
	Store     KeyValueStore
	Jar       CookieJar
	Scope     GlobalScope
}

// IsGraphical implements Environment.
func (s *Static) IsGraphical() bool { return s.Graphical }

// IsTerminal implements Environment.
func (s *Static) IsTerminal() bool { return s.Terminal }

// SupportsColor implements Environment.
func (s *Static) SupportsColor() bool { return s.Color }

// Console implements Environment.
func (s *Static) Console() Console { return s.Out }

// KeyValue implements Environment.
func (s *Static) KeyValue() KeyValueStore { return s.Store }

// Cookies implements Environment.
func (s *Static) Cookies() CookieJar { return s.Jar }

// Globals implements Environment.
func (s *Static) Globals() GlobalScope { return s.Scope }

// MapScope is an in-memory GlobalScope.
type MapScope struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMapScope returns an empty scope.
func NewMapScope() *MapScope {
	return &MapScope{values: make(map[string]any)}
}

// Get implements GlobalScope.
func (m *MapScope) Get(name string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[name]
	return v, ok
}

// Set implements GlobalScope.
func (m *MapScope) Set(name string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
}

// Delete implements GlobalScope.
func (m *MapScope) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, name)
}
