package storage

import (
	"sync"

	"github.com/smazurov/loglevel/pkg/level"
)

const memoryRootKey = "root"

// Memory keeps levels for the life of the process. It is always available.
type Memory struct {
	mu     sync.RWMutex
	levels map[string]level.Level
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{levels: make(map[string]level.Level)}
}

func memoryKey(name string) string {
	if name == "" {
		return memoryRootKey
	}
	return name
}

// Save implements Storage.
func (m *Memory) Save(lvl level.Level, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[memoryKey(name)] = lvl
	return true
}

// Load implements Storage.
func (m *Memory) Load(name string) (level.Level, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lvl, ok := m.levels[memoryKey(name)]
	return lvl, ok
}

// Clear implements Storage. It reports whether a level was stored.
func (m *Memory) Clear(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(name)
	_, ok := m.levels[key]
	delete(m.levels, key)
	return ok
}
