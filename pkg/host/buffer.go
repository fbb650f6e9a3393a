package host

import (
	"sync"
	"time"
)

// Entry is one print call captured by a BufferConsole.
type Entry struct {
	Time   time.Time `json:"time"`
	Method string    `json:"method"`
	Line   string    `json:"line"`
	Args   []any     `json:"-"`
}

// BufferConsole is a Console that keeps the most recent print calls in a
// fixed-size ring, overwriting the oldest entry when full.
type BufferConsole struct {
	entries []Entry
	size    int
	head    int
	count   int
	mu      sync.RWMutex
	now     func() time.Time
}

// NewBufferConsole creates a console holding up to size entries.
func NewBufferConsole(size int) *BufferConsole {
	if size < 1 {
		size = 1
	}
	return &BufferConsole{
		entries: make([]Entry, size),
		size:    size,
		now:     time.Now,
	}
}

// Method implements Console. Every method name is accepted.
func (b *BufferConsole) Method(name string) PrintFunc {
	return func(args ...any) {
		b.write(Entry{
			Time:   b.now(),
			Method: name,
			Line:   Sprint(args...),
			Args:   append([]any(nil), args...),
		})
	}
}

func (b *BufferConsole) write(entry Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.head] = entry
	b.head = (b.head + 1) % b.size

	if b.count < b.size {
		b.count++
	}
}

// ReadAll returns the captured entries oldest first.
func (b *BufferConsole) ReadAll() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}

	result := make([]Entry, b.count)
	if b.count < b.size {
		copy(result, b.entries[:b.count])
	} else {
		n := copy(result, b.entries[b.head:])
		copy(result[n:], b.entries[:b.head])
	}
	return result
}

// Lines returns the rendered lines oldest first.
func (b *BufferConsole) Lines() []string {
	entries := b.ReadAll()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line
	}
	return lines
}

// Count returns the number of captured entries.
func (b *BufferConsole) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Reset drops every captured entry.
func (b *BufferConsole) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.entries)
	b.head = 0
	b.count = 0
}
