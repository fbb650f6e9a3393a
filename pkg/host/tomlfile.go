package host

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// TOMLFile is a durable KeyValueStore kept in a single TOML file. The file is
// the namespace: every key lives at its top level as a string.
type TOMLFile struct {
	path string
	mu   sync.Mutex
}

// NewTOMLFile creates a store backed by path. The file is created on first write.
func NewTOMLFile(path string) *TOMLFile {
	if path == "" {
		path = "levels.toml"
	}
	return &TOMLFile{path: path}
}

// Path returns the backing file.
func (f *TOMLFile) Path() string {
	return f.path
}

// Get implements KeyValueStore.
func (f *TOMLFile) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set implements KeyValueStore.
func (f *TOMLFile) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

// Remove implements KeyValueStore. Removing a missing key is not an error.
func (f *TOMLFile) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

// All returns a copy of every stored pair.
func (f *TOMLFile) All() (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Keys returns every stored key in sorted order.
func (f *TOMLFile) Keys() ([]string, error) {
	values, err := f.All()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *TOMLFile) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read level store: %w", err)
	}

	if unmarshalErr := toml.Unmarshal(data, &values); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse level store: %w", unmarshalErr)
	}
	return values, nil
}

func (f *TOMLFile) write(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create level store directory: %w", err)
	}

	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal level store: %w", err)
	}

	if writeErr := os.WriteFile(f.path, data, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write level store: %w", writeErr)
	}
	return nil
}
