package storage

import (
	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
)

// KeyValue persists levels in the host's durable key-value store under
// "prefix" for the root logger and "prefix:name" for children.
type KeyValue struct {
	env    host.Environment
	prefix string
	opts   options
}

// NewKeyValue creates a backend over env's durable store. An empty prefix
// means DefaultPrefix.
func NewKeyValue(env host.Environment, prefix string, opts ...Option) *KeyValue {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KeyValue{env: env, prefix: prefix, opts: newOptions(opts)}
}

// Save implements Storage.
func (k *KeyValue) Save(lvl level.Level, name string) bool {
	if !host.HasKeyValue(k.env) {
		return false
	}
	key := storageKey(k.prefix, name)
	if err := k.env.KeyValue().Set(key, lvl.String()); err != nil {
		k.opts.log().Error("Failed to save log level", "backend", "keyvalue", "key", key, "error", err)
		return false
	}
	return true
}

// Load implements Storage.
func (k *KeyValue) Load(name string) (level.Level, bool) {
	if !host.HasKeyValue(k.env) {
		return 0, false
	}
	key := storageKey(k.prefix, name)
	value, ok, err := k.env.KeyValue().Get(key)
	if err != nil {
		k.opts.log().Error("Failed to load log level", "backend", "keyvalue", "key", key, "error", err)
		return 0, false
	}
	if !ok || value == "" {
		return 0, false
	}
	return parseStored(k.opts, "keyvalue", key, value)
}

// Clear implements Storage.
func (k *KeyValue) Clear(name string) bool {
	if !host.HasKeyValue(k.env) {
		return false
	}
	key := storageKey(k.prefix, name)
	if err := k.env.KeyValue().Remove(key); err != nil {
		k.opts.log().Error("Failed to clear log level", "backend", "keyvalue", "key", key, "error", err)
		return false
	}
	return true
}
