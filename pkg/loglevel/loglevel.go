// Package loglevel is a level-filtering logging façade with a registry of
// named loggers.
//
// Every logger compares a call's level against its own current level and,
// when the call passes, renders it through a formatter and prints it with
// the host console's method for that level. The Root logger doubles as the
// registry: GetLogger hands out named children that inherit the root's level
// and formatter at creation, and registry-wide changes fan out to every
// existing child.
//
// Levels can be persisted per logger name through a storage backend chosen
// from what the host offers (see package storage), so a level chosen at
// runtime survives restarts.
//
//	log := loglevel.Default()
//	db := log.MustGetLogger("db")
//	db.SetLevel("debug", true)
//	db.Debug("connected", map[string]any{"port": 5432})
package loglevel

import (
	"sync"

	"github.com/smazurov/loglevel/pkg/format"
	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/storage"
)

// Level ordinals, re-exported for callers that only import this package.
const (
	LevelTrace  = level.Trace
	LevelDebug  = level.Debug
	LevelInfo   = level.Info
	LevelWarn   = level.Warn
	LevelError  = level.Error
	LevelSilent = level.Silent
)

// Formatter constructors, re-exported.
var (
	NewDefaultFormatter = format.NewDefault
	NewMinimalFormatter = format.NewMinimal
	NewJSONFormatter    = format.NewJSON
)

var (
	defaultRoot *Root
	defaultOnce sync.Once
)

// Default returns the process-wide registry, creating it on first use on the
// current host with persistence through the best available backend.
func Default() *Root {
	defaultOnce.Do(func() {
		env := host.Current()
		defaultRoot = New(WithEnvironment(env))
		defaultRoot.Persist(storage.Select(env, storage.DefaultPrefix))
	})
	return defaultRoot
}

// GetLogger returns a named child of the default registry.
func GetLogger(name string) (*Logger, error) {
	return Default().GetLogger(name)
}

// SetLevel sets the level of the default registry and all its children.
func SetLevel(desc any, persist bool) {
	Default().SetLevel(desc, persist)
}

// Trace logs on the default root logger.
func Trace(args ...any) { Default().Trace(args...) }

// Debug logs on the default root logger.
func Debug(args ...any) { Default().Debug(args...) }

// Info logs on the default root logger.
func Info(args ...any) { Default().Info(args...) }

// Warn logs on the default root logger.
func Warn(args ...any) { Default().Warn(args...) }

// Error logs on the default root logger.
func Error(args ...any) { Default().Error(args...) }
