package logging

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/smazurov/loglevel/pkg/format"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/loglevel"
)

// Logger is a duck-typed interface satisfied by *slog.Logger.
// Use this interface instead of *slog.Logger to decouple from the concrete type.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	moduleLoggers = make(map[string]*slog.Logger)
	registry      *loglevel.Root
	fallback      *loglevel.Root
	mutex         sync.RWMutex
)

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

// Initialize routes the service's logging through root: the global level
// fans out to every module logger, module overrides are applied on top, and
// slog.Default is replaced with a handler printing through the root logger.
// Module loggers handed out earlier follow the new registry.
func Initialize(root *loglevel.Root, config Config) {
	mutex.Lock()
	registry = root
	mutex.Unlock()

	if kind, ok := ParseFormat(config.Format); ok && kind != format.KindOf(root.Formatter()) {
		root.SetFormatter(format.As(root.Formatter(), kind))
	}

	if lvl, ok := parseLevel(config.Level); ok {
		root.SetLevel(lvl, false)
	}

	for module, levelStr := range config.Modules {
		lvl, ok := parseLevel(levelStr)
		if !ok || module == "" {
			continue
		}
		root.MustGetLogger(module).SetLevel(lvl, false)
	}

	slog.SetDefault(slog.New(NewHandler(root.Logger)))
}

// Registry returns the registry passed to Initialize, or nil.
func Registry() *loglevel.Root {
	mutex.RLock()
	defer mutex.RUnlock()
	return registry
}

// GetLogger returns a logger for the specified module, creating it if needed.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	if logger, exists := moduleLoggers[module]; exists {
		mutex.RUnlock()
		return logger
	}
	mutex.RUnlock()

	mutex.Lock()
	defer mutex.Unlock()

	// Double-check in case another goroutine created it
	if logger, exists := moduleLoggers[module]; exists {
		return logger
	}

	logger := slog.New(&Handler{target: func() *loglevel.Logger { return moduleTarget(module) }})
	moduleLoggers[module] = logger
	return logger
}

// moduleTarget resolves the façade logger of module on the current registry.
// Before Initialize, module loggers print through a private registry at info.
func moduleTarget(module string) *loglevel.Logger {
	mutex.RLock()
	root := registry
	mutex.RUnlock()

	if root == nil {
		root = fallbackRoot()
	}
	if module == "" {
		return root.Logger
	}
	return root.MustGetLogger(module)
}

func fallbackRoot() *loglevel.Root {
	mutex.Lock()
	defer mutex.Unlock()
	if fallback == nil {
		fallback = loglevel.New()
		fallback.SetLevel(level.Info, false)
	}
	return fallback
}

// ParseFormat maps a configured output format onto a formatter kind. "text"
// is the Default formatter.
func ParseFormat(s string) (format.Kind, bool) {
	switch strings.ToLower(s) {
	case "text", "default":
		return format.KindDefault, true
	case "minimal":
		return format.KindMinimal, true
	case "json":
		return format.KindJSON, true
	default:
		return "", false
	}
}

// parseLevel converts a configured level, accepting "warning" for warn.
func parseLevel(s string) (level.Level, bool) {
	if strings.EqualFold(s, "warning") {
		return level.Warn, true
	}
	lvl, err := level.Parse(s)
	if err != nil {
		return 0, false
	}
	return lvl, true
}
