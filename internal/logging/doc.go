// Package logging routes the service's own slog output through the loglevel
// façade, with per-module log level configuration.
//
// # Overview
//
// Every module gets an *slog.Logger whose handler prints through the named
// façade logger of the same module. The façade decides what is printed
// (its level), how it looks (its formatter) and where it goes (the host
// console: the terminal, the systemd journal when available, and the
// in-memory buffer served by the admin API).
//
// # Usage
//
// Initialize the logging system once at startup with the service registry:
//
//	root := loglevel.New(loglevel.WithEnvironment(env))
//	logging.Initialize(root, logging.Config{
//		Level:  "info",      // Global log level: trace, debug, info, warn, error, silent
//		Format: "text",      // Output format: text, minimal or json
//		Modules: map[string]string{
//			"config": "debug",  // Per-module overrides
//			"api":    "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("mymodule")
//	logger.Info("Starting up", "port", 8080)
//	logger.Warn("Something unusual", "error", err)
//
// Loggers obtained before Initialize print through a private registry at
// info and switch to the service registry once it is installed.
//
// # Levels
//
// slog levels map onto the façade scale: anything below slog.LevelDebug is
// trace, then debug, info, warn and error. Record attributes are flattened
// with dot-notation group keys and handed to the formatter as one Fields
// value after the message.
//
// # Configuration
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	config = "debug"
//	api = "warn"
package logging
