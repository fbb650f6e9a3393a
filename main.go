package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/loglevel/cmd"
	"github.com/smazurov/loglevel/internal/api"
	"github.com/smazurov/loglevel/internal/config"
	"github.com/smazurov/loglevel/internal/events"
	"github.com/smazurov/loglevel/internal/logging"
	"github.com/smazurov/loglevel/internal/metrics"
	"github.com/smazurov/loglevel/internal/metrics/exporters"
	"github.com/smazurov/loglevel/internal/version"
	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/loglevel"
	"github.com/smazurov/loglevel/pkg/storage"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"loglevel.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Level persistence
	StateFile string `help:"File holding saved levels" default:"levels.toml" toml:"state.file" env:"STATE_FILE"`

	// Output settings
	OutputBufferSize int  `help:"Recent lines kept for /api/output" default:"500" toml:"output.buffer_size" env:"OUTPUT_BUFFER_SIZE"`
	OutputJournal    bool `help:"Also print to the systemd journal when available" default:"true" toml:"output.journal" env:"OUTPUT_JOURNAL"`

	// Observability settings
	ObsPrometheusEnabled bool `help:"Enable Prometheus" default:"true" toml:"obs.prometheus_enabled" env:"OBS_PROMETHEUS_ENABLED"`
	ObsSSEEnabled        bool `help:"Enable SSE" default:"true" toml:"obs.sse_enabled" env:"OBS_SSE_ENABLED"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Hot reload of the [logging] and [loggers] tables
	WatchConfig bool `help:"Reapply logging settings when the config file changes" default:"true" toml:"logging.watch" env:"LOGGING_WATCH"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		eventBus := events.New()
		metrics.TrackDroppedEvents(eventBus.Dropped)

		// Everything the registry prints goes to the terminal, the journal,
		// the ring buffer behind /api/output and the output SSE stream.
		output := host.NewBufferConsole(opts.OutputBufferSize)
		consoles := []host.Console{
			host.NewProcess().Console(),
			output,
			events.NewConsole(eventBus),
		}
		if opts.OutputJournal && host.JournalAvailable() {
			consoles = append(consoles, host.NewJournalConsole(version.Name))
		}
		stateFile := host.NewTOMLFile(opts.StateFile)
		env := host.NewProcess(
			host.WithConsole(metrics.NewCountingConsole(host.NewMultiConsole(consoles...))),
			host.WithKeyValue(stateFile),
		)

		root := loglevel.New(
			loglevel.WithEnvironment(env),
			loglevel.WithObserver(events.LevelObserver(eventBus)),
		)
		metrics.Track(root)

		// Configured levels first, then saved levels on top of them.
		levels, err := config.LoadLevelsConfig(opts.Config)
		if err != nil {
			slog.Warn("Failed to load logging settings, using defaults", "error", err)
		}
		levels.Apply(root)
		root.Persist(metrics.NewCountingStorage(storage.Select(env, storage.DefaultPrefix,
			storage.WithLogger(logging.GetLogger("storage")))))

		logger := logging.GetLogger("main")
		logger.Info("Logger registry ready",
			"state_file", stateFile.Path(),
			"level", root.LevelName(),
			"loggers", len(root.Names()))

		var watcher *config.Watcher[config.LevelsConfig]
		if opts.WatchConfig && opts.Config != "" {
			watcher = config.NewWatcher(opts.Config, config.LoadLevelsConfig, logging.GetLogger("config"))
			watcher.OnReload(func(cfg config.LevelsConfig) {
				cfg.Apply(root)
				logger.Info("Logging settings reloaded", "level", cfg.Level, "format", cfg.Format)
			})
		}

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Registry:     root,
			Output:       output,
			EventBus:     eventBus,
		}
		if opts.ObsPrometheusEnabled {
			apiOpts.PrometheusHandler = exporters.HTTPHandler(logging.GetLogger("metrics"))
		}
		server := api.NewServer(apiOpts)

		var sseExporter *exporters.SSEExporter
		if opts.ObsSSEEnabled {
			sseExporter = exporters.NewSSEExporter(eventBus)
		}

		hooks.OnStart(func() {
			if watcher != nil {
				if startErr := watcher.Start(); startErr != nil {
					logger.Warn("Failed to start config watcher, hot-reload disabled", "error", startErr)
					watcher = nil
				}
			}
			if sseExporter != nil {
				sseExporter.Start(context.Background())
			}

			logger.Info("Starting HTTP server", "port", opts.Port, "version", version.String())
			if startErr := server.Start(opts.Port); startErr != nil {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if stopErr := server.Stop(ctx); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			if sseExporter != nil {
				sseExporter.Stop()
			}
			if watcher != nil {
				if stopErr := watcher.Stop(); stopErr != nil {
					logger.Warn("Error stopping config watcher", "error", stopErr)
				}
			}
		})
	})

	cli.Root().Use = version.Name
	cli.Root().Short = "Runtime log level control service"
	cli.Root().AddCommand(cmd.CreateLevelsCmd())
	cli.Root().AddCommand(cmd.CreateEmitCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	// Run the CLI
	cli.Run()
}
