package cmd

import (
	"fmt"
	"strings"

	"github.com/smazurov/loglevel/internal/logging"
	"github.com/smazurov/loglevel/pkg/format"
	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/loglevel"
	"github.com/smazurov/loglevel/pkg/storage"
	"github.com/spf13/cobra"
)

// CreateEmitCmd creates the emit command, which prints one message through a
// named logger so shell scripts honor the same saved levels as the server.
func CreateEmitCmd() *cobra.Command {
	var (
		stateFile string
		levelName string
		formatStr string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "emit NAME MESSAGE...",
		Short: "Print a message through a named logger",
		Long: `Prints MESSAGE at --level through logger NAME. The message is dropped when the ` +
			`logger's saved level (or the root's) filters it out.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			lvl, err := level.Parse(levelName)
			if err != nil {
				return err
			}
			kind, ok := logging.ParseFormat(formatStr)
			if !ok {
				return fmt.Errorf("unknown format %q", formatStr)
			}

			env := host.NewProcess(host.WithKeyValue(host.NewTOMLFile(stateFile)))
			emit(env, args[0], lvl, format.New(kind, format.WithEnvironment(env), format.WithColors(!noColor)), args[1:])
			return nil
		},
	}

	cmd.Flags().StringVar(&stateFile, "state", DefaultStateFile, "Path to the saved-level file")
	cmd.Flags().StringVarP(&levelName, "level", "l", "info", "Message level (trace, debug, info, warn, error)")
	cmd.Flags().StringVarP(&formatStr, "format", "f", "text", "Output format (text, minimal, json)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored level prefixes")

	return cmd
}

// emit prints message through logger name on a registry persisted in env's
// key-value store and reports whether the level let it through.
func emit(env host.Environment, name string, lvl level.Level, f format.Formatter, message []string) bool {
	root := loglevel.New(
		loglevel.WithEnvironment(env),
		loglevel.WithFormatter(f),
		loglevel.WithStorage(storage.Select(env, storage.DefaultPrefix)),
	)

	target := root.Logger
	if name != RootAlias {
		target = root.MustGetLogger(name)
	}
	if !target.Enabled(lvl) {
		return false
	}
	target.Print(lvl, strings.Join(message, " "))
	return true
}
