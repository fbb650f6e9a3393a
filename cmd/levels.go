package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/smazurov/loglevel/pkg/host"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/storage"
	"github.com/spf13/cobra"
)

// RootAlias names the root logger on the command line.
const RootAlias = "root"

// DefaultStateFile is where the server and the levels command keep saved levels.
const DefaultStateFile = "levels.toml"

// CreateLevelsCmd creates the levels command for inspecting and editing saved
// levels while the service is stopped.
func CreateLevelsCmd() *cobra.Command {
	var stateFile string

	open := func() (*host.TOMLFile, storage.Storage) {
		file := host.NewTOMLFile(stateFile)
		return file, storage.NewKeyValue(&host.Static{Store: file}, storage.DefaultPrefix)
	}

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Inspect and edit saved log levels",
		Long: `Reads and writes the saved-level file used by the server. ` +
			`Levels saved here are picked up on the next start. Use "` + RootAlias + `" for the root logger.`,
	}
	cmd.PersistentFlags().StringVar(&stateFile, "state", DefaultStateFile, "Path to the saved-level file")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every saved level",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			file, _ := open()
			values, err := file.All()
			if err != nil {
				return err
			}
			return printSaved(c.OutOrStdout(), values)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get NAME",
		Short: "Print the saved level of a logger",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			_, store := open()
			lvl, ok := store.Load(loggerName(args[0]))
			if !ok {
				return fmt.Errorf("no saved level for %s", args[0])
			}
			_, err := fmt.Fprintln(c.OutOrStdout(), lvl)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME LEVEL",
		Short: "Save a level for a logger",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			lvl, err := level.Parse(args[1])
			if err != nil {
				return err
			}
			_, store := open()
			if !store.Save(lvl, loggerName(args[0])) {
				return fmt.Errorf("failed to save level for %s", args[0])
			}
			_, err = fmt.Fprintf(c.OutOrStdout(), "%s = %s\n", args[0], lvl)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear NAME",
		Short: "Remove the saved level of a logger",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, store := open()
			if !store.Clear(loggerName(args[0])) {
				return fmt.Errorf("failed to clear level for %s", args[0])
			}
			return nil
		},
	})

	return cmd
}

func loggerName(arg string) string {
	if arg == RootAlias {
		return ""
	}
	return arg
}

// printSaved writes one "name level" line per saved key, root first, skipping
// keys that do not belong to the level namespace. Values the server would
// ignore on load are flagged rather than shown as levels.
func printSaved(w io.Writer, values map[string]string) error {
	type row struct{ name, level string }
	var rows []row
	for key, value := range values {
		switch {
		case key == storage.DefaultPrefix:
			rows = append(rows, row{RootAlias, value})
		case strings.HasPrefix(key, storage.DefaultPrefix+":"):
			rows = append(rows, row{strings.TrimPrefix(key, storage.DefaultPrefix+":"), value})
		}
	}
	slices.SortFunc(rows, func(a, b row) int {
		if a.name == RootAlias {
			return -1
		}
		if b.name == RootAlias {
			return 1
		}
		return strings.Compare(a.name, b.name)
	})
	for _, r := range rows {
		shown := r.level + " (invalid, ignored)"
		if lvl, err := level.Parse(r.level); err == nil {
			shown = lvl.String()
		}
		if _, err := fmt.Fprintf(w, "%-24s %s\n", r.name, shown); err != nil {
			return err
		}
	}
	return nil
}
