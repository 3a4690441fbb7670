// Package cli implements the flashgrid command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root Cobra command for the flashgrid CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit environment
// lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	s := &session{lookupEnv: lookupEnv}

	cmd := &cobra.Command{
		Use:           "flashgrid",
		Short:         "Terminal data grid that flashes changed cells",
		Long:          "flashgrid renders row files as a table and highlights cells whose value changed since the previous update.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return s.cleanup()
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to a YAML or TOML config file")
	cmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "", "log format (console or json)")

	cmd.AddCommand(newRenderCmd(s), newViewCmd(s), newVersionCmd())
	return cmd
}

const rootCmdExample = `  # Print a table of the rows in a file
  flashgrid render --data services.json

  # Pick and order columns
  flashgrid render --data services.yaml --columns name,status,cpu

  # Browse rows interactively, re-reading the file every second
  flashgrid view --data services.ndjson --watch 1s

  # Use a config file for column renderers and class rules
  flashgrid view --config grid.yaml --data a.json --data b.json --scroll-to 40`
