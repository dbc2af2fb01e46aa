// Package cli wires the holidaycal commands.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	appLog "holidaycal/internal/log"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// ValidFormats defines the allowed output formats for generate.
var ValidFormats = []string{"text", "json"}

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "./holidaycal.yaml"

// NewRootCommand creates the root command for the holidaycal CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "holidaycal",
		Short: "US holiday and observance calendar",
		Long: `holidaycal computes US federal holidays and popular observances for a
window of years, merges them with user events and ICS subscriptions, and
serves the result over HTTP or as an iCalendar feed.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.Verbose {
				appLog.SetLevel(appLog.LevelDebug)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", DefaultConfigPath, "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewRulesCommand())

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func errInvalidFormat(format string) error {
	return fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
}
