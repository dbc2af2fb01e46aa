package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"holidaycal/internal/holiday"
	"holidaycal/internal/ics"
	appLog "holidaycal/internal/log"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	GenerateOptions
	Output string
	Name   string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write holidays as an iCalendar (.ics) file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, opts, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "calendar name (X-WR-CALNAME)")

	return cmd
}

func runExport(rootOpts *RootOptions, opts *ExportOptions, cmd *cobra.Command) error {
	cfg, err := loadConfigIfPresent(rootOpts)
	if err != nil {
		return err
	}
	genOpts, err := opts.options(cfg)
	if err != nil {
		return err
	}

	events := holiday.Generate(genOpts)
	exportOpts := ics.ExportOptions{Name: opts.Name, Stamp: genOpts.Now}

	if opts.Output == "" || opts.Output == "-" {
		return ics.WriteHolidayCalendar(cmd.OutOrStdout(), events, exportOpts)
	}

	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create dir: %w", err)
		}
	}
	f, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := ics.WriteHolidayCalendar(f, events, exportOpts); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: write %s: %w", opts.Output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", opts.Output, err)
	}

	appLog.Info("calendar exported", "path", opts.Output, "events", len(events))
	return nil
}
