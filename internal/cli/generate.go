package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"holidaycal/internal/config"
	"holidaycal/internal/holiday"
	"holidaycal/internal/scheduler"
)

// GenerateOptions holds flags shared by generate and export.
type GenerateOptions struct {
	StartYear  int
	EndYear    int
	Categories []string
	Format     string

	// now pins the clock for the default year window and DTSTAMP.
	now func() time.Time
}

func (o *GenerateOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.StartYear, "start", 0, "first year (default: current year - holidays.years_back)")
	cmd.Flags().IntVar(&o.EndYear, "end", 0, "last year (default: current year + holidays.years_ahead)")
	cmd.Flags().StringSliceVar(&o.Categories, "category", nil, "only include these categories (Holiday, Observance); overrides holidays.include_observances")
}

// options converts flags into generator options on top of the configured
// window and category set. Flags win over config.
func (o *GenerateOptions) options(cfg *config.Config) (holiday.Options, error) {
	now := time.Now
	if o.now != nil {
		now = o.now
	}
	opts := scheduler.HolidayOptions(cfg, now())
	if o.StartYear != 0 {
		opts.StartYear = o.StartYear
	}
	if o.EndYear != 0 {
		opts.EndYear = o.EndYear
	}
	if len(o.Categories) > 0 {
		opts.Categories = nil
		for _, c := range o.Categories {
			cat, err := holiday.ParseCategory(c)
			if err != nil {
				return opts, err
			}
			opts.Categories = append(opts.Categories, cat)
		}
	}
	return opts, nil
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print holidays and observances for a range of years",
		Long: `Print every holiday and observance in [start, end], sorted by date.

Text output is one event per line: date, category, title. JSON output is an
array of event objects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(rootOpts, opts, cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "output format (json|text)")

	return cmd
}

func runGenerate(rootOpts *RootOptions, opts *GenerateOptions, cmd *cobra.Command) error {
	if !isValidFormat(opts.Format) {
		return errInvalidFormat(opts.Format)
	}
	cfg, err := loadConfigIfPresent(rootOpts)
	if err != nil {
		return err
	}
	genOpts, err := opts.options(cfg)
	if err != nil {
		return err
	}

	events := holiday.Generate(genOpts)
	out := cmd.OutOrStdout()

	switch opts.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(events); err != nil {
			return fmt.Errorf("encode events: %w", err)
		}
		return nil
	default:
		return holiday.WriteText(out, events)
	}
}
