package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"holidaycal/internal/holiday"
)

// NewRulesCommand creates the rules command, which lists the built-in rules.
func NewRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the built-in holiday and observance rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tNAME\tWHEN")
			for _, r := range holiday.Rules() {
				fmt.Fprintf(tw, "%s\t%s %s\t%s\n", r.Category, holiday.EmojiFor(r.Title), r.Title, r.When)
			}
			return tw.Flush()
		},
	}
}
