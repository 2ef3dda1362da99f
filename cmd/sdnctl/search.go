package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/aristath/sdnwatch/internal/di"
	"github.com/spf13/cobra"
)

// searchCmd looks a name up in the stored snapshot
var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search the stored SDN snapshot by name",
	Long: `Case-insensitive substring search over entity names in the most recently
stored snapshot. Multiple arguments are joined with spaces.`,
	Example: `  sdnctl search banco nacional`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	return withContainer(func(ctx context.Context, c *di.Container) error {
		results, err := c.LookupService.Lookup(ctx, query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintf(out, "No SDN records found for %q\n", query)
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPROGRAM")
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Type, r.Program)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%d record(s)\n", len(results))
		return nil
	})
}
