package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/aristath/sdnwatch/internal/di"
	"github.com/aristath/sdnwatch/internal/modules/history"
	"github.com/spf13/cobra"
)

// historyCmd prints the rolling history window
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show additions and removals of recent runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withContainer(func(ctx context.Context, c *di.Container) error {
		log, err := c.ReconciliationService.History(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(log) == 0 {
			fmt.Fprintln(out, "No runs recorded yet")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIMESTAMP\tADDED\tREMOVED")
		for _, e := range log {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", e.Timestamp.UTC().Format(time.RFC3339), e.AdditionsCount, e.DeletionsCount)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		trend := history.Summarize(log)
		fmt.Fprintf(out, "\n%d run(s): +%.0f / -%.0f (avg +%.1f / -%.1f)\n",
			trend.Runs, trend.TotalAdditions, trend.TotalDeletions, trend.MeanAdditions, trend.MeanDeletions)
		return nil
	})
}
