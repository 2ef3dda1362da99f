package main

import (
	"context"
	"encoding/json"
	"math"

	"github.com/aristath/sdnwatch/internal/di"
	"github.com/spf13/cobra"
)

// reconcileCmd runs one reconciliation in the foreground
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Fetch the SDN list once and record the changes",
	Long: `Fetch the current SDN list, compare it with the stored snapshot, persist the
new snapshot and history, and post the summary to Slack when a token is configured.

Prints {"added": N, "removed": N, "duration": seconds} on success.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

// reconcileOutput is printed after a successful run
type reconcileOutput struct {
	Added    int     `json:"added"`
	Removed  int     `json:"removed"`
	Duration float64 `json:"duration"`
}

func runReconcile(cmd *cobra.Command, args []string) error {
	return withContainer(func(ctx context.Context, c *di.Container) error {
		report, err := c.ReconciliationService.Run(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(reconcileOutput{
			Added:    report.Summary.AddedCount,
			Removed:  report.Summary.RemovedCount,
			Duration: math.Round(report.Summary.DurationSeconds*100) / 100,
		})
	})
}
