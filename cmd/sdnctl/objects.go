package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/aristath/sdnwatch/internal/di"
	"github.com/aristath/sdnwatch/internal/storage"
	"github.com/spf13/cobra"
)

var errNotLocal = errors.New("command requires STORAGE_BACKEND=sqlite")

// objectsCmd lists stored objects in the local database
var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "List objects in the local sqlite store",
	Args:  cobra.NoArgs,
	RunE:  runObjects,
}

// resetCmd deletes the snapshot and history so the next run bootstraps
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored snapshot and history (sqlite backend)",
	Long: `Delete the stored snapshot and history objects. The next reconcile treats
every listed entity as an addition, exactly like a first run.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetConfirmed bool

func init() {
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "Confirm deletion")
}

func localStore(c *di.Container) (*storage.SQLiteStore, error) {
	store, ok := c.BlobStore.(*storage.SQLiteStore)
	if !ok {
		return nil, errNotLocal
	}
	return store, nil
}

func runObjects(cmd *cobra.Command, args []string) error {
	return withContainer(func(ctx context.Context, c *di.Container) error {
		store, err := localStore(c)
		if err != nil {
			return err
		}

		objects, err := store.List(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tSIZE\tCONTENT TYPE\tUPDATED")
		for _, o := range objects {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", o.Key, o.Size, o.ContentType, o.UpdatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	})
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirmed {
		return errors.New("refusing to delete without --yes")
	}

	return withContainer(func(ctx context.Context, c *di.Container) error {
		store, err := localStore(c)
		if err != nil {
			return err
		}

		for _, key := range []string{c.Config.Storage.SnapshotKey, c.Config.Storage.HistoryKey} {
			if err := store.Delete(ctx, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
		}
		return nil
	})
}
