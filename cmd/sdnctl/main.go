// Package main implements sdnctl, the operator CLI for sdnwatch.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aristath/sdnwatch/internal/config"
	"github.com/aristath/sdnwatch/internal/di"
	"github.com/aristath/sdnwatch/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration

	log zerolog.Logger

	// wire builds the container from the environment; tests replace it
	wire = func(ctx context.Context, log zerolog.Logger) (*di.Container, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		return di.Wire(ctx, cfg, log)
	}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sdnctl",
	Short: "Operate the sdnwatch OFAC SDN change detector",
	Long: `sdnctl runs sdnwatch operations against the configured storage backend.

It reads the same environment (.env) as the server, so a reconcile started here
updates the snapshot and history the server reports on.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		log = logger.New(logger.Config{
			Level:   level,
			Pretty:  true,
			Service: "sdnctl",
			Out:     cmd.ErrOrStderr(),
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(objectsCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withContainer wires dependencies for one command and releases them afterwards
func withContainer(fn func(ctx context.Context, c *di.Container) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	container, err := wire(ctx, log)
	if err != nil {
		return err
	}
	defer container.Close()

	return fn(ctx, container)
}
