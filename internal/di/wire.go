// Package di provides dependency injection wiring and initialization.
package di

import (
	"context"
	"fmt"

	"github.com/aristath/sdnwatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// Wire initializes all dependencies and returns a fully configured container.
// Order of operations:
// 1. Initialize storage (sqlite or S3)
// 2. Initialize clients and services
// 3. Register queue handlers and cron jobs
// Nothing is started; callers start the queue and scheduler themselves.
// slackOpts are passed to the Slack client.
func Wire(ctx context.Context, cfg *config.Config, log zerolog.Logger, slackOpts ...slack.Option) (*Container, error) {
	// Step 1: Initialize storage
	container, err := InitializeStorage(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Step 2: Initialize services
	if err := InitializeServices(ctx, container, cfg, log, slackOpts...); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Step 3: Register jobs
	if err := RegisterJobs(container, cfg, log); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	log.Info().Msg("Dependency injection wiring completed successfully")

	return container, nil
}
