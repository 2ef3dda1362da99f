// Package main is the entry point for the sdnwatch server.
//
// sdnwatch downloads the OFAC Specially Designated Nationals list on a schedule,
// detects additions and removals against the last stored snapshot, posts a
// summary to Slack and answers /check_sdn lookups.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/sdnwatch/internal/config"
	"github.com/aristath/sdnwatch/internal/di"
	"github.com/aristath/sdnwatch/internal/server"
	"github.com/aristath/sdnwatch/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from environment variables (.env file)
// 2. Initializes logging
// 3. Wires all dependencies via the DI container (storage, clients, services, jobs)
// 4. Starts queue workers, the cron scheduler and the HTTP server
// 5. Waits for SIGINT/SIGTERM and shuts down in reverse order
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.DevMode,
		Service: "sdnwatch",
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("backend", cfg.Storage.Backend).
		Bool("slack", cfg.SlackEnabled()).
		Msg("Starting sdnwatch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := di.Wire(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	// Workers must be running before the scheduler can enqueue
	container.QueueManager.Start(ctx)
	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop triggering new runs, then let in-flight jobs observe cancellation
	container.Scheduler.Stop()
	log.Info().Msg("Scheduler stopped")

	container.QueueManager.Stop()
	log.Info().Msg("Queue workers stopped")

	log.Info().Msg("Server stopped")
}
