/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is created by Wire() and shared by the HTTP server, the queue
 * workers, the cron scheduler and the sdnctl CLI.
 */
package di

import (
	"github.com/aristath/sdnwatch/internal/clients/ofac"
	"github.com/aristath/sdnwatch/internal/clients/slackbot"
	"github.com/aristath/sdnwatch/internal/config"
	"github.com/aristath/sdnwatch/internal/database"
	"github.com/aristath/sdnwatch/internal/metrics"
	"github.com/aristath/sdnwatch/internal/modules/charts"
	"github.com/aristath/sdnwatch/internal/modules/lookup"
	"github.com/aristath/sdnwatch/internal/modules/reconciliation"
	"github.com/aristath/sdnwatch/internal/queue"
	"github.com/aristath/sdnwatch/internal/scheduler"
	"github.com/aristath/sdnwatch/internal/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Storage: one blob store (sqlite file or S3 bucket) holding the snapshot and history objects
 * - Clients: OFAC source, Slack
 * - Services: reconciliation (scheduled/manual runs) and lookup (search, slash commands)
 * - Background: queue manager (worker pools) and cron scheduler
 */
type Container struct {
	Config *config.Config

	// Observability
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// Storage. DB is nil for the S3 backend; AWSConfig is nil unless S3 or
	// Secrets Manager is in use.
	DB           *database.DB
	AWSConfig    *aws.Config
	BlobStore    storage.BlobStore
	SnapshotRepo *storage.SnapshotRepository
	HistoryRepo  *storage.HistoryRepository
	Committer    *storage.StateCommitter // nil unless the backend supports batch writes

	// Clients. SlackClient is always set (slash-command responses only need the
	// response_url); summaries are posted only when a token is configured.
	OFACClient  *ofac.Client
	SlackClient *slackbot.Client

	// Services
	ChartRenderer         *charts.Renderer
	ReconciliationService *reconciliation.Service
	LookupService         *lookup.Service

	// Background processing
	QueueManager *queue.Manager
	Scheduler    *scheduler.Scheduler
}

// Close releases resources held by the container
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
