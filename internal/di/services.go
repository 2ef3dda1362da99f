package di

import (
	"context"
	"fmt"

	"github.com/aristath/sdnwatch/internal/clients/ofac"
	"github.com/aristath/sdnwatch/internal/clients/slackbot"
	"github.com/aristath/sdnwatch/internal/config"
	"github.com/aristath/sdnwatch/internal/domain"
	"github.com/aristath/sdnwatch/internal/metrics"
	"github.com/aristath/sdnwatch/internal/modules/charts"
	"github.com/aristath/sdnwatch/internal/modules/lookup"
	"github.com/aristath/sdnwatch/internal/modules/reconciliation"
	"github.com/aristath/sdnwatch/internal/secrets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// InitializeServices creates clients and services on top of initialized storage
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger, slackOpts ...slack.Option) error {
	// Metrics
	container.Registry = prometheus.NewRegistry()
	container.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	container.Metrics = metrics.New(container.Registry)

	// Clients
	container.OFACClient = ofac.NewClient(cfg.SourceURL, cfg.FetchTimeout, log)

	token, err := resolveSlackToken(ctx, container, cfg, log)
	if err != nil {
		return err
	}
	container.SlackClient = slackbot.NewClient(token, cfg.Slack.Channel, log, slackOpts...)

	// Summaries are only posted when a token is available
	var notifier domain.Notifier
	if token != "" {
		notifier = container.SlackClient
	} else {
		log.Warn().Msg("No Slack token configured, run summaries will only be logged")
	}

	// Reconciliation
	container.ChartRenderer = charts.NewRenderer()
	container.ReconciliationService = reconciliation.NewService(
		container.OFACClient,
		container.SnapshotRepo,
		container.HistoryRepo,
		notifier,
		log,
	)
	container.ReconciliationService.SetRenderer(container.ChartRenderer)
	container.ReconciliationService.SetMetrics(container.Metrics)
	if container.Committer != nil {
		container.ReconciliationService.SetCommitter(container.Committer)
	}
	if cfg.Storage.Backend == config.BackendS3 {
		container.ReconciliationService.SetLinker(container.SnapshotRepo)
	}

	// Lookup
	container.LookupService = lookup.NewService(container.SnapshotRepo, container.SlackClient, log)
	container.LookupService.SetMetrics(container.Metrics)

	log.Info().Msg("Services initialized")
	return nil
}

func resolveSlackToken(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) (string, error) {
	if cfg.Slack.TokenSecretID == "" {
		return cfg.Slack.Token, nil
	}

	resolver := secrets.NewResolverFromConfig(container.awsConfig(), log)
	token, err := resolver.ResolveOr(ctx, cfg.Slack.TokenSecretID, cfg.Slack.Token)
	if err != nil {
		return "", fmt.Errorf("failed to resolve Slack token: %w", err)
	}
	return token, nil
}
