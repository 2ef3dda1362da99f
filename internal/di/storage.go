// Package di provides dependency injection for the storage backend.
package di

import (
	"context"
	"fmt"

	"github.com/aristath/sdnwatch/internal/cloud"
	"github.com/aristath/sdnwatch/internal/config"
	"github.com/aristath/sdnwatch/internal/database"
	"github.com/aristath/sdnwatch/internal/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// InitializeStorage opens the configured backend and the snapshot/history
// repositories on top of it
func InitializeStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{Config: cfg}

	if needsAWS(cfg) {
		awsCfg, err := cloud.LoadConfig(ctx, cloud.Options{
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		container.AWSConfig = &awsCfg
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		// sdnwatch.db - snapshot and history objects
		db, err := database.New(database.Config{
			Path:    cfg.DatabasePath(),
			Profile: database.ProfileDurable,
			Name:    "sdnwatch",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sdnwatch database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate sdnwatch database: %w", err)
		}
		container.DB = db
		container.BlobStore = storage.NewSQLiteStore(db.Conn())

		log.Info().Str("path", db.Path()).Msg("Using sqlite storage")

	case config.BackendS3:
		client := storage.NewS3Client(*container.AWSConfig, cfg.Storage.Endpoint)
		container.BlobStore = storage.NewS3Store(client, s3.NewPresignClient(client), cfg.Storage.Bucket, log)

		log.Info().
			Str("bucket", cfg.Storage.Bucket).
			Str("endpoint", cfg.Storage.Endpoint).
			Msg("Using S3 storage")

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	container.SnapshotRepo = storage.NewSnapshotRepository(container.BlobStore, cfg.Storage.SnapshotKey)
	container.HistoryRepo = storage.NewHistoryRepository(container.BlobStore, cfg.Storage.HistoryKey)

	if batch, ok := container.BlobStore.(storage.BatchWriter); ok {
		container.Committer = storage.NewStateCommitter(batch, cfg.Storage.SnapshotKey, cfg.Storage.HistoryKey)
	}

	// Only S3 objects can be shared as links
	if presigner, ok := container.BlobStore.(storage.Presigner); ok {
		container.SnapshotRepo.SetPresigner(presigner, cfg.Storage.LinkTTL)
	}

	return container, nil
}

func needsAWS(cfg *config.Config) bool {
	return cfg.Storage.Backend == config.BackendS3 || cfg.Slack.TokenSecretID != ""
}

// awsConfig returns the loaded AWS config or the zero value
func (c *Container) awsConfig() aws.Config {
	if c.AWSConfig == nil {
		return aws.Config{}
	}
	return *c.AWSConfig
}
