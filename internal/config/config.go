// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Directory for the local database (always absolute)
	LogLevel      string
	Port          int
	DevMode       bool
	SourceURL     string
	FetchTimeout  time.Duration
	Storage       *StorageConfig
	Slack         *SlackConfig
	Schedule      *ScheduleConfig
	LookupWorkers int
}

// StorageConfig selects where snapshots and history are kept
type StorageConfig struct {
	Backend         string
	SnapshotKey     string
	HistoryKey      string
	Bucket          string
	Region          string
	Endpoint        string // S3-compatible endpoint (MinIO, R2); empty for AWS
	AccessKeyID     string
	SecretAccessKey string
	LinkTTL         time.Duration
}

// SlackConfig holds Slack credentials and the summary channel
type SlackConfig struct {
	Token         string
	TokenSecretID string // Secrets Manager id; takes precedence over Token
	Channel       string
	SigningSecret string // Empty disables slash-command verification
}

// ScheduleConfig holds cron expressions (with seconds field, UTC)
type ScheduleConfig struct {
	Reconcile     string
	WALCheckpoint string
	Maintenance   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Backend == BackendSQLite {
		// Ensure directory exists
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// FromEnv builds and validates a Config from the current environment without
// touching .env files or the filesystem.
func FromEnv() (*Config, error) {
	absDataDir, err := filepath.Abs(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	cfg := &Config{
		DataDir:       absDataDir,
		Port:          getEnvAsInt("PORT", 8080),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SourceURL:     getEnv("SDN_SOURCE_URL", "https://www.treasury.gov/ofac/downloads/sdn.csv"),
		FetchTimeout:  time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		LookupWorkers: getEnvAsInt("LOOKUP_WORKERS", 2),
		Storage: &StorageConfig{
			Backend:         getEnv("STORAGE_BACKEND", BackendSQLite),
			SnapshotKey:     getEnv("S3_KEY", "sdn/latest.json"),
			HistoryKey:      getEnv("HISTORY_KEY", "sdn/history.json"),
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			LinkTTL:         time.Duration(getEnvAsInt("LINK_TTL_HOURS", 24)) * time.Hour,
		},
		Slack: &SlackConfig{
			Token:         getEnv("SLACK_TOKEN", ""),
			TokenSecretID: getEnv("SLACK_TOKEN_SECRET_ID", ""),
			Channel:       getEnv("SLACK_CHANNEL", "#alerts"),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		},
		Schedule: &ScheduleConfig{
			Reconcile:     getEnv("RECONCILE_SCHEDULE", "0 0 6,15,23 * * *"),
			WALCheckpoint: getEnv("WAL_CHECKPOINT_SCHEDULE", "0 30 3 * * *"),
			Maintenance:   getEnv("MAINTENANCE_SCHEDULE", "0 0 4 * * 0"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.LookupWorkers < 1 {
		return fmt.Errorf("LOOKUP_WORKERS must be at least 1")
	}
	if c.SourceURL == "" {
		return fmt.Errorf("SDN_SOURCE_URL is required")
	}

	switch c.Storage.Backend {
	case BackendSQLite:
	case BackendS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
		if (c.Storage.AccessKeyID == "") != (c.Storage.SecretAccessKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %s or %s)", c.Storage.Backend, BackendSQLite, BackendS3)
	}

	if c.Storage.SnapshotKey == "" || c.Storage.HistoryKey == "" {
		return fmt.Errorf("S3_KEY and HISTORY_KEY must not be empty")
	}
	if c.Storage.SnapshotKey == c.Storage.HistoryKey {
		return fmt.Errorf("S3_KEY and HISTORY_KEY must differ")
	}
	if c.Storage.LinkTTL <= 0 {
		return fmt.Errorf("LINK_TTL_HOURS must be positive")
	}

	return nil
}

// SlackEnabled reports whether summaries can be posted
func (c *Config) SlackEnabled() bool {
	return c.Slack.Token != "" || c.Slack.TokenSecretID != ""
}

// DatabasePath returns the path of the local object database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "sdnwatch.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
