// Package config defines the configuration for the praxis execution core and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by PRAXIS_* environment variables.
type Config struct {
	AccountID string         `toml:"account_id"`
	EpochID   string         `toml:"epoch_id"`
	Mode      string         `toml:"mode"`
	LogLevel  string         `toml:"log_level"`
	Postgres  PostgresConfig `toml:"postgres"`
	Redis     RedisConfig    `toml:"redis"`
	S3        S3Config       `toml:"s3"`
	Replay    ReplayConfig   `toml:"replay"`
	Archive   ArchiveConfig  `toml:"archive"`
}

// PostgresConfig holds PostgreSQL connection parameters for the event log.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters for the cursor store. Redis
// is optional: without it replay cursors live in process memory.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds object storage parameters for epoch archives.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ReplayConfig tunes the projection replay loop.
type ReplayConfig struct {
	Consumer       string `toml:"consumer"`
	PollIntervalMS int    `toml:"poll_interval_ms"`
}

// ArchiveConfig tunes the epoch archiver.
type ArchiveConfig struct {
	Prefix string `toml:"prefix"`
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		Mode:     "replay",
		LogLevel: "info",
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "praxis",
			SSLMode:       "disable",
			PoolMaxConns:  8,
			PoolMinConns:  1,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 8,
		},
		Replay: ReplayConfig{
			Consumer:       "projection",
			PollIntervalMS: 250,
		},
		Archive: ArchiveConfig{
			Prefix: "epochs",
		},
	}
}

// Validate checks that the configuration is complete enough for the
// configured mode.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AccountID) == "" {
		return fmt.Errorf("config: account_id is required")
	}
	if strings.TrimSpace(c.EpochID) == "" {
		return fmt.Errorf("config: epoch_id is required")
	}

	switch strings.ToLower(c.Mode) {
	case "replay":
	case "archive":
		if c.S3.Bucket == "" {
			return fmt.Errorf("config: s3.bucket is required in archive mode")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("config: s3.region is required in archive mode")
		}
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}

	if c.Postgres.DSN == "" && (c.Postgres.Host == "" || c.Postgres.Database == "" || c.Postgres.User == "") {
		return fmt.Errorf("config: postgres requires a dsn or host/database/user")
	}
	if c.Replay.PollIntervalMS <= 0 {
		return fmt.Errorf("config: replay.poll_interval_ms must be positive")
	}
	if c.Replay.Consumer == "" {
		return fmt.Errorf("config: replay.consumer is required")
	}
	return nil
}
