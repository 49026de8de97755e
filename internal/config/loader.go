package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PRAXIS_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PRAXIS_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.AccountID, "PRAXIS_ACCOUNT_ID")
	setStr(&cfg.EpochID, "PRAXIS_EPOCH_ID")
	setStr(&cfg.Mode, "PRAXIS_MODE")
	setStr(&cfg.LogLevel, "PRAXIS_LOG_LEVEL")

	setStr(&cfg.Postgres.DSN, "PRAXIS_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "PRAXIS_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "PRAXIS_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "PRAXIS_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "PRAXIS_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "PRAXIS_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "PRAXIS_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "PRAXIS_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "PRAXIS_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "PRAXIS_POSTGRES_RUN_MIGRATIONS")

	setBool(&cfg.Redis.Enabled, "PRAXIS_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "PRAXIS_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PRAXIS_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PRAXIS_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PRAXIS_REDIS_POOL_SIZE")
	setBool(&cfg.Redis.TLSEnabled, "PRAXIS_REDIS_TLS_ENABLED")

	setStr(&cfg.S3.Endpoint, "PRAXIS_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "PRAXIS_S3_REGION")
	setStr(&cfg.S3.Bucket, "PRAXIS_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "PRAXIS_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "PRAXIS_S3_SECRET_KEY")
	setBool(&cfg.S3.ForcePathStyle, "PRAXIS_S3_FORCE_PATH_STYLE")

	setStr(&cfg.Replay.Consumer, "PRAXIS_REPLAY_CONSUMER")
	setInt(&cfg.Replay.PollIntervalMS, "PRAXIS_REPLAY_POLL_INTERVAL_MS")

	setStr(&cfg.Archive.Prefix, "PRAXIS_ARCHIVE_PREFIX")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
