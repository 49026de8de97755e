package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/praxishq/praxis/internal/archive"
	s3blob "github.com/praxishq/praxis/internal/blob/s3"
	"github.com/praxishq/praxis/internal/cache/redis"
	"github.com/praxishq/praxis/internal/config"
	"github.com/praxishq/praxis/internal/domain"
	"github.com/praxishq/praxis/internal/replay"
	"github.com/praxishq/praxis/internal/state"
	"github.com/praxishq/praxis/internal/store/postgres"
)

// Deps bundles the wired dependencies handed to the operating modes.
type Deps struct {
	Store    domain.EventStore
	Cursors  domain.CursorStore
	State    *state.TradingState
	Replayer *replay.Replayer
	Archiver *archive.EpochArchiver
}

// Wire connects to the event log storage (and optional collaborators) and
// builds the projection pipeline. The returned cleanup function closes
// everything in reverse order.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	pg, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, pg.Close)

	if cfg.Postgres.RunMigrations {
		if err := pg.RunMigrations(ctx); err != nil {
			return nil, cleanup, err
		}
	}

	deps := &Deps{Store: postgres.NewEventStore(pg)}

	if cfg.Redis.Enabled {
		rc, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { _ = rc.Close() })
		deps.Cursors = redis.NewCursorStore(rc)
	}

	epochLogger := logger.With(slog.String("epoch_id", cfg.EpochID))

	st, err := state.New(cfg.AccountID, epochLogger)
	if err != nil {
		return nil, cleanup, err
	}
	deps.State = st

	rep, err := replay.New(deps.Store, deps.Cursors, st, cfg.EpochID, cfg.Replay.Consumer, epochLogger)
	if err != nil {
		return nil, cleanup, err
	}
	deps.Replayer = rep

	if strings.EqualFold(cfg.Mode, "archive") {
		s3c, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("app: wire s3: %w", err)
		}
		deps.Archiver = archive.NewEpochArchiver(
			deps.Store, s3blob.NewWriter(s3c), cfg.Archive.Prefix, epochLogger)
	}

	return deps, cleanup, nil
}
