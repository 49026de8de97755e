package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReplayMode drives the projection from the event log until the context is
// cancelled, then logs a summary of the projected state.
func (a *App) ReplayMode(ctx context.Context, deps *Deps) error {
	interval := time.Duration(a.cfg.Replay.PollIntervalMS) * time.Millisecond

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return deps.Replayer.Run(gctx, interval)
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("replay stopped",
		slog.Int("active_orders", len(deps.State.ActiveOrders())),
		slog.Int("closed_orders", len(deps.State.ClosedOrders())),
		slog.Int("open_positions", len(deps.State.Positions())),
	)
	return nil
}

// ArchiveMode exports the configured epoch to cold storage and exits.
func (a *App) ArchiveMode(ctx context.Context, deps *Deps) error {
	count, err := deps.Archiver.ArchiveEpoch(ctx, a.cfg.EpochID)
	if err != nil {
		return err
	}
	a.logger.Info("archive complete", slog.Int("events", count))
	return nil
}
