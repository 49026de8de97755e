// Package replay feeds ordered events from the event log into a projection.
// One replayer drives exactly one TradingState; consumers that need their own
// view run their own replayer with their own cursor.
package replay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/praxishq/praxis/internal/domain"
	"github.com/praxishq/praxis/internal/state"
)

// Replayer incrementally reads an epoch's events after its cursor and applies
// them to the projection. With a CursorStore the position survives restarts;
// without one the cursor lives in memory and a restart replays from genesis,
// which is safe because Apply is deterministic and idempotent over replays.
type Replayer struct {
	store    domain.EventStore
	cursors  domain.CursorStore
	state    *state.TradingState
	epochID  string
	consumer string
	logger   *slog.Logger
	afterSeq int64
}

// New creates a replayer for one epoch and one consumer. cursors may be nil.
func New(store domain.EventStore, cursors domain.CursorStore, st *state.TradingState, epochID, consumer string, logger *slog.Logger) (*Replayer, error) {
	if store == nil || st == nil {
		return nil, fmt.Errorf("replay: store and state are required")
	}
	if epochID == "" || consumer == "" {
		return nil, fmt.Errorf("replay: epoch_id and consumer are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Replayer{
		store:    store,
		cursors:  cursors,
		state:    st,
		epochID:  epochID,
		consumer: consumer,
		logger: logger.With(
			slog.String("component", "replayer"),
			slog.String("epoch_id", epochID),
			slog.String("consumer", consumer),
		),
	}, nil
}

// State returns the projection this replayer drives.
func (r *Replayer) State() *state.TradingState { return r.state }

// CatchUp applies every event recorded after the current cursor and advances
// the cursor past the last one applied. It returns the number of events
// applied.
func (r *Replayer) CatchUp(ctx context.Context) (int, error) {
	cursor := r.afterSeq
	if r.cursors != nil {
		stored, err := r.cursors.GetCursor(ctx, r.epochID, r.consumer)
		if err != nil {
			return 0, err
		}
		if stored > cursor {
			cursor = stored
		}
	}

	events, err := r.store.Read(ctx, r.epochID, cursor)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	for _, se := range events {
		r.state.Apply(se.Event)
		cursor = se.Seq
	}
	r.afterSeq = cursor

	if r.cursors != nil {
		if err := r.cursors.SetCursor(ctx, r.epochID, r.consumer, cursor); err != nil {
			return len(events), err
		}
	}

	r.logger.Debug("applied events",
		slog.Int("count", len(events)),
		slog.Int64("cursor", cursor))
	return len(events), nil
}

// Run polls the log at the given interval until the context is cancelled.
// Storage failures are logged and retried on the next tick; the core itself
// never retries inside an operation.
func (r *Replayer) Run(ctx context.Context, interval time.Duration) error {
	if _, err := r.CatchUp(ctx); err != nil {
		r.logger.Error("initial catch-up failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.CatchUp(ctx); err != nil {
				r.logger.Error("catch-up failed", slog.String("error", err.Error()))
			}
		}
	}
}
