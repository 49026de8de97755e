package domain

import (
	"context"
	"io"
)

// StoredEvent pairs a rehydrated event with the sequence number the log
// assigned to it.
type StoredEvent struct {
	Seq   int64
	Event Event
}

// EventStore is the append-only, epoch-scoped event log boundary. Sequence
// numbers are assigned by the store, strictly increasing per epoch, starting
// at 1. Implementations must support concurrent appenders and must apply the
// fill-dedup guard and the event row as one atomic unit.
type EventStore interface {
	// Append persists the event and returns its sequence number. For a
	// FillReceived whose dedup key was already recorded in the epoch it
	// returns (0, false, nil): the duplicate is silently dropped, not an
	// error. I/O failures wrap ErrStorage.
	Append(ctx context.Context, epochID string, ev Event) (seq int64, stored bool, err error)

	// Read returns the epoch's events with sequence numbers strictly greater
	// than afterSeq, in ascending sequence order. Pass 0 to read from the
	// beginning.
	Read(ctx context.Context, epochID string, afterSeq int64) ([]StoredEvent, error)

	// LastEventSeq returns the highest sequence number recorded for the
	// epoch, or 0 when the epoch has no events.
	LastEventSeq(ctx context.Context, epochID string) (int64, error)
}

// CursorStore persists per-consumer replay cursors so independent projection
// consumers can resume incremental reads from their own position.
type CursorStore interface {
	// GetCursor returns the consumer's cursor for the epoch, or 0 when the
	// consumer has not recorded one yet.
	GetCursor(ctx context.Context, epochID, consumer string) (int64, error)
	SetCursor(ctx context.Context, epochID, consumer string, seq int64) error
}

// BlobWriter uploads opaque objects to cold storage. Used by the epoch
// archiver to export finished epochs.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}
