// Package archive exports finished epochs from the event log to cold
// storage. The archive is a JSON-lines rendering of the epoch's events in
// sequence order, one object per epoch.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	json "github.com/goccy/go-json"

	"github.com/praxishq/praxis/internal/domain"
	"github.com/praxishq/praxis/internal/spine"
)

// archiveLine is one JSONL record: the assigned sequence number, the registry
// tag, and the stored payload.
type archiveLine struct {
	Seq       int64           `json:"seq"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// EpochArchiver reads an epoch's full event stream and uploads it as one
// JSONL object. Archiving never mutates the log; events stay in place.
type EpochArchiver struct {
	store  domain.EventStore
	blob   domain.BlobWriter
	prefix string
	logger *slog.Logger
}

// NewEpochArchiver creates an archiver writing under the given key prefix.
func NewEpochArchiver(store domain.EventStore, blob domain.BlobWriter, prefix string, logger *slog.Logger) *EpochArchiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &EpochArchiver{
		store:  store,
		blob:   blob,
		prefix: prefix,
		logger: logger.With(slog.String("component", "epoch_archiver")),
	}
}

// ArchiveEpoch exports every event of the epoch and returns the number of
// events written. An epoch with no events is an error: archiving an epoch
// that never traded is always a caller mistake.
func (a *EpochArchiver) ArchiveEpoch(ctx context.Context, epochID string) (int, error) {
	events, err := a.store.Read(ctx, epochID, 0)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, fmt.Errorf("archive: epoch %s has no events", epochID)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, se := range events {
		payload, err := spine.Encode(se.Event)
		if err != nil {
			return 0, err
		}
		line := archiveLine{
			Seq:       se.Seq,
			EventType: se.Event.EventType(),
			Payload:   payload,
		}
		if err := enc.Encode(line); err != nil {
			return 0, fmt.Errorf("archive: encode seq %d: %w", se.Seq, err)
		}
	}

	key := path.Join(a.prefix, fmt.Sprintf("%s.jsonl", epochID))
	if err := a.blob.Put(ctx, key, &buf, "application/x-ndjson"); err != nil {
		return 0, err
	}

	a.logger.Info("epoch archived",
		slog.String("epoch_id", epochID),
		slog.String("key", key),
		slog.Int("events", len(events)))
	return len(events), nil
}
