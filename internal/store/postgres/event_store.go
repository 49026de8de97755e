package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/praxishq/praxis/internal/domain"
	"github.com/praxishq/praxis/internal/spine"
)

const (
	// nextSeqSQL serializes concurrent appenders per epoch through the row
	// lock on the counter, so the store, never the caller, assigns the
	// sequence number.
	nextSeqSQL = `
		INSERT INTO epochs (epoch_id, last_seq) VALUES ($1, 1)
		ON CONFLICT (epoch_id) DO UPDATE SET last_seq = epochs.last_seq + 1
		RETURNING last_seq`

	dedupInsertSQL = `
		INSERT INTO fill_dedup (epoch_id, account_id, dedup_key)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`

	insertEventSQL = `
		INSERT INTO events (epoch_id, seq, event_type, payload, account_id, ts)
		VALUES ($1, $2, $3, $4, $5, $6)`

	readEventsSQL = `
		SELECT seq, event_type, payload FROM events
		WHERE epoch_id = $1 AND seq > $2
		ORDER BY seq ASC`

	lastSeqSQL = `SELECT COALESCE(MAX(seq), 0) FROM events WHERE epoch_id = $1`
)

// EventStore implements domain.EventStore on PostgreSQL.
type EventStore struct {
	pool *pgxpool.Pool
}

// NewEventStore creates an EventStore backed by the given client.
func NewEventStore(c *Client) *EventStore {
	return &EventStore{pool: c.Pool()}
}

// Append serializes the event and inserts it as the next row for the epoch.
// For FillReceived events the fill_dedup guard runs first; when the key is
// already present the whole transaction rolls back and (0, false, nil) is
// returned, so a dropped duplicate never burns a sequence number and a crash
// between guard and event row can never leave a poisoned dedup entry.
func (s *EventStore) Append(ctx context.Context, epochID string, ev domain.Event) (int64, bool, error) {
	payload, err := spine.Encode(ev)
	if err != nil {
		return 0, false, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, false, storageErr("begin append", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if fill, ok := ev.(domain.FillReceived); ok {
		tag, err := tx.Exec(ctx, dedupInsertSQL, epochID, fill.AccountID, fill.DedupKey())
		if err != nil {
			return 0, false, storageErr("insert fill dedup", err)
		}
		if tag.RowsAffected() == 0 {
			return 0, false, nil
		}
	}

	var seq int64
	if err := tx.QueryRow(ctx, nextSeqSQL, epochID).Scan(&seq); err != nil {
		return 0, false, storageErr("assign sequence", err)
	}

	_, err = tx.Exec(ctx, insertEventSQL,
		epochID, seq, ev.EventType(), payload, ev.EventAccountID(), ev.EventTimestamp())
	if err != nil {
		return 0, false, storageErr("insert event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, storageErr("commit append", err)
	}
	return seq, true, nil
}

// Read returns the epoch's events with sequence numbers strictly greater than
// afterSeq, in ascending order, rehydrated into their concrete types.
func (s *EventStore) Read(ctx context.Context, epochID string, afterSeq int64) ([]domain.StoredEvent, error) {
	rows, err := s.pool.Query(ctx, readEventsSQL, epochID, afterSeq)
	if err != nil {
		return nil, storageErr("read events", err)
	}
	defer rows.Close()

	var out []domain.StoredEvent
	for rows.Next() {
		var (
			seq       int64
			eventType string
			payload   []byte
		)
		if err := rows.Scan(&seq, &eventType, &payload); err != nil {
			return nil, storageErr("scan event row", err)
		}
		ev, err := spine.Decode(eventType, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.StoredEvent{Seq: seq, Event: ev})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("read events", err)
	}
	return out, nil
}

// LastEventSeq returns the highest sequence number recorded for the epoch, or
// 0 when the epoch has no events.
func (s *EventStore) LastEventSeq(ctx context.Context, epochID string) (int64, error) {
	var seq int64
	if err := s.pool.QueryRow(ctx, lastSeqSQL, epochID).Scan(&seq); err != nil {
		return 0, storageErr("last event seq", err)
	}
	return seq, nil
}

// storageErr tags a driver error as a retryable storage failure.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: postgres: %s: %v", domain.ErrStorage, op, err)
}

// Compile-time interface check.
var _ domain.EventStore = (*EventStore)(nil)
