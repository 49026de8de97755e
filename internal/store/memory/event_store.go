// Package memory implements the event log in process memory. It mirrors the
// postgres store's semantics exactly (store-assigned sequences, epoch-scoped
// fill dedup, codec round-trip on read) and backs tests and single-process
// runs that do not need durability.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/praxishq/praxis/internal/domain"
	"github.com/praxishq/praxis/internal/spine"
)

type row struct {
	seq       int64
	eventType string
	payload   []byte
}

// EventStore is an in-memory domain.EventStore. It is safe for concurrent
// use; the mutex held across the dedup guard and the row append gives the
// same atomicity the postgres store gets from its transaction.
type EventStore struct {
	mu      sync.Mutex
	events  map[string][]row
	lastSeq map[string]int64
	dedup   map[string]struct{}
}

// NewEventStore creates an empty in-memory event log.
func NewEventStore() *EventStore {
	return &EventStore{
		events:  make(map[string][]row),
		lastSeq: make(map[string]int64),
		dedup:   make(map[string]struct{}),
	}
}

// Append implements domain.EventStore.
func (s *EventStore) Append(_ context.Context, epochID string, ev domain.Event) (int64, bool, error) {
	payload, err := spine.Encode(ev)
	if err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if fill, ok := ev.(domain.FillReceived); ok {
		key := dedupKey(epochID, fill.AccountID, fill.DedupKey())
		if _, seen := s.dedup[key]; seen {
			return 0, false, nil
		}
		s.dedup[key] = struct{}{}
	}

	seq := s.lastSeq[epochID] + 1
	s.lastSeq[epochID] = seq
	s.events[epochID] = append(s.events[epochID], row{
		seq:       seq,
		eventType: ev.EventType(),
		payload:   payload,
	})
	return seq, true, nil
}

// Read implements domain.EventStore.
func (s *EventStore) Read(_ context.Context, epochID string, afterSeq int64) ([]domain.StoredEvent, error) {
	s.mu.Lock()
	rows := make([]row, 0, len(s.events[epochID]))
	for _, r := range s.events[epochID] {
		if r.seq > afterSeq {
			rows = append(rows, r)
		}
	}
	s.mu.Unlock()

	out := make([]domain.StoredEvent, 0, len(rows))
	for _, r := range rows {
		ev, err := spine.Decode(r.eventType, r.payload)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.StoredEvent{Seq: r.seq, Event: ev})
	}
	return out, nil
}

// LastEventSeq implements domain.EventStore.
func (s *EventStore) LastEventSeq(_ context.Context, epochID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeq[epochID], nil
}

func dedupKey(epochID, accountID, key string) string {
	return strings.Join([]string{epochID, accountID, key}, "\x00")
}

// Compile-time interface check.
var _ domain.EventStore = (*EventStore)(nil)
