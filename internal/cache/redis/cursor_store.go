package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/praxishq/praxis/internal/domain"
)

// CursorStore implements domain.CursorStore on Redis. Each replay consumer
// keeps its own cursor per epoch so independent projections resume
// incremental reads from their own position.
type CursorStore struct {
	rdb *redis.Client
}

// NewCursorStore creates a CursorStore backed by the given Client.
func NewCursorStore(c *Client) *CursorStore {
	return &CursorStore{rdb: c.Underlying()}
}

func cursorKey(epochID, consumer string) string {
	return fmt.Sprintf("praxis:cursor:%s:%s", epochID, consumer)
}

// GetCursor returns the consumer's cursor for the epoch, or 0 when the
// consumer has not recorded one yet.
func (s *CursorStore) GetCursor(ctx context.Context, epochID, consumer string) (int64, error) {
	val, err := s.rdb.Get(ctx, cursorKey(epochID, consumer)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis: get cursor %s/%s: %w", epochID, consumer, err)
	}

	seq, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis: parse cursor %s/%s: %w", epochID, consumer, err)
	}
	return seq, nil
}

// SetCursor records the consumer's position. Cursors have no TTL: a consumer
// that disappears for days must still resume from where it stopped.
func (s *CursorStore) SetCursor(ctx context.Context, epochID, consumer string, seq int64) error {
	if err := s.rdb.Set(ctx, cursorKey(epochID, consumer), strconv.FormatInt(seq, 10), 0).Err(); err != nil {
		return fmt.Errorf("redis: set cursor %s/%s: %w", epochID, consumer, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.CursorStore = (*CursorStore)(nil)
