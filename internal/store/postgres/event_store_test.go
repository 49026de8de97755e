package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/praxishq/praxis/internal/domain"
	"github.com/praxishq/praxis/internal/store/postgres"
)

// testClient connects to the database named by PRAXIS_TEST_DATABASE_DSN and
// applies migrations. Tests are skipped when the variable is unset.
func testClient(t *testing.T) *postgres.Client {
	t.Helper()
	dsn := os.Getenv("PRAXIS_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("PRAXIS_TEST_DATABASE_DSN not set")
	}
	ctx := context.Background()
	client, err := postgres.New(ctx, postgres.ClientConfig{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	require.NoError(t, client.RunMigrations(ctx))
	return client
}

func testEpoch(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("test-epoch-%s-%d", t.Name(), time.Now().UnixNano())
}

func pgFill(account, venueTradeID string) domain.FillReceived {
	return domain.FillReceived{
		EventMeta: domain.EventMeta{
			AccountID: account,
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		ClientOrderID: "client-1",
		VenueOrderID:  "venue-1",
		VenueTradeID:  venueTradeID,
		TradeID:       "trade-1",
		CommandID:     "cmd-1",
		Symbol:        "BTC-USDT",
		Side:          domain.OrderSideBuy,
		Qty:           decimal.RequireFromString("0.5"),
		Price:         decimal.RequireFromString("43000.25"),
		Fee:           decimal.Zero,
		FeeAsset:      "USDT",
	}
}

func TestAppendAndRead(t *testing.T) {
	client := testClient(t)
	store := postgres.NewEventStore(client)
	ctx := context.Background()
	epoch := testEpoch(t)

	m := domain.EventMeta{AccountID: "acct-1", Timestamp: time.Now().UTC()}
	seq, stored, err := store.Append(ctx, epoch, domain.CommandAccepted{
		EventMeta: m, CommandID: "cmd-1", TradeID: "trade-1",
	})
	require.NoError(t, err)
	require.True(t, stored)
	require.Equal(t, int64(1), seq)

	seq, stored, err = store.Append(ctx, epoch, pgFill("acct-1", "vtrade-1"))
	require.NoError(t, err)
	require.True(t, stored)
	require.Equal(t, int64(2), seq)

	events, err := store.Read(ctx, epoch, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, int64(1), events[0].Seq)
	require.Equal(t, "CommandAccepted", events[0].Event.EventType())

	fill, ok := events[1].Event.(domain.FillReceived)
	require.True(t, ok)
	require.Equal(t, "0.5", fill.Qty.String())
	require.Equal(t, "43000.25", fill.Price.String())

	last, err := store.LastEventSeq(ctx, epoch)
	require.NoError(t, err)
	require.Equal(t, int64(2), last)
}

func TestDuplicateFillRollsBack(t *testing.T) {
	client := testClient(t)
	store := postgres.NewEventStore(client)
	ctx := context.Background()
	epoch := testEpoch(t)

	seq, stored, err := store.Append(ctx, epoch, pgFill("acct-1", "vtrade-1"))
	require.NoError(t, err)
	require.True(t, stored)
	require.Equal(t, int64(1), seq)

	seq, stored, err = store.Append(ctx, epoch, pgFill("acct-1", "vtrade-1"))
	require.NoError(t, err)
	require.False(t, stored)
	require.Zero(t, seq)

	// The dropped duplicate burned no sequence number.
	seq, stored, err = store.Append(ctx, epoch, pgFill("acct-1", "vtrade-2"))
	require.NoError(t, err)
	require.True(t, stored)
	require.Equal(t, int64(2), seq)

	// Same key under another account is a distinct fill.
	_, stored, err = store.Append(ctx, epoch, pgFill("acct-2", "vtrade-1"))
	require.NoError(t, err)
	require.True(t, stored)
}

func TestLastEventSeqEmptyEpoch(t *testing.T) {
	client := testClient(t)
	store := postgres.NewEventStore(client)

	last, err := store.LastEventSeq(context.Background(), testEpoch(t))
	require.NoError(t, err)
	require.Zero(t, last)
}
