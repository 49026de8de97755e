package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/praxishq/praxis/internal/domain"
)

var eventTS = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func meta() domain.EventMeta {
	return domain.EventMeta{AccountID: "acct-1", Timestamp: eventTS}
}

func validFill() domain.FillReceived {
	return domain.FillReceived{
		EventMeta:     meta(),
		ClientOrderID: "client-1",
		VenueOrderID:  "venue-1",
		VenueTradeID:  "vtrade-1",
		TradeID:       "trade-1",
		CommandID:     "cmd-1",
		Symbol:        "BTC-USDT",
		Side:          domain.OrderSideBuy,
		Qty:           decimal.RequireFromString("0.5"),
		Price:         decimal.RequireFromString("43000.25"),
		Fee:           decimal.RequireFromString("0.01"),
		FeeAsset:      "USDT",
	}
}

func TestFillReceivedValidate(t *testing.T) {
	require.NoError(t, validFill().Validate())

	ev := validFill()
	ev.AccountID = ""
	require.ErrorIs(t, ev.Validate(), domain.ErrValidation)

	ev = validFill()
	ev.Timestamp = time.Time{}
	require.ErrorIs(t, ev.Validate(), domain.ErrValidation)

	ev = validFill()
	ev.Qty = decimal.Zero
	require.ErrorIs(t, ev.Validate(), domain.ErrValidation)

	ev = validFill()
	ev.Side = domain.OrderSide("HOLD")
	require.ErrorIs(t, ev.Validate(), domain.ErrValidation)

	ev = validFill()
	ev.Fee = decimal.RequireFromString("-0.01")
	require.ErrorIs(t, ev.Validate(), domain.ErrValidation)
}

func TestFillReceivedDedupKey(t *testing.T) {
	ev := validFill()
	require.Equal(t, "vtrade-1", ev.DedupKey())

	// Without a venue trade id the key falls back to a composite that is
	// stable across timezone representations of the same instant.
	ev.VenueTradeID = ""
	require.Equal(t, "venue-1|43000.25|0.5|2026-03-01T12:00:00Z", ev.DedupKey())

	shifted := ev
	shifted.Timestamp = ev.Timestamp.In(time.FixedZone("IST", 5*3600+1800))
	require.Equal(t, ev.DedupKey(), shifted.DedupKey())
}

func TestOrderSubmitIntentValidate(t *testing.T) {
	price := decimal.RequireFromString("101.5")
	ev := domain.OrderSubmitIntent{
		EventMeta:     meta(),
		CommandID:     "cmd-1",
		TradeID:       "trade-1",
		ClientOrderID: "client-1",
		Symbol:        "BTC-USDT",
		Side:          domain.OrderSideBuy,
		OrderType:     domain.OrderTypeLimit,
		Qty:           decimal.NewFromInt(10),
		Price:         &price,
	}
	require.NoError(t, ev.Validate())

	bad := ev
	bad.Qty = decimal.NewFromInt(-1)
	require.ErrorIs(t, bad.Validate(), domain.ErrValidation)

	zero := decimal.Zero
	bad = ev
	bad.Price = &zero
	require.ErrorIs(t, bad.Validate(), domain.ErrValidation)

	bad = ev
	bad.Symbol = ""
	require.ErrorIs(t, bad.Validate(), domain.ErrValidation)
}

func TestOrderRejectedAllowsMissingVenueOrderID(t *testing.T) {
	ev := domain.OrderRejected{
		EventMeta:     meta(),
		ClientOrderID: "client-1",
		Reason:        "insufficient balance",
	}
	require.NoError(t, ev.Validate())

	ev.Reason = ""
	require.ErrorIs(t, ev.Validate(), domain.ErrValidation)
}

func TestFillEventConversion(t *testing.T) {
	f := domain.Fill{
		VenueTradeID:  "vtrade-9",
		VenueOrderID:  "venue-9",
		ClientOrderID: "client-9",
		AccountID:     "acct-1",
		TradeID:       "trade-9",
		CommandID:     "cmd-9",
		Symbol:        "ETH-USDT",
		Side:          domain.OrderSideSell,
		Qty:           decimal.NewFromInt(2),
		Price:         decimal.RequireFromString("2500.50"),
		Fee:           decimal.Zero,
		FeeAsset:      "USDT",
		IsMaker:       true,
		Timestamp:     eventTS,
	}
	require.NoError(t, f.Validate())

	ev := f.Event()
	require.NoError(t, ev.Validate())
	require.Equal(t, f.DedupKey(), ev.DedupKey())
	require.Equal(t, "acct-1", ev.EventAccountID())
	require.True(t, ev.Qty.Equal(f.Qty))
	require.True(t, ev.IsMaker)
}

func TestOrderStatusTerminality(t *testing.T) {
	for _, s := range []domain.OrderStatus{
		domain.OrderStatusFilled,
		domain.OrderStatusCanceled,
		domain.OrderStatusRejected,
		domain.OrderStatusExpired,
	} {
		require.True(t, s.IsTerminal(), string(s))
	}
	for _, s := range []domain.OrderStatus{
		domain.OrderStatusSubmitting,
		domain.OrderStatusOpen,
		domain.OrderStatusPartiallyFilled,
	} {
		require.False(t, s.IsTerminal(), string(s))
	}
}
