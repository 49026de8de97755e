package spine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/praxishq/praxis/internal/domain"
	"github.com/praxishq/praxis/internal/spine"
)

var codecTS = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRoundTripFillReceived(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ev := domain.FillReceived{
		EventMeta: domain.EventMeta{
			AccountID: "acct-1",
			Timestamp: time.Date(2026, 3, 1, 17, 30, 0, 123456789, ist),
		},
		ClientOrderID: "client-1",
		VenueOrderID:  "venue-1",
		VenueTradeID:  "vtrade-1",
		TradeID:       "trade-1",
		CommandID:     "cmd-1",
		Symbol:        "BTC-USDT",
		Side:          domain.OrderSideBuy,
		Qty:           decimal.RequireFromString("0.00000001"),
		Price:         decimal.RequireFromString("43000.123456789012345678"),
		Fee:           decimal.RequireFromString("0.000100"),
		FeeAsset:      "USDT",
		IsMaker:       true,
	}

	payload, err := spine.Encode(ev)
	require.NoError(t, err)

	decoded, err := spine.Decode("FillReceived", payload)
	require.NoError(t, err)

	got, ok := decoded.(domain.FillReceived)
	require.True(t, ok)

	// Decimals survive with full precision, as digit strings.
	require.Equal(t, "0.00000001", got.Qty.String())
	require.Equal(t, "43000.123456789012345678", got.Price.String())
	require.Equal(t, "0.000100", got.Fee.String())

	// The timestamp keeps both the instant and the offset.
	require.True(t, got.Timestamp.Equal(ev.Timestamp))
	_, offset := got.Timestamp.Zone()
	require.Equal(t, 5*3600+1800, offset)

	require.Equal(t, domain.OrderSideBuy, got.Side)
	require.True(t, got.IsMaker)
	require.Equal(t, ev.DedupKey(), got.DedupKey())
}

func TestRoundTripOptionalPrices(t *testing.T) {
	price := decimal.RequireFromString("101.50")
	ev := domain.OrderSubmitIntent{
		EventMeta:     domain.EventMeta{AccountID: "acct-1", Timestamp: codecTS},
		CommandID:     "cmd-1",
		TradeID:       "trade-1",
		ClientOrderID: "client-1",
		Symbol:        "BTC-USDT",
		Side:          domain.OrderSideSell,
		OrderType:     domain.OrderTypeStopLimit,
		Qty:           decimal.NewFromInt(10),
		Price:         &price,
	}

	payload, err := spine.Encode(ev)
	require.NoError(t, err)

	decoded, err := spine.Decode("OrderSubmitIntent", payload)
	require.NoError(t, err)

	got := decoded.(domain.OrderSubmitIntent)
	require.NotNil(t, got.Price)
	require.Equal(t, "101.50", got.Price.String())
	require.Nil(t, got.StopPrice)
	require.Equal(t, domain.OrderTypeStopLimit, got.OrderType)
}

func TestRoundTripAllVariants(t *testing.T) {
	m := domain.EventMeta{AccountID: "acct-1", Timestamp: codecTS}
	events := []domain.Event{
		domain.CommandAccepted{EventMeta: m, CommandID: "cmd-1", TradeID: "trade-1"},
		domain.OrderSubmitted{EventMeta: m, ClientOrderID: "client-1", VenueOrderID: "venue-1"},
		domain.OrderSubmitFailed{EventMeta: m, ClientOrderID: "client-1", Reason: "venue unavailable"},
		domain.OrderAcked{EventMeta: m, ClientOrderID: "client-1", VenueOrderID: "venue-1"},
		domain.OrderRejected{EventMeta: m, ClientOrderID: "client-1", Reason: "price out of band"},
		domain.OrderCanceled{EventMeta: m, ClientOrderID: "client-1"},
		domain.OrderExpired{EventMeta: m, ClientOrderID: "client-1"},
		domain.TradeClosed{EventMeta: m, TradeID: "trade-1", CommandID: "cmd-1"},
	}
	for _, ev := range events {
		payload, err := spine.Encode(ev)
		require.NoError(t, err, ev.EventType())

		decoded, err := spine.Decode(ev.EventType(), payload)
		require.NoError(t, err, ev.EventType())
		require.Equal(t, ev.EventType(), decoded.EventType())
		require.Equal(t, "acct-1", decoded.EventAccountID())
		require.True(t, decoded.EventTimestamp().Equal(codecTS))
	}
}

func TestDecodeToleratesUnknownFields(t *testing.T) {
	payload := []byte(`{
		"account_id": "acct-1",
		"timestamp": "2026-03-01T12:00:00Z",
		"client_order_id": "client-1",
		"venue_order_id": "venue-1",
		"routing_hint": "colo-3",
		"schema_rev": 7
	}`)
	decoded, err := spine.Decode("OrderSubmitted", payload)
	require.NoError(t, err)

	got := decoded.(domain.OrderSubmitted)
	require.Equal(t, "venue-1", got.VenueOrderID)
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := spine.Decode("OrderTeleported", []byte(`{}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "OrderTeleported")
}

func TestDecodeRejectsInvalidPayload(t *testing.T) {
	payload := []byte(`{"timestamp": "2026-03-01T12:00:00Z", "client_order_id": "client-1", "venue_order_id": "venue-1"}`)
	_, err := spine.Decode("OrderSubmitted", payload)
	require.ErrorIs(t, err, domain.ErrValidation)
}

type bogusEvent struct{ domain.EventMeta }

func (bogusEvent) EventType() string { return "Bogus" }
func (bogusEvent) Validate() error   { return nil }

func TestEncodeRejectsUnregisteredType(t *testing.T) {
	ev := bogusEvent{domain.EventMeta{AccountID: "acct-1", Timestamp: codecTS}}
	_, err := spine.Encode(ev)
	require.Error(t, err)
	require.False(t, spine.Registered("Bogus"))
}

func TestEncodeValidatesFirst(t *testing.T) {
	ev := domain.OrderSubmitted{
		EventMeta:     domain.EventMeta{AccountID: "", Timestamp: codecTS},
		ClientOrderID: "client-1",
		VenueOrderID:  "venue-1",
	}
	_, err := spine.Encode(ev)
	require.ErrorIs(t, err, domain.ErrValidation)
}
