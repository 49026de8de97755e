package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fill is a single order execution (partial or full) reported by the venue.
// Fills are immutable facts: once received, no field changes.
type Fill struct {
	VenueTradeID  string
	VenueOrderID  string
	ClientOrderID string
	AccountID     string
	TradeID       string
	CommandID     string
	Symbol        string
	Side          OrderSide
	Qty           decimal.Decimal
	Price         decimal.Decimal
	Fee           decimal.Decimal
	FeeAsset      string
	IsMaker       bool
	Timestamp     time.Time
}

// Validate checks construction-time invariants.
func (f Fill) Validate() error {
	for field, v := range map[string]string{
		"venue_order_id":  f.VenueOrderID,
		"client_order_id": f.ClientOrderID,
		"account_id":      f.AccountID,
		"trade_id":        f.TradeID,
		"command_id":      f.CommandID,
		"symbol":          f.Symbol,
		"fee_asset":       f.FeeAsset,
	} {
		if err := requireID("Fill", field, v); err != nil {
			return err
		}
	}
	if err := requireTime("Fill", "timestamp", f.Timestamp); err != nil {
		return err
	}
	if !f.Side.Valid() {
		return fmt.Errorf("%w: Fill.side %q is not a valid side", ErrValidation, f.Side)
	}
	if !f.Qty.IsPositive() {
		return fmt.Errorf("%w: Fill.qty must be positive", ErrValidation)
	}
	if !f.Price.IsPositive() {
		return fmt.Errorf("%w: Fill.price must be positive", ErrValidation)
	}
	if f.Fee.IsNegative() {
		return fmt.Errorf("%w: Fill.fee must be non-negative", ErrValidation)
	}
	return nil
}

// DedupKey returns the deduplication key for this fill: the venue trade
// identifier when assigned, otherwise a composite of order, price, quantity,
// and timestamp.
func (f Fill) DedupKey() string {
	if f.VenueTradeID != "" {
		return f.VenueTradeID
	}
	return strings.Join([]string{
		f.VenueOrderID,
		f.Price.String(),
		f.Qty.String(),
		f.Timestamp.UTC().Format(time.RFC3339Nano),
	}, "|")
}

// Event converts the fill into its FillReceived log representation.
func (f Fill) Event() FillReceived {
	return FillReceived{
		EventMeta:     EventMeta{AccountID: f.AccountID, Timestamp: f.Timestamp},
		ClientOrderID: f.ClientOrderID,
		VenueOrderID:  f.VenueOrderID,
		VenueTradeID:  f.VenueTradeID,
		TradeID:       f.TradeID,
		CommandID:     f.CommandID,
		Symbol:        f.Symbol,
		Side:          f.Side,
		Qty:           f.Qty,
		Price:         f.Price,
		Fee:           f.Fee,
		FeeAsset:      f.FeeAsset,
		IsMaker:       f.IsMaker,
	}
}
