package state

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/praxishq/praxis/internal/domain"
)

// Order is a trading order tracked from submission intent through a terminal
// state. All fields are private: reads go through accessors and every write
// goes through the projection's event dispatch, so lifecycle and quantity
// invariants cannot be bypassed by external assignment.
type Order struct {
	clientOrderID string
	venueOrderID  string
	accountID     string
	commandID     string
	tradeID       string
	symbol        string
	side          domain.OrderSide
	orderType     domain.OrderType
	qty           decimal.Decimal
	filledQty     decimal.Decimal
	price         *decimal.Decimal
	stopPrice     *decimal.Decimal
	status        domain.OrderStatus
	createdAt     time.Time
	updatedAt     time.Time
}

func newOrder(e domain.OrderSubmitIntent) *Order {
	return &Order{
		clientOrderID: e.ClientOrderID,
		accountID:     e.AccountID,
		commandID:     e.CommandID,
		tradeID:       e.TradeID,
		symbol:        e.Symbol,
		side:          e.Side,
		orderType:     e.OrderType,
		qty:           e.Qty,
		filledQty:     decimal.Zero,
		price:         e.Price,
		stopPrice:     e.StopPrice,
		status:        domain.OrderStatusSubmitting,
		createdAt:     e.Timestamp,
		updatedAt:     e.Timestamp,
	}
}

func (o *Order) ClientOrderID() string        { return o.clientOrderID }
func (o *Order) VenueOrderID() string         { return o.venueOrderID }
func (o *Order) AccountID() string            { return o.accountID }
func (o *Order) CommandID() string            { return o.commandID }
func (o *Order) TradeID() string              { return o.tradeID }
func (o *Order) Symbol() string               { return o.symbol }
func (o *Order) Side() domain.OrderSide       { return o.side }
func (o *Order) OrderType() domain.OrderType  { return o.orderType }
func (o *Order) Qty() decimal.Decimal         { return o.qty }
func (o *Order) FilledQty() decimal.Decimal   { return o.filledQty }
func (o *Order) Price() *decimal.Decimal      { return o.price }
func (o *Order) StopPrice() *decimal.Decimal  { return o.stopPrice }
func (o *Order) Status() domain.OrderStatus   { return o.status }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// RemainingQty returns the unfilled quantity.
func (o *Order) RemainingQty() decimal.Decimal { return o.qty.Sub(o.filledQty) }

// IsTerminal reports whether the order reached an absorbing state.
func (o *Order) IsTerminal() bool { return o.status.IsTerminal() }

func (o *Order) markSubmitted(venueOrderID string, ts time.Time) {
	o.venueOrderID = venueOrderID
	o.status = domain.OrderStatusOpen
	o.updatedAt = ts
}

// markAcked records the venue identifier and promotes a SUBMITTING order to
// OPEN. A partially filled order is not regressed.
func (o *Order) markAcked(venueOrderID string, ts time.Time) {
	o.venueOrderID = venueOrderID
	if o.status == domain.OrderStatusSubmitting {
		o.status = domain.OrderStatusOpen
	}
	o.updatedAt = ts
}

// markTerminal transitions the order into the given terminal status. The
// venue identifier is late-bound when the terminal event carries one.
func (o *Order) markTerminal(status domain.OrderStatus, venueOrderID string, ts time.Time) {
	if venueOrderID != "" {
		o.venueOrderID = venueOrderID
	}
	o.status = status
	o.updatedAt = ts
}

// applyFill increments the filled quantity, clamped so it never exceeds the
// order quantity. It returns the quantity actually applied and whether the
// fill was clamped.
func (o *Order) applyFill(qty decimal.Decimal, ts time.Time) (applied decimal.Decimal, clamped bool) {
	applied = qty
	if remaining := o.RemainingQty(); qty.GreaterThan(remaining) {
		applied = remaining
		clamped = true
	}
	o.filledQty = o.filledQty.Add(applied)
	o.updatedAt = ts
	if o.filledQty.Equal(o.qty) {
		o.status = domain.OrderStatusFilled
	} else {
		o.status = domain.OrderStatusPartiallyFilled
	}
	return applied, clamped
}
