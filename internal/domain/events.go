package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Event is the closed set of immutable facts recorded in the event log. Each
// variant describes one state transition in the order/position lifecycle.
// Events are built as struct literals and must pass Validate before they are
// appended; the codec enforces this on both the write and the read path.
type Event interface {
	// EventType returns the stable registry tag used for persistence.
	EventType() string
	EventAccountID() string
	EventTimestamp() time.Time
	Validate() error
}

// EventMeta carries the fields shared by every event variant.
type EventMeta struct {
	AccountID string    `json:"account_id"`
	Timestamp time.Time `json:"timestamp"`
}

// EventAccountID returns the account that owns the event.
func (m EventMeta) EventAccountID() string { return m.AccountID }

// EventTimestamp returns the time the event occurred.
func (m EventMeta) EventTimestamp() time.Time { return m.Timestamp }

func (m EventMeta) validate(entity string) error {
	if err := requireID(entity, "account_id", m.AccountID); err != nil {
		return err
	}
	return requireTime(entity, "timestamp", m.Timestamp)
}

// CommandAccepted records acceptance of a TradeCommand into the execution
// pipeline. No order exists yet at this point.
type CommandAccepted struct {
	EventMeta
	CommandID string `json:"command_id"`
	TradeID   string `json:"trade_id"`
}

func (e CommandAccepted) EventType() string { return "CommandAccepted" }

func (e CommandAccepted) Validate() error {
	if err := e.validate("CommandAccepted"); err != nil {
		return err
	}
	if err := requireID("CommandAccepted", "command_id", e.CommandID); err != nil {
		return err
	}
	return requireID("CommandAccepted", "trade_id", e.TradeID)
}

// OrderSubmitIntent records the intent to submit an order, before any venue
// acknowledgement. It carries everything the projection needs to materialize
// the order.
type OrderSubmitIntent struct {
	EventMeta
	CommandID     string           `json:"command_id"`
	TradeID       string           `json:"trade_id"`
	ClientOrderID string           `json:"client_order_id"`
	Symbol        string           `json:"symbol"`
	Side          OrderSide        `json:"side"`
	OrderType     OrderType        `json:"order_type"`
	Qty           decimal.Decimal  `json:"qty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StopPrice     *decimal.Decimal `json:"stop_price,omitempty"`
}

func (e OrderSubmitIntent) EventType() string { return "OrderSubmitIntent" }

func (e OrderSubmitIntent) Validate() error {
	if err := e.validate("OrderSubmitIntent"); err != nil {
		return err
	}
	for field, v := range map[string]string{
		"command_id":      e.CommandID,
		"trade_id":        e.TradeID,
		"client_order_id": e.ClientOrderID,
		"symbol":          e.Symbol,
	} {
		if err := requireID("OrderSubmitIntent", field, v); err != nil {
			return err
		}
	}
	if !e.Side.Valid() {
		return fmt.Errorf("%w: OrderSubmitIntent.side %q is not a valid side", ErrValidation, e.Side)
	}
	if !e.Qty.IsPositive() {
		return fmt.Errorf("%w: OrderSubmitIntent.qty must be positive", ErrValidation)
	}
	if e.Price != nil && !e.Price.IsPositive() {
		return fmt.Errorf("%w: OrderSubmitIntent.price must be positive", ErrValidation)
	}
	if e.StopPrice != nil && !e.StopPrice.IsPositive() {
		return fmt.Errorf("%w: OrderSubmitIntent.stop_price must be positive", ErrValidation)
	}
	return nil
}

// OrderSubmitted records successful submission of an order to the venue.
type OrderSubmitted struct {
	EventMeta
	ClientOrderID string `json:"client_order_id"`
	VenueOrderID  string `json:"venue_order_id"`
}

func (e OrderSubmitted) EventType() string { return "OrderSubmitted" }

func (e OrderSubmitted) Validate() error {
	if err := e.validate("OrderSubmitted"); err != nil {
		return err
	}
	if err := requireID("OrderSubmitted", "client_order_id", e.ClientOrderID); err != nil {
		return err
	}
	return requireID("OrderSubmitted", "venue_order_id", e.VenueOrderID)
}

// OrderSubmitFailed records a failed submission attempt.
type OrderSubmitFailed struct {
	EventMeta
	ClientOrderID string `json:"client_order_id"`
	Reason        string `json:"reason"`
}

func (e OrderSubmitFailed) EventType() string { return "OrderSubmitFailed" }

func (e OrderSubmitFailed) Validate() error {
	if err := e.validate("OrderSubmitFailed"); err != nil {
		return err
	}
	if err := requireID("OrderSubmitFailed", "client_order_id", e.ClientOrderID); err != nil {
		return err
	}
	return requireID("OrderSubmitFailed", "reason", e.Reason)
}

// OrderAcked records venue acknowledgement of an order.
type OrderAcked struct {
	EventMeta
	ClientOrderID string `json:"client_order_id"`
	VenueOrderID  string `json:"venue_order_id"`
}

func (e OrderAcked) EventType() string { return "OrderAcked" }

func (e OrderAcked) Validate() error {
	if err := e.validate("OrderAcked"); err != nil {
		return err
	}
	if err := requireID("OrderAcked", "client_order_id", e.ClientOrderID); err != nil {
		return err
	}
	return requireID("OrderAcked", "venue_order_id", e.VenueOrderID)
}

// FillReceived records a fill execution reported by the venue. It is the only
// variant gated by the event log's deduplication guard.
type FillReceived struct {
	EventMeta
	ClientOrderID string          `json:"client_order_id"`
	VenueOrderID  string          `json:"venue_order_id"`
	VenueTradeID  string          `json:"venue_trade_id"`
	TradeID       string          `json:"trade_id"`
	CommandID     string          `json:"command_id"`
	Symbol        string          `json:"symbol"`
	Side          OrderSide       `json:"side"`
	Qty           decimal.Decimal `json:"qty"`
	Price         decimal.Decimal `json:"price"`
	Fee           decimal.Decimal `json:"fee"`
	FeeAsset      string          `json:"fee_asset"`
	IsMaker       bool            `json:"is_maker"`
}

func (e FillReceived) EventType() string { return "FillReceived" }

func (e FillReceived) Validate() error {
	if err := e.validate("FillReceived"); err != nil {
		return err
	}
	for field, v := range map[string]string{
		"client_order_id": e.ClientOrderID,
		"venue_order_id":  e.VenueOrderID,
		"venue_trade_id":  e.VenueTradeID,
		"trade_id":        e.TradeID,
		"command_id":      e.CommandID,
		"symbol":          e.Symbol,
		"fee_asset":       e.FeeAsset,
	} {
		if err := requireID("FillReceived", field, v); err != nil {
			return err
		}
	}
	if !e.Side.Valid() {
		return fmt.Errorf("%w: FillReceived.side %q is not a valid side", ErrValidation, e.Side)
	}
	if !e.Qty.IsPositive() {
		return fmt.Errorf("%w: FillReceived.qty must be positive", ErrValidation)
	}
	if !e.Price.IsPositive() {
		return fmt.Errorf("%w: FillReceived.price must be positive", ErrValidation)
	}
	if e.Fee.IsNegative() {
		return fmt.Errorf("%w: FillReceived.fee must be non-negative", ErrValidation)
	}
	return nil
}

// DedupKey returns the idempotency key used by the event log to suppress
// duplicate fills. The venue trade identifier is the primary key; when the
// venue does not assign one the key falls back to a composite of order,
// price, quantity, and timestamp.
func (e FillReceived) DedupKey() string {
	if e.VenueTradeID != "" {
		return e.VenueTradeID
	}
	return strings.Join([]string{
		e.VenueOrderID,
		e.Price.String(),
		e.Qty.String(),
		e.Timestamp.UTC().Format(time.RFC3339Nano),
	}, "|")
}

// OrderRejected records a venue rejection. The venue order identifier may be
// absent when the venue rejected the order before assigning one.
type OrderRejected struct {
	EventMeta
	ClientOrderID string `json:"client_order_id"`
	VenueOrderID  string `json:"venue_order_id,omitempty"`
	Reason        string `json:"reason"`
}

func (e OrderRejected) EventType() string { return "OrderRejected" }

func (e OrderRejected) Validate() error {
	if err := e.validate("OrderRejected"); err != nil {
		return err
	}
	if err := requireID("OrderRejected", "client_order_id", e.ClientOrderID); err != nil {
		return err
	}
	return requireID("OrderRejected", "reason", e.Reason)
}

// OrderCanceled records cancellation of an order.
type OrderCanceled struct {
	EventMeta
	ClientOrderID string `json:"client_order_id"`
	VenueOrderID  string `json:"venue_order_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func (e OrderCanceled) EventType() string { return "OrderCanceled" }

func (e OrderCanceled) Validate() error {
	if err := e.validate("OrderCanceled"); err != nil {
		return err
	}
	return requireID("OrderCanceled", "client_order_id", e.ClientOrderID)
}

// OrderExpired records expiration of an order.
type OrderExpired struct {
	EventMeta
	ClientOrderID string `json:"client_order_id"`
	VenueOrderID  string `json:"venue_order_id,omitempty"`
}

func (e OrderExpired) EventType() string { return "OrderExpired" }

func (e OrderExpired) Validate() error {
	if err := e.validate("OrderExpired"); err != nil {
		return err
	}
	return requireID("OrderExpired", "client_order_id", e.ClientOrderID)
}

// TradeClosed records closure of a trade lifecycle. The projection finalizes
// the command's TradeOutcome when it applies this event.
type TradeClosed struct {
	EventMeta
	TradeID   string `json:"trade_id"`
	CommandID string `json:"command_id"`
}

func (e TradeClosed) EventType() string { return "TradeClosed" }

func (e TradeClosed) Validate() error {
	if err := e.validate("TradeClosed"); err != nil {
		return err
	}
	if err := requireID("TradeClosed", "trade_id", e.TradeID); err != nil {
		return err
	}
	return requireID("TradeClosed", "command_id", e.CommandID)
}
