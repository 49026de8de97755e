package domain

// OrderSide indicates buy or sell direction for orders, fills, and positions.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Valid reports whether the side is one of the known values.
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// OrderType covers the order types accepted by the venue adapter, from plain
// market orders through composite OCO orders.
type OrderType string

const (
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeLimitIOC   OrderType = "LIMIT_IOC"
	OrderTypeStop       OrderType = "STOP"
	OrderTypeStopLimit  OrderType = "STOP_LIMIT"
	OrderTypeTakeProfit OrderType = "TAKE_PROFIT"
	OrderTypeTPLimit    OrderType = "TP_LIMIT"
	OrderTypeOCO        OrderType = "OCO"
)

// OrderStatus tracks the order lifecycle. Terminal states are FILLED,
// CANCELED, REJECTED, and EXPIRED; once reached they are absorbing.
type OrderStatus string

const (
	OrderStatusSubmitting      OrderStatus = "SUBMITTING"
	OrderStatusOpen            OrderStatus = "OPEN"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCanceled        OrderStatus = "CANCELED"
	OrderStatusRejected        OrderStatus = "REJECTED"
	OrderStatusExpired         OrderStatus = "EXPIRED"
)

// IsTerminal reports whether the status is absorbing.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected, OrderStatusExpired:
		return true
	}
	return false
}

// ExecutionMode selects the execution strategy for a TradeCommand. SingleShot
// submits as one unit; the other modes slice or schedule orders across time
// or price levels.
type ExecutionMode string

const (
	ExecutionSingleShot    ExecutionMode = "SINGLE_SHOT"
	ExecutionBracket       ExecutionMode = "BRACKET"
	ExecutionTWAP          ExecutionMode = "TWAP"
	ExecutionScheduledVWAP ExecutionMode = "SCHEDULED_VWAP"
	ExecutionIceberg       ExecutionMode = "ICEBERG"
	ExecutionTimeDCA       ExecutionMode = "TIME_DCA"
	ExecutionLadderDCA     ExecutionMode = "LADDER_DCA"
)

// MakerPreference expresses maker/taker preference for order placement.
type MakerPreference string

const (
	MakerOnly      MakerPreference = "MAKER_ONLY"
	MakerPreferred MakerPreference = "MAKER_PREFERRED"
	NoPreference   MakerPreference = "NO_PREFERENCE"
)

// STPMode selects the venue's self-trade prevention behavior.
type STPMode string

const (
	STPExpireTaker STPMode = "EXPIRE_TAKER"
	STPExpireMaker STPMode = "EXPIRE_MAKER"
	STPExpireBoth  STPMode = "EXPIRE_BOTH"
	STPNone        STPMode = "NONE"
)

// TradeStatus is the trade-level execution status reported in a TradeOutcome.
// PENDING, PARTIAL, and PAUSED are non-terminal; the rest are terminal.
type TradeStatus string

const (
	TradeStatusPending  TradeStatus = "PENDING"
	TradeStatusPartial  TradeStatus = "PARTIAL"
	TradeStatusPaused   TradeStatus = "PAUSED"
	TradeStatusFilled   TradeStatus = "FILLED"
	TradeStatusCanceled TradeStatus = "CANCELED"
	TradeStatusRejected TradeStatus = "REJECTED"
	TradeStatusExpired  TradeStatus = "EXPIRED"
)

// IsTerminal reports whether the trade status is absorbing.
func (s TradeStatus) IsTerminal() bool {
	switch s {
	case TradeStatusFilled, TradeStatusCanceled, TradeStatusRejected, TradeStatusExpired:
		return true
	}
	return false
}
