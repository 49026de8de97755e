// Package state holds the in-memory projection of the event log. A
// TradingState is rebuilt by replaying events from genesis; each Apply call
// updates orders and positions in O(1). It is a derived view of the log, not
// an independent store, and it is the only sanctioned mutator of Order and
// Position.
package state

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/praxishq/praxis/internal/domain"
)

// PositionKey identifies a position: one per trade per account.
type PositionKey struct {
	TradeID   string
	AccountID string
}

// commandTrack aggregates order activity for one accepted command until its
// TradeClosed event finalizes the outcome.
type commandTrack struct {
	tradeID      string
	targetQty    decimal.Decimal
	filledQty    decimal.Decimal
	notional     decimal.Decimal
	slices       int
	slicesFilled int
	lastTerminal domain.OrderStatus
	closed       bool
}

// TradingState projects an ordered event stream into current order and
// position state. It is driven by exactly one ordered-replay consumer; it is
// not safe for concurrent use. Replaying the same event sequence into a fresh
// TradingState always yields identical state.
type TradingState struct {
	accountID    string
	logger       *slog.Logger
	orders       map[string]*Order
	closedOrders map[string]*Order
	positions    map[PositionKey]*Position
	commands     map[string]*commandTrack
	outcomes     map[string]domain.TradeOutcome
}

// New creates an empty projection for the account. Warnings emitted during
// Apply are logged with correlation identifiers and never fail the replay.
func New(accountID string, logger *slog.Logger) (*TradingState, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: TradingState.account_id must be a non-empty string", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TradingState{
		accountID:    accountID,
		logger:       logger.With(slog.String("component", "trading_state"), slog.String("account_id", accountID)),
		orders:       make(map[string]*Order),
		closedOrders: make(map[string]*Order),
		positions:    make(map[PositionKey]*Position),
		commands:     make(map[string]*commandTrack),
		outcomes:     make(map[string]domain.TradeOutcome),
	}, nil
}

// AccountID returns the account this projection belongs to.
func (s *TradingState) AccountID() string { return s.accountID }

// Apply folds a single event into the projection. Invalid transitions are
// warnings, never errors, so idempotent replay of overlapping streams is
// safe.
func (s *TradingState) Apply(ev domain.Event) {
	switch e := ev.(type) {
	case domain.CommandAccepted:
		s.onCommandAccepted(e)
	case domain.OrderSubmitIntent:
		s.onOrderSubmitIntent(e)
	case domain.OrderSubmitted:
		s.onOrderSubmitted(e)
	case domain.OrderSubmitFailed:
		s.onOrderTerminal(e.EventType(), e.ClientOrderID, "", domain.OrderStatusRejected, e)
	case domain.OrderAcked:
		s.onOrderAcked(e)
	case domain.FillReceived:
		s.onFillReceived(e)
	case domain.OrderRejected:
		s.onOrderTerminal(e.EventType(), e.ClientOrderID, e.VenueOrderID, domain.OrderStatusRejected, e)
	case domain.OrderCanceled:
		s.onOrderTerminal(e.EventType(), e.ClientOrderID, e.VenueOrderID, domain.OrderStatusCanceled, e)
	case domain.OrderExpired:
		s.onOrderTerminal(e.EventType(), e.ClientOrderID, e.VenueOrderID, domain.OrderStatusExpired, e)
	case domain.TradeClosed:
		s.onTradeClosed(e)
	default:
		s.logger.Warn("unhandled event type in apply",
			slog.String("event_type", ev.EventType()))
	}
}

func (s *TradingState) onCommandAccepted(e domain.CommandAccepted) {
	if _, ok := s.commands[e.CommandID]; ok {
		s.logger.Warn("command already accepted",
			slog.String("command_id", e.CommandID),
			slog.String("trade_id", e.TradeID))
		return
	}
	s.commands[e.CommandID] = &commandTrack{tradeID: e.TradeID}
}

func (s *TradingState) onOrderSubmitIntent(e domain.OrderSubmitIntent) {
	if _, ok := s.orders[e.ClientOrderID]; ok {
		s.logger.Warn("order already tracked, ignoring submit intent",
			slog.String("client_order_id", e.ClientOrderID),
			slog.String("command_id", e.CommandID))
		return
	}
	if _, ok := s.closedOrders[e.ClientOrderID]; ok {
		s.logger.Warn("submit intent for terminal order ignored",
			slog.String("client_order_id", e.ClientOrderID),
			slog.String("command_id", e.CommandID))
		return
	}
	s.orders[e.ClientOrderID] = newOrder(e)

	cmd, ok := s.commands[e.CommandID]
	if !ok {
		s.logger.Warn("submit intent for unregistered command",
			slog.String("client_order_id", e.ClientOrderID),
			slog.String("command_id", e.CommandID))
		cmd = &commandTrack{tradeID: e.TradeID}
		s.commands[e.CommandID] = cmd
	}
	cmd.targetQty = cmd.targetQty.Add(e.Qty)
	cmd.slices++
}

func (s *TradingState) onOrderSubmitted(e domain.OrderSubmitted) {
	order := s.openOrder(e.EventType(), e.ClientOrderID)
	if order == nil {
		return
	}
	order.markSubmitted(e.VenueOrderID, e.Timestamp)
}

func (s *TradingState) onOrderAcked(e domain.OrderAcked) {
	order := s.openOrder(e.EventType(), e.ClientOrderID)
	if order == nil {
		return
	}
	order.markAcked(e.VenueOrderID, e.Timestamp)
}

func (s *TradingState) onOrderTerminal(eventType, clientOrderID, venueOrderID string, status domain.OrderStatus, ev domain.Event) {
	order := s.openOrder(eventType, clientOrderID)
	if order == nil {
		return
	}
	order.markTerminal(status, venueOrderID, ev.EventTimestamp())
	s.closeOrder(order)
}

func (s *TradingState) onFillReceived(e domain.FillReceived) {
	if order := s.openOrder(e.EventType(), e.ClientOrderID); order != nil {
		applied, clamped := order.applyFill(e.Qty, e.Timestamp)
		if clamped {
			s.logger.Warn("fill exceeds order quantity, clamped",
				slog.String("client_order_id", e.ClientOrderID),
				slog.String("command_id", e.CommandID),
				slog.String("venue_trade_id", e.VenueTradeID),
				slog.String("fill_qty", e.Qty.String()),
				slog.String("applied_qty", applied.String()))
		}
		if cmd, ok := s.commands[e.CommandID]; ok {
			cmd.filledQty = cmd.filledQty.Add(applied)
			cmd.notional = cmd.notional.Add(applied.Mul(e.Price))
		}
		if order.IsTerminal() {
			s.closeOrder(order)
		}
	}

	key := PositionKey{TradeID: e.TradeID, AccountID: e.AccountID}
	pos, ok := s.positions[key]
	if !ok {
		pos = newPosition(e.AccountID, e.TradeID, e.Symbol)
		s.positions[key] = pos
	}
	pos.applyFill(e.Side, e.Qty, e.Price)
	if pos.Qty().IsNegative() {
		s.logger.Warn("position quantity is negative",
			slog.String("trade_id", e.TradeID),
			slog.String("qty", pos.Qty().String()))
	}
}

func (s *TradingState) onTradeClosed(e domain.TradeClosed) {
	cmd, ok := s.commands[e.CommandID]
	switch {
	case !ok:
		s.logger.Warn("trade closed for unknown command",
			slog.String("command_id", e.CommandID),
			slog.String("trade_id", e.TradeID))
	case cmd.closed:
		s.logger.Warn("trade already closed",
			slog.String("command_id", e.CommandID),
			slog.String("trade_id", e.TradeID))
	default:
		s.finalizeOutcome(e, cmd)
		cmd.closed = true
	}

	key := PositionKey{TradeID: e.TradeID, AccountID: s.accountID}
	if _, ok := s.positions[key]; ok {
		delete(s.positions, key)
	} else {
		s.logger.Warn("no position for closed trade",
			slog.String("trade_id", e.TradeID),
			slog.String("command_id", e.CommandID))
	}
}

// finalizeOutcome builds the command's terminal TradeOutcome from the
// aggregates collected during replay.
func (s *TradingState) finalizeOutcome(e domain.TradeClosed, cmd *commandTrack) {
	if !cmd.targetQty.IsPositive() {
		s.logger.Warn("trade closed with no tracked orders, no outcome recorded",
			slog.String("command_id", e.CommandID),
			slog.String("trade_id", e.TradeID))
		return
	}

	status := domain.TradeStatusCanceled
	switch {
	case cmd.filledQty.GreaterThanOrEqual(cmd.targetQty):
		status = domain.TradeStatusFilled
	case cmd.lastTerminal != "":
		status = tradeStatusFor(cmd.lastTerminal)
	}

	var avg *decimal.Decimal
	if cmd.filledQty.IsPositive() {
		v := cmd.notional.Div(cmd.filledQty)
		avg = &v
	}

	outcome, err := domain.NewTradeOutcome(domain.TradeOutcome{
		CommandID:       e.CommandID,
		TradeID:         e.TradeID,
		AccountID:       e.AccountID,
		Status:          status,
		TargetQty:       cmd.targetQty,
		FilledQty:       cmd.filledQty,
		AvgFillPrice:    avg,
		SlicesCompleted: cmd.slicesFilled,
		SlicesTotal:     cmd.slices,
		CreatedAt:       e.Timestamp,
	})
	if err != nil {
		s.logger.Warn("trade outcome rejected",
			slog.String("command_id", e.CommandID),
			slog.String("trade_id", e.TradeID),
			slog.String("error", err.Error()))
		return
	}
	s.outcomes[e.CommandID] = outcome
}

// tradeStatusFor maps a terminal order status onto the trade-level status.
func tradeStatusFor(status domain.OrderStatus) domain.TradeStatus {
	switch status {
	case domain.OrderStatusRejected:
		return domain.TradeStatusRejected
	case domain.OrderStatusExpired:
		return domain.TradeStatusExpired
	default:
		return domain.TradeStatusCanceled
	}
}

// openOrder returns the active order, or nil after logging why the event was
// ignored: either the order reached a terminal state already or it was never
// tracked.
func (s *TradingState) openOrder(eventType, clientOrderID string) *Order {
	if order, ok := s.orders[clientOrderID]; ok {
		return order
	}
	if _, ok := s.closedOrders[clientOrderID]; ok {
		s.logger.Warn("event for terminal order ignored",
			slog.String("event_type", eventType),
			slog.String("client_order_id", clientOrderID))
		return nil
	}
	s.logger.Warn("event for unknown order ignored",
		slog.String("event_type", eventType),
		slog.String("client_order_id", clientOrderID))
	return nil
}

// closeOrder moves the order from the active to the closed view and records
// its terminal status against the owning command.
func (s *TradingState) closeOrder(order *Order) {
	delete(s.orders, order.ClientOrderID())
	s.closedOrders[order.ClientOrderID()] = order

	cmd, ok := s.commands[order.CommandID()]
	if !ok {
		return
	}
	cmd.lastTerminal = order.Status()
	if order.Status() == domain.OrderStatusFilled {
		cmd.slicesFilled++
	}
}

// Order returns the order with the given client identifier, searching active
// orders first and terminal orders second.
func (s *TradingState) Order(clientOrderID string) (*Order, bool) {
	if order, ok := s.orders[clientOrderID]; ok {
		return order, true
	}
	order, ok := s.closedOrders[clientOrderID]
	return order, ok
}

// ActiveOrders returns all non-terminal orders.
func (s *TradingState) ActiveOrders() []*Order {
	orders := make([]*Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	return orders
}

// ClosedOrders returns all orders that reached a terminal state.
func (s *TradingState) ClosedOrders() []*Order {
	orders := make([]*Order, 0, len(s.closedOrders))
	for _, o := range s.closedOrders {
		orders = append(orders, o)
	}
	return orders
}

// Position returns the open position for the trade, if any.
func (s *TradingState) Position(tradeID string) (*Position, bool) {
	pos, ok := s.positions[PositionKey{TradeID: tradeID, AccountID: s.accountID}]
	return pos, ok
}

// Positions returns all open positions.
func (s *TradingState) Positions() []*Position {
	positions := make([]*Position, 0, len(s.positions))
	for _, p := range s.positions {
		positions = append(positions, p)
	}
	return positions
}

// Outcome returns the finalized outcome for the command, if its trade has
// closed.
func (s *TradingState) Outcome(commandID string) (domain.TradeOutcome, bool) {
	outcome, ok := s.outcomes[commandID]
	return outcome, ok
}
