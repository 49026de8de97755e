package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExecutionParams is the mode-specific parameter set carried by a
// TradeCommand. Each execution mode has exactly one params type, so a params
// value mismatched to its mode is unrepresentable: the command's mode is
// derived from the params, never stored beside them.
type ExecutionParams interface {
	Mode() ExecutionMode
	Validate() error
}

// SingleShotParams parameterizes SINGLE_SHOT execution: a single order
// submitted as one unit.
type SingleShotParams struct {
	Price          *decimal.Decimal
	StopPrice      *decimal.Decimal
	StopLimitPrice *decimal.Decimal
}

// Mode identifies the execution mode these params belong to.
func (SingleShotParams) Mode() ExecutionMode { return ExecutionSingleShot }

// Validate checks that all set prices are positive.
func (p SingleShotParams) Validate() error {
	for field, v := range map[string]*decimal.Decimal{
		"price":            p.Price,
		"stop_price":       p.StopPrice,
		"stop_limit_price": p.StopLimitPrice,
	} {
		if v != nil && !v.IsPositive() {
			return fmt.Errorf("%w: SingleShotParams.%s must be positive", ErrValidation, field)
		}
	}
	return nil
}

// TradeCommand is an execution instruction from the Manager layer. Commands
// are immutable; the execution core assigns the command identifier.
type TradeCommand struct {
	CommandID       string
	TradeID         string
	AccountID       string
	Symbol          string
	Side            OrderSide
	Qty             decimal.Decimal
	OrderType       OrderType
	Params          ExecutionParams
	Timeout         time.Duration
	ReferencePrice  *decimal.Decimal
	MakerPreference MakerPreference
	STPMode         STPMode
	CreatedAt       time.Time
}

// NewTradeCommand assigns a fresh command identifier and validates the
// command. All other fields come from the Manager signal.
func NewTradeCommand(cmd TradeCommand) (TradeCommand, error) {
	cmd.CommandID = uuid.NewString()
	if err := cmd.Validate(); err != nil {
		return TradeCommand{}, err
	}
	return cmd, nil
}

// ExecutionMode returns the mode implied by the command's params.
func (c TradeCommand) ExecutionMode() ExecutionMode { return c.Params.Mode() }

// Validate checks construction-time invariants.
func (c TradeCommand) Validate() error {
	for field, v := range map[string]string{
		"command_id": c.CommandID,
		"trade_id":   c.TradeID,
		"account_id": c.AccountID,
		"symbol":     c.Symbol,
	} {
		if err := requireID("TradeCommand", field, v); err != nil {
			return err
		}
	}
	if !c.Side.Valid() {
		return fmt.Errorf("%w: TradeCommand.side %q is not a valid side", ErrValidation, c.Side)
	}
	if !c.Qty.IsPositive() {
		return fmt.Errorf("%w: TradeCommand.qty must be positive", ErrValidation)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: TradeCommand.timeout must be positive", ErrValidation)
	}
	if c.ReferencePrice != nil && !c.ReferencePrice.IsPositive() {
		return fmt.Errorf("%w: TradeCommand.reference_price must be positive", ErrValidation)
	}
	if c.Params == nil {
		return fmt.Errorf("%w: TradeCommand.params must be set", ErrValidation)
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	return requireTime("TradeCommand", "created_at", c.CreatedAt)
}

// Accepted returns the CommandAccepted event recording this command's entry
// into the execution pipeline.
func (c TradeCommand) Accepted(at time.Time) CommandAccepted {
	return CommandAccepted{
		EventMeta: EventMeta{AccountID: c.AccountID, Timestamp: at},
		CommandID: c.CommandID,
		TradeID:   c.TradeID,
	}
}

// TradeAbort is a cancel instruction targeting a specific TradeCommand.
// Aborts are immutable.
type TradeAbort struct {
	CommandID string
	AccountID string
	Reason    string
	CreatedAt time.Time
}

// Validate checks construction-time invariants.
func (a TradeAbort) Validate() error {
	for field, v := range map[string]string{
		"command_id": a.CommandID,
		"account_id": a.AccountID,
		"reason":     a.Reason,
	} {
		if err := requireID("TradeAbort", field, v); err != nil {
			return err
		}
	}
	return requireTime("TradeAbort", "created_at", a.CreatedAt)
}
