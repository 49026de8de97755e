package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradeOutcome is a point-in-time snapshot of a command's execution result
// reported back to the Manager layer. Both intermediate progress and the
// terminal record use this type; exactly one terminal outcome per command is
// enforced by the projection, not here.
type TradeOutcome struct {
	CommandID        string
	TradeID          string
	AccountID        string
	Status           TradeStatus
	TargetQty        decimal.Decimal
	FilledQty        decimal.Decimal
	AvgFillPrice     *decimal.Decimal
	SlicesCompleted  int
	SlicesTotal      int
	Reason           string
	MissedIterations int
	MissedReason     string
	CreatedAt        time.Time
}

// NewTradeOutcome validates and returns the outcome.
func NewTradeOutcome(o TradeOutcome) (TradeOutcome, error) {
	if err := o.Validate(); err != nil {
		return TradeOutcome{}, err
	}
	return o, nil
}

// Validate checks construction-time invariants.
func (o TradeOutcome) Validate() error {
	for field, v := range map[string]string{
		"command_id": o.CommandID,
		"trade_id":   o.TradeID,
		"account_id": o.AccountID,
	} {
		if err := requireID("TradeOutcome", field, v); err != nil {
			return err
		}
	}
	if err := requireTime("TradeOutcome", "created_at", o.CreatedAt); err != nil {
		return err
	}
	if !o.TargetQty.IsPositive() {
		return fmt.Errorf("%w: TradeOutcome.target_qty must be positive", ErrValidation)
	}
	if o.FilledQty.IsNegative() {
		return fmt.Errorf("%w: TradeOutcome.filled_qty must be non-negative", ErrValidation)
	}
	if o.FilledQty.GreaterThan(o.TargetQty) {
		return fmt.Errorf("%w: TradeOutcome.filled_qty cannot exceed target_qty", ErrValidation)
	}
	if o.AvgFillPrice != nil && !o.AvgFillPrice.IsPositive() {
		return fmt.Errorf("%w: TradeOutcome.avg_fill_price must be positive", ErrValidation)
	}
	if o.FilledQty.IsZero() && o.AvgFillPrice != nil {
		return fmt.Errorf("%w: TradeOutcome.avg_fill_price must be unset when filled_qty is zero", ErrValidation)
	}
	if o.SlicesCompleted < 0 {
		return fmt.Errorf("%w: TradeOutcome.slices_completed must be non-negative", ErrValidation)
	}
	if o.SlicesTotal <= 0 {
		return fmt.Errorf("%w: TradeOutcome.slices_total must be positive", ErrValidation)
	}
	if o.SlicesCompleted > o.SlicesTotal {
		return fmt.Errorf("%w: TradeOutcome.slices_completed cannot exceed slices_total", ErrValidation)
	}
	if o.MissedIterations < 0 {
		return fmt.Errorf("%w: TradeOutcome.missed_iterations must be non-negative", ErrValidation)
	}
	return nil
}

// IsTerminal reports whether the outcome is a terminal record.
func (o TradeOutcome) IsTerminal() bool { return o.Status.IsTerminal() }

// FillRatio returns filled_qty / target_qty.
func (o TradeOutcome) FillRatio() decimal.Decimal {
	return o.FilledQty.Div(o.TargetQty)
}
