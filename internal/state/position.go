package state

import (
	"github.com/shopspring/decimal"

	"github.com/praxishq/praxis/internal/domain"
)

// Position is the signed net position per (trade, account), with a
// volume-weighted average entry price. Like Order, its fields are private and
// only the projection mutates them.
type Position struct {
	accountID     string
	tradeID       string
	symbol        string
	qty           decimal.Decimal // signed: long positive, short negative
	avgEntryPrice decimal.Decimal
}

func newPosition(accountID, tradeID, symbol string) *Position {
	return &Position{
		accountID: accountID,
		tradeID:   tradeID,
		symbol:    symbol,
	}
}

func (p *Position) AccountID() string   { return p.accountID }
func (p *Position) TradeID() string     { return p.tradeID }
func (p *Position) Symbol() string      { return p.symbol }
func (p *Position) Qty() decimal.Decimal { return p.qty }

// AvgEntryPrice is the running VWAP across fills. It is meaningful only while
// the position is open; it reads zero once the position closes flat.
func (p *Position) AvgEntryPrice() decimal.Decimal { return p.avgEntryPrice }

// IsClosed reports whether the net quantity has returned to zero.
func (p *Position) IsClosed() bool { return p.qty.IsZero() }

// applyFill folds a fill into the signed quantity and recomputes the VWAP as
// (old_qty*old_avg + signed_qty*price) / new_qty. When the fill closes the
// position exactly to zero the average is cleared.
func (p *Position) applyFill(side domain.OrderSide, qty, price decimal.Decimal) {
	signed := qty
	if side == domain.OrderSideSell {
		signed = qty.Neg()
	}
	newQty := p.qty.Add(signed)
	if newQty.IsZero() {
		p.qty = decimal.Zero
		p.avgEntryPrice = decimal.Zero
		return
	}
	p.avgEntryPrice = p.qty.Mul(p.avgEntryPrice).Add(signed.Mul(price)).Div(newQty)
	p.qty = newQty
}
