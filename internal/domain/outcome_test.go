package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/praxishq/praxis/internal/domain"
)

func validOutcome() domain.TradeOutcome {
	avg := decimal.RequireFromString("101.4")
	return domain.TradeOutcome{
		CommandID:       "cmd-1",
		TradeID:         "trade-1",
		AccountID:       "acct-1",
		Status:          domain.TradeStatusFilled,
		TargetQty:       decimal.NewFromInt(10),
		FilledQty:       decimal.NewFromInt(10),
		AvgFillPrice:    &avg,
		SlicesCompleted: 1,
		SlicesTotal:     1,
		CreatedAt:       eventTS,
	}
}

func TestNewTradeOutcome(t *testing.T) {
	out, err := domain.NewTradeOutcome(validOutcome())
	require.NoError(t, err)
	require.True(t, out.IsTerminal())
	require.True(t, out.FillRatio().Equal(decimal.NewFromInt(1)))
}

func TestTradeOutcomeValidation(t *testing.T) {
	bad := validOutcome()
	bad.FilledQty = decimal.NewFromInt(11)
	_, err := domain.NewTradeOutcome(bad)
	require.ErrorIs(t, err, domain.ErrValidation)

	bad = validOutcome()
	bad.FilledQty = decimal.Zero
	_, err = domain.NewTradeOutcome(bad)
	require.ErrorIs(t, err, domain.ErrValidation) // avg set with zero filled

	bad = validOutcome()
	bad.FilledQty = decimal.Zero
	bad.AvgFillPrice = nil
	bad.Status = domain.TradeStatusCanceled
	bad.SlicesCompleted = 0
	_, err = domain.NewTradeOutcome(bad)
	require.NoError(t, err)

	bad = validOutcome()
	bad.SlicesCompleted = 2
	_, err = domain.NewTradeOutcome(bad)
	require.ErrorIs(t, err, domain.ErrValidation)

	bad = validOutcome()
	bad.SlicesTotal = 0
	_, err = domain.NewTradeOutcome(bad)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestTradeOutcomePartialFillRatio(t *testing.T) {
	avg := decimal.RequireFromString("100")
	out, err := domain.NewTradeOutcome(domain.TradeOutcome{
		CommandID:       "cmd-2",
		TradeID:         "trade-2",
		AccountID:       "acct-1",
		Status:          domain.TradeStatusCanceled,
		TargetQty:       decimal.NewFromInt(8),
		FilledQty:       decimal.NewFromInt(2),
		AvgFillPrice:    &avg,
		SlicesCompleted: 0,
		SlicesTotal:     1,
		CreatedAt:       eventTS,
	})
	require.NoError(t, err)
	require.True(t, out.FillRatio().Equal(decimal.RequireFromString("0.25")))
	require.True(t, out.IsTerminal())
}
