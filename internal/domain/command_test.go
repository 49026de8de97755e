package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/praxishq/praxis/internal/domain"
)

func validCommand() domain.TradeCommand {
	return domain.TradeCommand{
		TradeID:   "trade-1",
		AccountID: "acct-1",
		Symbol:    "BTC-USDT",
		Side:      domain.OrderSideBuy,
		Qty:       decimal.NewFromInt(10),
		OrderType: domain.OrderTypeLimit,
		Params:    domain.SingleShotParams{},
		Timeout:   30 * time.Second,
		CreatedAt: eventTS,
	}
}

func TestNewTradeCommandAssignsID(t *testing.T) {
	cmd, err := domain.NewTradeCommand(validCommand())
	require.NoError(t, err)
	require.NotEmpty(t, cmd.CommandID)

	other, err := domain.NewTradeCommand(validCommand())
	require.NoError(t, err)
	require.NotEqual(t, cmd.CommandID, other.CommandID)
}

func TestNewTradeCommandValidation(t *testing.T) {
	bad := validCommand()
	bad.Qty = decimal.Zero
	_, err := domain.NewTradeCommand(bad)
	require.ErrorIs(t, err, domain.ErrValidation)

	bad = validCommand()
	bad.Params = nil
	_, err = domain.NewTradeCommand(bad)
	require.ErrorIs(t, err, domain.ErrValidation)

	bad = validCommand()
	bad.Timeout = 0
	_, err = domain.NewTradeCommand(bad)
	require.ErrorIs(t, err, domain.ErrValidation)

	bad = validCommand()
	bad.CreatedAt = time.Time{}
	_, err = domain.NewTradeCommand(bad)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecutionModeDerivedFromParams(t *testing.T) {
	cmd, err := domain.NewTradeCommand(validCommand())
	require.NoError(t, err)
	require.Equal(t, domain.ExecutionSingleShot, cmd.ExecutionMode())
}

func TestSingleShotParamsValidate(t *testing.T) {
	price := decimal.RequireFromString("100.5")
	require.NoError(t, domain.SingleShotParams{Price: &price}.Validate())

	neg := decimal.NewFromInt(-1)
	err := domain.SingleShotParams{StopPrice: &neg}.Validate()
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCommandAccepted(t *testing.T) {
	cmd, err := domain.NewTradeCommand(validCommand())
	require.NoError(t, err)

	ev := cmd.Accepted(eventTS)
	require.NoError(t, ev.Validate())
	require.Equal(t, cmd.CommandID, ev.CommandID)
	require.Equal(t, cmd.TradeID, ev.TradeID)
	require.Equal(t, cmd.AccountID, ev.EventAccountID())
}

func TestTradeAbortValidate(t *testing.T) {
	abort := domain.TradeAbort{
		CommandID: "cmd-1",
		AccountID: "acct-1",
		Reason:    "operator abort",
		CreatedAt: eventTS,
	}
	require.NoError(t, abort.Validate())

	abort.Reason = ""
	require.ErrorIs(t, abort.Validate(), domain.ErrValidation)
}
