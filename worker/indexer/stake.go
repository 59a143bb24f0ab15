package indexer

import (
	"context"

	"maplemetrics/core"
	"maplemetrics/service/graph"

	"github.com/shopspring/decimal"
)

func (w *Indexer) handleStake(ctx context.Context, event *core.Event) error {
	return w.applyStake(ctx, event, decimal.NewFromInt(1))
}

func (w *Indexer) handleUnstake(ctx context.Context, event *core.Event) error {
	return w.applyStake(ctx, event, decimal.NewFromInt(-1))
}

// applyStake move a stake locker's balances by the staked or unstaked value;
// emitted by the locker. The pool input token equivalent is carried on the
// event when the indexing host resolved it.
func (w *Indexer) applyStake(ctx context.Context, event *core.Event, sign decimal.Decimal) error {
	locker, err := w.graphz.GetOrCreateStakeLocker(ctx, event.Address, graph.StakeLockerParams{})
	if err != nil {
		return err
	}

	value := event.ParamAmount("value").Mul(sign)
	locker.StakeTokenBalance = locker.StakeTokenBalance.Add(value)

	if inPoolTokens := event.ParamAmount("valueInPoolInputTokens"); !inPoolTokens.IsZero() {
		locker.StakeTokenBalanceInPoolInputTokens = locker.StakeTokenBalanceInPoolInputTokens.
			Add(inPoolTokens.Mul(sign))
	}

	if err := w.graphz.StakeLockers.Save(ctx, locker); err != nil {
		return err
	}

	if locker.Market == core.ZeroAddress {
		return nil
	}

	return w.tickMarket(ctx, locker.Market, event)
}
