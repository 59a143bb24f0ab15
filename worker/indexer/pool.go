package indexer

import (
	"context"

	"maplemetrics/core"
	"maplemetrics/service/graph"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// PoolStateFinalized is the only lifecycle state in which a pool accepts
// deposits and funds loans
const PoolStateFinalized = "Finalized"

func (w *Indexer) handlePoolCreated(ctx context.Context, event *core.Event) error {
	if _, err := w.graphz.GetOrCreatePoolFactory(ctx, event.Address, graph.PoolFactoryParams{
		Timestamp:   event.Timestamp,
		BlockNumber: event.BlockNumber,
	}); err != nil {
		return err
	}

	pool := event.ParamAddress("pool")
	stakeLocker := event.ParamAddress("stakeLocker")

	market, err := w.graphz.GetOrCreateMarket(ctx, pool, graph.MarketParams{
		Name:        event.Param("name"),
		PoolFactory: event.Address,
		Delegate:    event.ParamAddress("delegate"),
		StakeLocker: stakeLocker,
		InputToken:  event.ParamAddress("liquidityAsset"),
		// the pool contract is itself the LP token
		OutputToken: pool,
		Timestamp:   event.Timestamp,
		BlockNumber: event.BlockNumber,
	})
	if err != nil {
		return err
	}

	if stakeLocker != core.ZeroAddress {
		if _, err := w.graphz.GetOrCreateStakeLocker(ctx, stakeLocker, graph.StakeLockerParams{
			Market:      market.ID,
			StakeToken:  event.ParamAddress("stakeAsset"),
			BlockNumber: event.BlockNumber,
		}); err != nil {
			return err
		}
	}

	return w.metricz.MarketTick(ctx, market, event)
}

func (w *Indexer) handlePoolStateChanged(ctx context.Context, event *core.Event) error {
	market, err := w.graphz.GetOrCreateMarket(ctx, event.Address, graph.MarketParams{})
	if err != nil {
		return err
	}

	active := event.Param("state") == PoolStateFinalized
	market.IsActive = active
	market.CanBorrowFrom = active

	return w.metricz.MarketTick(ctx, market, event)
}

// handleDeposit pool token mint. The minted value is WAD pool tokens; the
// matching input token amount follows from the current exchange rate.
func (w *Indexer) handleDeposit(ctx context.Context, event *core.Event) error {
	market, err := w.graphz.GetOrCreateMarket(ctx, event.Address, graph.MarketParams{})
	if err != nil {
		return err
	}

	value := event.ParamAmount("value")
	amount := value.Mul(market.ExchangeRate)

	market.OutputTokenSupply = market.OutputTokenSupply.Add(value)
	market.InputTokenBalance = market.InputTokenBalance.Add(amount)
	market.CumulativeDeposit = market.CumulativeDeposit.Add(amount)

	if _, err := w.graphz.GetOrCreateAccountMarket(ctx, event.Sender, market); err != nil {
		return err
	}

	if err := w.createTransaction(ctx, event, market, core.TransactionTypeDeposit, amount); err != nil {
		return err
	}

	return w.metricz.MarketTick(ctx, market, event)
}

// handleWithdraw pool token burn. Losses attributed to the account are
// realized against the withdrawal.
func (w *Indexer) handleWithdraw(ctx context.Context, event *core.Event) error {
	market, err := w.graphz.GetOrCreateMarket(ctx, event.Address, graph.MarketParams{})
	if err != nil {
		return err
	}

	value := event.ParamAmount("value")
	losses := event.ParamAmount("losses")
	amount := value.Mul(market.ExchangeRate)

	market.OutputTokenSupply = market.OutputTokenSupply.Sub(value)
	market.InputTokenBalance = market.InputTokenBalance.Sub(amount)

	position, err := w.graphz.GetOrCreateAccountMarket(ctx, event.Sender, market)
	if err != nil {
		return err
	}

	if losses.IsPositive() {
		position.RecognizedLosses = position.RecognizedLosses.Add(losses)
		position.UnrecognizedLosses = position.UnrecognizedLosses.Sub(losses)
		if err := w.graphz.AccountMarkets.Save(ctx, position); err != nil {
			return err
		}
	}

	tx := w.buildTransaction(event, market, core.TransactionTypeWithdraw, amount)
	tx.Losses = losses
	if err := w.transactionStore.Create(ctx, tx); err != nil {
		return err
	}

	return w.metricz.MarketTick(ctx, market, event)
}

// handleFundsWithdrawn a supplier claimed earned interest
func (w *Indexer) handleFundsWithdrawn(ctx context.Context, event *core.Event) error {
	market, err := w.graphz.GetOrCreateMarket(ctx, event.Address, graph.MarketParams{})
	if err != nil {
		return err
	}

	market.SupplierRevenue = market.SupplierRevenue.Add(event.ParamAmount("value"))

	return w.metricz.MarketTick(ctx, market, event)
}

// handleLossesRecognized losses attributed to an account ahead of a
// withdrawal realizing them
func (w *Indexer) handleLossesRecognized(ctx context.Context, event *core.Event) error {
	market, err := w.graphz.GetOrCreateMarket(ctx, event.Address, graph.MarketParams{})
	if err != nil {
		return err
	}

	position, err := w.graphz.GetOrCreateAccountMarket(ctx, event.Sender, market)
	if err != nil {
		return err
	}

	losses := event.ParamAmount("lossesRecognized")
	position.UnrecognizedLosses = position.UnrecognizedLosses.Add(losses)
	if err := w.graphz.AccountMarkets.Save(ctx, position); err != nil {
		return err
	}

	logger.FromContext(ctx).WithField("account", event.Sender).
		Debugln("recognized losses", losses)

	return w.metricz.MarketTick(ctx, market, event)
}

func (w *Indexer) buildTransaction(event *core.Event, market *core.Market, kind core.TransactionType, amount decimal.Decimal) *core.Transaction {
	return &core.Transaction{
		ID:          event.LogID(),
		Type:        kind,
		TxHash:      event.TxHash,
		Account:     core.NormalizeAddress(event.Sender),
		Market:      market.ID,
		Amount:      amount,
		BlockNumber: event.BlockNumber,
		Timestamp:   event.Timestamp,
	}
}

func (w *Indexer) createTransaction(ctx context.Context, event *core.Event, market *core.Market, kind core.TransactionType, amount decimal.Decimal) error {
	return w.transactionStore.Create(ctx, w.buildTransaction(event, market, kind, amount))
}
