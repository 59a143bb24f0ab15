package indexer

import (
	"context"

	"maplemetrics/core"
	"maplemetrics/service/graph"

	"github.com/shopspring/decimal"
)

const percentDivisor = 100

// handleLoanFunded pool funded a loan; emitted by the pool, names the loan
func (w *Indexer) handleLoanFunded(ctx context.Context, event *core.Event) error {
	market, err := w.graphz.GetOrCreateMarket(ctx, event.Address, graph.MarketParams{})
	if err != nil {
		return err
	}

	amount := event.ParamAmount("amountFunded")
	loanAddress := event.ParamAddress("loan")

	loan, err := w.graphz.GetOrCreateLoan(ctx, loanAddress, graph.LoanParams{
		Market:      market.ID,
		Borrower:    event.ParamAddress("borrower"),
		Version:     core.LoanVersion(event.Param("version")),
		Timestamp:   event.Timestamp,
		BlockNumber: event.BlockNumber,
	})
	if err != nil {
		return err
	}

	loan.AmountFunded = loan.AmountFunded.Add(amount)
	if err := w.graphz.Loans.Save(ctx, loan); err != nil {
		return err
	}

	market.CumulativeBorrow = market.CumulativeBorrow.Add(amount)
	market.TotalBorrowBalance = market.TotalBorrowBalance.Add(amount)

	tx := w.buildTransaction(event, market, core.TransactionTypeBorrow, amount)
	tx.Loan = loan.ID
	tx.Account = loan.Borrower
	if err := w.transactionStore.Create(ctx, tx); err != nil {
		return err
	}

	return w.metricz.MarketTick(ctx, market, event)
}

// handleDrawdown borrower drew funded capital; emitted by the loan. V1 loan
// contracts take the treasury establishment fee at drawdown; later versions
// charge it elsewhere.
func (w *Indexer) handleDrawdown(ctx context.Context, event *core.Event) error {
	loan, market, err := w.loanMarket(ctx, event)
	if err != nil || market == nil {
		return err
	}

	amount := event.ParamAmount("drawdownAmount")
	loan.DrawnDown = loan.DrawnDown.Add(amount)
	if err := w.graphz.Loans.Save(ctx, loan); err != nil {
		return err
	}

	if loan.Version == core.LoanVersionV1 {
		protocol, err := w.graphz.GetOrCreateProtocol(ctx)
		if err != nil {
			return err
		}

		fee := amount.Mul(protocol.TreasuryFee).Div(decimal.NewFromInt(percentDivisor))
		market.TreasuryRevenue = market.TreasuryRevenue.Add(fee)
	}

	return w.metricz.MarketTick(ctx, market, event)
}

// handlePaymentMade borrower paid principal and interest; emitted by the
// loan. Only loan side counters move here; the pool's borrow balance moves
// when the pool claims.
func (w *Indexer) handlePaymentMade(ctx context.Context, event *core.Event) error {
	loan, market, err := w.loanMarket(ctx, event)
	if err != nil || market == nil {
		return err
	}

	principal := event.ParamAmount("principalPaid")
	interest := event.ParamAmount("interestPaid")

	loan.PrincipalPaid = loan.PrincipalPaid.Add(principal)
	loan.InterestPaid = loan.InterestPaid.Add(interest)
	if err := w.graphz.Loans.Save(ctx, loan); err != nil {
		return err
	}

	tx := w.buildTransaction(event, market, core.TransactionTypeRepay, principal.Add(interest))
	tx.Loan = loan.ID
	tx.Account = loan.Borrower
	if err := w.transactionStore.Create(ctx, tx); err != nil {
		return err
	}

	return w.metricz.MarketTick(ctx, market, event)
}

// handleClaim pool claimed repaid principal and interest from a loan and
// split the interest between delegate, stake locker and suppliers
func (w *Indexer) handleClaim(ctx context.Context, event *core.Event) error {
	market, err := w.graphz.GetOrCreateMarket(ctx, event.Address, graph.MarketParams{})
	if err != nil {
		return err
	}

	principal := event.ParamAmount("principal")
	market.TotalBorrowBalance = market.TotalBorrowBalance.Sub(principal)
	market.PoolDelegateRevenue = market.PoolDelegateRevenue.Add(event.ParamAmount("poolDelegatePortion"))

	stakeLockerPortion := event.ParamAmount("stakeLockerPortion")
	if stakeLockerPortion.IsPositive() && market.StakeLocker != core.ZeroAddress {
		locker, err := w.graphz.GetOrCreateStakeLocker(ctx, market.StakeLocker, graph.StakeLockerParams{
			Market: market.ID,
		})
		if err != nil {
			return err
		}
		locker.CumulativeInterestInPoolInputTokens = locker.CumulativeInterestInPoolInputTokens.Add(stakeLockerPortion)
		if err := w.graphz.StakeLockers.Save(ctx, locker); err != nil {
			return err
		}
	}

	tx := w.buildTransaction(event, market, core.TransactionTypeClaim, event.ParamAmount("interest"))
	tx.Loan = event.ParamAddress("loan")
	if err := w.transactionStore.Create(ctx, tx); err != nil {
		return err
	}

	return w.metricz.MarketTick(ctx, market, event)
}

// handleDefaultSuffered pool absorbed a loan default; emitted by the pool.
// The stake locker burns BPTs first; whatever the burn does not recover is
// socialized over the pool.
func (w *Indexer) handleDefaultSuffered(ctx context.Context, event *core.Event) error {
	market, err := w.graphz.GetOrCreateMarket(ctx, event.Address, graph.MarketParams{})
	if err != nil {
		return err
	}

	defaultSuffered := event.ParamAmount("defaultSuffered")
	bptsBurned := event.ParamAmount("bptsBurned")
	bptsReturned := event.ParamAmount("bptsReturned")
	recovered := event.ParamAmount("liquidityAssetRecoveredFromBurn")

	loan, err := w.graphz.GetOrCreateLoan(ctx, event.ParamAddress("loan"), graph.LoanParams{
		Market: market.ID,
	})
	if err != nil {
		return err
	}
	loan.DefaultSuffered = loan.DefaultSuffered.Add(defaultSuffered)
	if err := w.graphz.Loans.Save(ctx, loan); err != nil {
		return err
	}

	if market.StakeLocker != core.ZeroAddress {
		locker, err := w.graphz.GetOrCreateStakeLocker(ctx, market.StakeLocker, graph.StakeLockerParams{
			Market: market.ID,
		})
		if err != nil {
			return err
		}
		locker.CumulativeLosses = locker.CumulativeLosses.Add(bptsBurned.Sub(bptsReturned))
		locker.CumulativeLossesInPoolInputTokens = locker.CumulativeLossesInPoolInputTokens.Add(recovered)
		locker.CumulativeStakeDefaultInPoolInputTokens = locker.CumulativeStakeDefaultInPoolInputTokens.Add(recovered)
		if err := w.graphz.StakeLockers.Save(ctx, locker); err != nil {
			return err
		}
	}

	poolPortion := defaultSuffered.Sub(recovered)
	market.CumulativePoolDefault = market.CumulativePoolDefault.Add(poolPortion)
	market.TotalBorrowBalance = market.TotalBorrowBalance.Sub(defaultSuffered)

	tx := w.buildTransaction(event, market, core.TransactionTypeLiquidate, defaultSuffered)
	tx.Loan = loan.ID
	tx.Losses = defaultSuffered
	if err := w.transactionStore.Create(ctx, tx); err != nil {
		return err
	}

	return w.metricz.MarketTick(ctx, market, event)
}

// handleLiquidation loan collateral swapped for liquidity asset; emitted by
// the loan
func (w *Indexer) handleLiquidation(ctx context.Context, event *core.Event) error {
	_, market, err := w.loanMarket(ctx, event)
	if err != nil || market == nil {
		return err
	}

	market.CumulativeCollateralLiquidation = market.CumulativeCollateralLiquidation.
		Add(event.ParamAmount("liquidityAssetReturned"))

	return w.metricz.MarketTick(ctx, market, event)
}

// loanMarket resolve a loan emitted event to its loan and owning market.
// Returns a nil market when the loan was never attached to one.
func (w *Indexer) loanMarket(ctx context.Context, event *core.Event) (*core.Loan, *core.Market, error) {
	loan, err := w.graphz.GetOrCreateLoan(ctx, event.Address, graph.LoanParams{})
	if err != nil {
		return nil, nil, err
	}

	if loan.Market == core.ZeroAddress {
		return loan, nil, nil
	}

	market, err := w.graphz.Markets.Find(ctx, loan.Market)
	if err != nil {
		return nil, nil, err
	}
	return loan, market, nil
}
