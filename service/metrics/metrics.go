// Package metrics maintains derived financial metrics over the entity graph.
// Every mutating event handler must run MarketTick exactly once after
// updating raw counters: the tick refreshes prices, recomputes every USD
// field from its raw counterpart, rolls time bucketed snapshots and folds
// per-market deltas into the protocol singleton. The discipline is idempotent
// recomputation over incremental application, so re-running a tick on
// unchanged raw counters converges instead of double counting.
package metrics

import (
	"context"
	"sync"

	"maplemetrics/core"
	"maplemetrics/pkg/number"
	"maplemetrics/service/graph"

	"github.com/shopspring/decimal"
)

// Service metrics aggregator
type Service struct {
	graph        *graph.Service
	priceService core.IPriceService

	dailySnapshots  core.IMarketSnapshotStore
	hourlySnapshots core.IMarketSnapshotStore
	financials      core.IFinancialsStore

	// the indexer loop and the refresher cron both tick; the protocol fold
	// is a read-modify-write on a shared row, so ticks are serialized here
	mux sync.Mutex
}

// New new metrics aggregator
func New(
	graphService *graph.Service,
	priceService core.IPriceService,
	dailySnapshotStore core.IMarketSnapshotStore,
	hourlySnapshotStore core.IMarketSnapshotStore,
	financialsStore core.IFinancialsStore) *Service {

	return &Service{
		graph:           graphService,
		priceService:    priceService,
		dailySnapshots:  dailySnapshotStore,
		hourlySnapshots: hourlySnapshotStore,
		financials:      financialsStore,
	}
}

// marketCumulatives the USD fields folded into the protocol singleton
type marketCumulatives struct {
	totalValueLockedUSD    decimal.Decimal
	totalDepositBalanceUSD decimal.Decimal
	cumulativeDepositUSD   decimal.Decimal
	totalBorrowBalanceUSD  decimal.Decimal
	cumulativeBorrowUSD    decimal.Decimal
	cumulativeLiquidateUSD decimal.Decimal
	supplySideRevenueUSD   decimal.Decimal
	protocolSideRevenueUSD decimal.Decimal
	totalRevenueUSD        decimal.Decimal
}

func captureCumulatives(market *core.Market) marketCumulatives {
	return marketCumulatives{
		totalValueLockedUSD:    market.TotalValueLockedUSD,
		totalDepositBalanceUSD: market.TotalDepositBalanceUSD,
		cumulativeDepositUSD:   market.CumulativeDepositUSD,
		totalBorrowBalanceUSD:  market.TotalBorrowBalanceUSD,
		cumulativeBorrowUSD:    market.CumulativeBorrowUSD,
		cumulativeLiquidateUSD: market.CumulativeLiquidateUSD,
		supplySideRevenueUSD:   market.SupplySideRevenueUSD,
		protocolSideRevenueUSD: market.ProtocolSideRevenueUSD,
		totalRevenueUSD:        market.TotalRevenueUSD,
	}
}

// MarketTick recompute a market's derived fields after a raw counter
// mutation and propagate the change upward
func (s *Service) MarketTick(ctx context.Context, market *core.Market, event *core.Event) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	inputToken, err := s.graph.GetOrCreateToken(ctx, market.InputToken, graph.TokenParams{})
	if err != nil {
		return err
	}
	outputToken, err := s.graph.GetOrCreateToken(ctx, market.OutputToken, graph.TokenParams{})
	if err != nil {
		return err
	}

	market.InputTokenPriceUSD, _ = s.priceService.ResolvePriceUSD(ctx, inputToken)

	// zero supply keeps the previous exchange rate instead of dividing by it
	if market.OutputTokenSupply.IsPositive() {
		market.ExchangeRate = market.InputTokenBalance.Div(market.OutputTokenSupply)
	}

	// a non-positive exchange rate would make the output price a division
	// artifact; force zero instead
	if market.ExchangeRate.IsPositive() {
		market.OutputTokenPriceUSD = market.InputTokenPriceUSD.
			Div(number.Pow10(inputToken.Decimals)).
			Mul(market.ExchangeRate).
			Mul(number.Pow10(outputToken.Decimals))
	} else {
		market.OutputTokenPriceUSD = decimal.Zero
	}

	lpSchedule, err := s.tickSchedule(ctx, market.RewardScheduleLP, event)
	if err != nil {
		return err
	}
	stakeSchedule, err := s.tickSchedule(ctx, market.RewardScheduleStake, event)
	if err != nil {
		return err
	}

	locker, err := s.tickStakeLocker(ctx, market, inputToken, event)
	if err != nil {
		return err
	}

	// capture pre-recomputation cumulatives for the protocol fold below
	old := captureCumulatives(market)

	stakeBalance := decimal.Zero
	stakeDefault := decimal.Zero
	lockerRevenueUSD := decimal.Zero
	if locker != nil {
		stakeBalance = locker.StakeTokenBalanceInPoolInputTokens
		stakeDefault = locker.CumulativeStakeDefaultInPoolInputTokens
		lockerRevenueUSD = locker.RevenueUSD
	}

	inUSD := func(raw decimal.Decimal) decimal.Decimal {
		return number.ParseUnits(raw, inputToken.Decimals).Mul(market.InputTokenPriceUSD)
	}

	market.TotalValueLockedUSD = inUSD(market.InputTokenBalance.Add(stakeBalance))
	market.TotalDepositBalanceUSD = inUSD(market.InputTokenBalance)
	market.CumulativeDepositUSD = inUSD(market.CumulativeDeposit)
	market.TotalBorrowBalanceUSD = inUSD(market.TotalBorrowBalance)
	market.CumulativeBorrowUSD = inUSD(market.CumulativeBorrow)

	cumulativeLiquidate := market.CumulativePoolDefault.
		Add(market.CumulativeCollateralLiquidation).
		Add(stakeDefault)
	market.CumulativeLiquidateUSD = inUSD(cumulativeLiquidate)

	market.PoolDelegateRevenueUSD = inUSD(market.PoolDelegateRevenue)
	market.TreasuryRevenueUSD = inUSD(market.TreasuryRevenue)
	market.SupplierRevenueUSD = inUSD(market.SupplierRevenue)

	market.SupplySideRevenueUSD = market.SupplierRevenueUSD.
		Add(market.PoolDelegateRevenueUSD).
		Add(lockerRevenueUSD)
	market.ProtocolSideRevenueUSD = market.TreasuryRevenueUSD
	market.TotalRevenueUSD = market.ProtocolSideRevenueUSD.Add(market.SupplySideRevenueUSD)

	s.sumRewardEmissions(market, lpSchedule, stakeSchedule)

	if err := s.graph.Markets.Save(ctx, market); err != nil {
		return err
	}

	// snapshots must see the recomputed cumulatives
	if err := s.updateSnapshot(ctx, s.dailySnapshots, market, event, core.SecondsPerDay); err != nil {
		return err
	}
	if err := s.updateSnapshot(ctx, s.hourlySnapshots, market, event, core.SecondsPerHour); err != nil {
		return err
	}

	return s.foldProtocol(ctx, market, old, event)
}

func (s *Service) tickSchedule(ctx context.Context, scheduleID string, event *core.Event) (*core.RewardSchedule, error) {
	if scheduleID == "" || scheduleID == core.ZeroAddress {
		return nil, nil
	}

	schedule, err := s.graph.GetOrCreateRewardSchedule(ctx, scheduleID, graph.RewardScheduleParams{})
	if err != nil {
		return nil, err
	}

	if err := s.RewardTick(ctx, schedule, event); err != nil {
		return nil, err
	}

	return schedule, nil
}

// sumRewardEmissions rebuild the emission arrays parallel to RewardTokens.
// The same reward token may be emitted by both schedules at once, so
// contributions accumulate per token instead of overwriting.
func (s *Service) sumRewardEmissions(market *core.Market, lpSchedule, stakeSchedule *core.RewardSchedule) {
	amounts := make(core.Decimals, 0, len(market.RewardTokens))
	usds := make(core.Decimals, 0, len(market.RewardTokens))

	for _, rewardToken := range market.RewardTokens {
		amount := decimal.Zero
		usd := decimal.Zero

		if lpSchedule != nil && lpSchedule.RewardToken == rewardToken {
			amount = amount.Add(lpSchedule.EmissionAmountPerDay)
			usd = usd.Add(lpSchedule.EmissionUSDPerDay)
		}
		if stakeSchedule != nil && stakeSchedule.RewardToken == rewardToken {
			amount = amount.Add(stakeSchedule.EmissionAmountPerDay)
			usd = usd.Add(stakeSchedule.EmissionUSDPerDay)
		}

		amounts = append(amounts, amount)
		usds = append(usds, usd)
	}

	market.RewardTokenEmissionsAmount = amounts
	market.RewardTokenEmissionsUSD = usds
}

// foldProtocol apply this tick's per-field market delta to the protocol
// singleton, exactly once per tick
func (s *Service) foldProtocol(ctx context.Context, market *core.Market, old marketCumulatives, event *core.Event) error {
	protocol, err := s.graph.GetOrCreateProtocol(ctx)
	if err != nil {
		return err
	}

	protocol.TotalValueLockedUSD = protocol.TotalValueLockedUSD.
		Add(market.TotalValueLockedUSD.Sub(old.totalValueLockedUSD))
	protocol.TotalDepositBalanceUSD = protocol.TotalDepositBalanceUSD.
		Add(market.TotalDepositBalanceUSD.Sub(old.totalDepositBalanceUSD))
	protocol.CumulativeDepositUSD = protocol.CumulativeDepositUSD.
		Add(market.CumulativeDepositUSD.Sub(old.cumulativeDepositUSD))
	protocol.TotalBorrowBalanceUSD = protocol.TotalBorrowBalanceUSD.
		Add(market.TotalBorrowBalanceUSD.Sub(old.totalBorrowBalanceUSD))
	protocol.CumulativeBorrowUSD = protocol.CumulativeBorrowUSD.
		Add(market.CumulativeBorrowUSD.Sub(old.cumulativeBorrowUSD))
	protocol.CumulativeLiquidateUSD = protocol.CumulativeLiquidateUSD.
		Add(market.CumulativeLiquidateUSD.Sub(old.cumulativeLiquidateUSD))
	protocol.CumulativeSupplySideRevenueUSD = protocol.CumulativeSupplySideRevenueUSD.
		Add(market.SupplySideRevenueUSD.Sub(old.supplySideRevenueUSD))
	protocol.CumulativeProtocolSideRevenueUSD = protocol.CumulativeProtocolSideRevenueUSD.
		Add(market.ProtocolSideRevenueUSD.Sub(old.protocolSideRevenueUSD))
	protocol.CumulativeTotalRevenueUSD = protocol.CumulativeTotalRevenueUSD.
		Add(market.TotalRevenueUSD.Sub(old.totalRevenueUSD))

	if err := s.graph.Protocols.Save(ctx, protocol); err != nil {
		return err
	}

	return s.updateFinancials(ctx, protocol, event)
}
