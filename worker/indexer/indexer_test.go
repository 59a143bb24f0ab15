package indexer

import (
	"context"
	"testing"

	"maplemetrics/core"
	"maplemetrics/service/graph"
	"maplemetrics/service/metrics"
	"maplemetrics/store/mem"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices struct {
	prices map[string]decimal.Decimal
}

func (s *stubPrices) ResolvePriceUSD(ctx context.Context, token *core.Token) (decimal.Decimal, core.PriceSourceTag) {
	if p, ok := s.prices[token.ID]; ok {
		return p, core.PriceSourceMapleLens
	}
	return decimal.Zero, core.PriceSourceNone
}

type fixture struct {
	indexer *Indexer
	graph   *graph.Service

	events       *mem.Events
	properties   *mem.Properties
	transactions *mem.Transactions
}

func newFixture() *fixture {
	cfg := &core.Config{
		Protocol: core.ProtocolConfig{
			ID:          "0xProtocol",
			Name:        "Maple Finance",
			Slug:        "maple-finance",
			Network:     "ETHEREUM",
			TreasuryFee: decimal.RequireFromString("0.5"),
		},
	}

	graphService := graph.New(
		cfg,
		mem.NewMarkets(),
		mem.NewTokens(),
		mem.NewRewardTokens(),
		mem.NewProtocols(),
		mem.NewRewardSchedules(),
		mem.NewStakeLockers(),
		mem.NewLoans(),
		mem.NewAccountMarkets(),
		mem.NewPoolFactories(),
	)

	prices := &stubPrices{prices: map[string]decimal.Decimal{
		core.NormalizeAddress("0xUSDC"): decimal.NewFromInt(1),
		core.NormalizeAddress("0xMPL"):  decimal.NewFromInt(2),
	}}

	metricsService := metrics.New(
		graphService,
		prices,
		mem.NewSnapshots(),
		mem.NewSnapshots(),
		mem.NewFinancials(),
	)

	events := mem.NewEvents()
	properties := mem.NewProperties()
	transactions := mem.NewTransactions()

	return &fixture{
		indexer:      New(properties, events, transactions, graphService, metricsService),
		graph:        graphService,
		events:       events,
		properties:   properties,
		transactions: transactions,
	}
}

func (f *fixture) feed(t *testing.T, kind core.EventKind, address string, block, ts int64, params core.Params) {
	t.Helper()

	require.Nil(t, f.events.Create(context.Background(), &core.Event{
		Kind:        kind,
		Address:     core.NormalizeAddress(address),
		TxHash:      "0xtx",
		LogIndex:    int64(f.events.NextID()),
		Sender:      core.NormalizeAddress("0xLender"),
		BlockNumber: block,
		Timestamp:   ts,
		Params:      params,
	}))
}

func TestIndexerEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.feed(t, core.EventPoolCreated, "0xFactory", 100, 1600000000, core.Params{
		"pool":           "0xPool",
		"delegate":       "0xDelegate",
		"stakeLocker":    "0xLocker",
		"liquidityAsset": "0xUSDC",
		"stakeAsset":     "0xBPT",
		"name":           "Orthogonal Trading",
	})
	f.feed(t, core.EventPoolStateChanged, "0xPool", 100, 1600000000, core.Params{
		"state": "Finalized",
	})
	// 1000 pool tokens at the initial exchange rate
	f.feed(t, core.EventDeposit, "0xPool", 101, 1600000060, core.Params{
		"value": decimal.New(1000, 18).String(),
	})
	f.feed(t, core.EventLoanFunded, "0xPool", 102, 1600000120, core.Params{
		"loan":         "0xLoan",
		"borrower":     "0xBorrower",
		"amountFunded": decimal.New(400, 6).String(),
	})
	f.feed(t, core.EventDrawdown, "0xLoan", 103, 1600000180, core.Params{
		"drawdownAmount": decimal.New(400, 6).String(),
	})

	require.Nil(t, f.indexer.run(ctx))

	checkpoint, err := f.properties.Get(ctx, checkpointKey)
	require.Nil(t, err)
	assert.Equal(t, int64(5), checkpoint)

	market, err := f.graph.Markets.Find(ctx, core.NormalizeAddress("0xPool"))
	require.Nil(t, err)
	require.NotNil(t, market)

	assert.Equal(t, "Orthogonal Trading", market.Name)
	assert.True(t, market.IsActive)
	assert.True(t, market.InputTokenBalance.Equal(decimal.New(1000, 6)), "got %s", market.InputTokenBalance)
	assert.True(t, market.TotalDepositBalanceUSD.Equal(decimal.NewFromInt(1000)))
	assert.True(t, market.TotalBorrowBalance.Equal(decimal.New(400, 6)))
	assert.True(t, market.CumulativeBorrowUSD.Equal(decimal.NewFromInt(400)))

	// 0.5 percent of the 400e6 drawdown
	assert.True(t, market.TreasuryRevenue.Equal(decimal.New(2, 6)), "got %s", market.TreasuryRevenue)
	assert.True(t, market.ProtocolSideRevenueUSD.Equal(decimal.NewFromInt(2)))

	loan, err := f.graph.Loans.Find(ctx, core.NormalizeAddress("0xLoan"))
	require.Nil(t, err)
	require.NotNil(t, loan)
	assert.True(t, loan.AmountFunded.Equal(decimal.New(400, 6)))
	assert.True(t, loan.DrawnDown.Equal(decimal.New(400, 6)))

	transactions, err := f.transactions.ListByMarket(ctx, market.ID, 10)
	require.Nil(t, err)
	assert.Equal(t, 2, len(transactions), "one deposit, one borrow")

	// the feed is drained
	err = f.indexer.run(ctx)
	assert.NotNil(t, err)
}

func TestIndexerRepayAndClaim(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.feed(t, core.EventPoolCreated, "0xFactory", 100, 1600000000, core.Params{
		"pool":           "0xPool",
		"stakeLocker":    "0xLocker",
		"liquidityAsset": "0xUSDC",
		"name":           "Maven 11",
	})
	f.feed(t, core.EventDeposit, "0xPool", 101, 1600000060, core.Params{
		"value": decimal.New(1000, 18).String(),
	})
	f.feed(t, core.EventLoanFunded, "0xPool", 102, 1600000120, core.Params{
		"loan":         "0xLoan",
		"amountFunded": decimal.New(500, 6).String(),
	})
	f.feed(t, core.EventPaymentMade, "0xLoan", 103, 1600000180, core.Params{
		"principalPaid": decimal.New(200, 6).String(),
		"interestPaid":  decimal.New(10, 6).String(),
	})
	f.feed(t, core.EventClaim, "0xPool", 104, 1600000240, core.Params{
		"loan":                "0xLoan",
		"principal":           decimal.New(200, 6).String(),
		"interest":            decimal.New(10, 6).String(),
		"poolDelegatePortion": decimal.New(1, 6).String(),
		"stakeLockerPortion":  decimal.New(1, 6).String(),
	})

	require.Nil(t, f.indexer.run(ctx))

	market, err := f.graph.Markets.Find(ctx, core.NormalizeAddress("0xPool"))
	require.Nil(t, err)
	require.NotNil(t, market)

	// the claim, not the payment, reduces the pool's outstanding borrow
	assert.True(t, market.TotalBorrowBalance.Equal(decimal.New(300, 6)), "got %s", market.TotalBorrowBalance)
	assert.True(t, market.PoolDelegateRevenue.Equal(decimal.New(1, 6)))

	loan, err := f.graph.Loans.Find(ctx, core.NormalizeAddress("0xLoan"))
	require.Nil(t, err)
	assert.True(t, loan.PrincipalPaid.Equal(decimal.New(200, 6)))
	assert.True(t, loan.InterestPaid.Equal(decimal.New(10, 6)))

	locker, err := f.graph.StakeLockers.Find(ctx, core.NormalizeAddress("0xLocker"))
	require.Nil(t, err)
	require.NotNil(t, locker)
	assert.True(t, locker.CumulativeInterestInPoolInputTokens.Equal(decimal.New(1, 6)))
}

func TestIndexerRewardsFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.feed(t, core.EventPoolCreated, "0xFactory", 100, 1600000000, core.Params{
		"pool":           "0xPool",
		"liquidityAsset": "0xUSDC",
		"name":           "Pool",
	})
	f.feed(t, core.EventRewardsCreated, "0xRewardsFactory", 101, 1600000060, core.Params{
		"rewards":      "0xRewards",
		"stakingToken": "0xPool",
		"rewardsToken": "0xMPL",
	})
	// 604800 tokens over the default week long period: one token per second
	f.feed(t, core.EventRewardAdded, "0xRewards", 102, 1600000120, core.Params{
		"reward": decimal.New(604800, 18).String(),
	})

	require.Nil(t, f.indexer.run(ctx))

	schedule, err := f.graph.RewardSchedules.Find(ctx, core.NormalizeAddress("0xRewards"))
	require.Nil(t, err)
	require.NotNil(t, schedule)

	assert.True(t, schedule.RewardRatePerSecond.Equal(decimal.New(1, 18)), "got %s", schedule.RewardRatePerSecond)
	assert.Equal(t, int64(1600000120+core.DefaultRewardsDurationSec), schedule.PeriodFinishedTimestamp)
	assert.True(t, schedule.EmissionAmountPerDay.Equal(decimal.New(86400, 18)))
	assert.True(t, schedule.EmissionUSDPerDay.Equal(decimal.NewFromInt(172800)))

	market, err := f.graph.Markets.Find(ctx, core.NormalizeAddress("0xPool"))
	require.Nil(t, err)
	require.Equal(t, 1, len(market.RewardTokenEmissionsUSD))
	assert.True(t, market.RewardTokenEmissionsUSD[0].Equal(decimal.NewFromInt(172800)))
}

func TestIndexerStakeAndDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.feed(t, core.EventPoolCreated, "0xFactory", 100, 1600000000, core.Params{
		"pool":           "0xPool",
		"stakeLocker":    "0xLocker",
		"liquidityAsset": "0xUSDC",
		"stakeAsset":     "0xBPT",
		"name":           "Pool",
	})
	f.feed(t, core.EventStake, "0xLocker", 101, 1600000060, core.Params{
		"value":                  decimal.New(50, 18).String(),
		"valueInPoolInputTokens": decimal.New(100, 6).String(),
	})
	f.feed(t, core.EventDeposit, "0xPool", 102, 1600000120, core.Params{
		"value": decimal.New(1000, 18).String(),
	})
	f.feed(t, core.EventLoanFunded, "0xPool", 103, 1600000180, core.Params{
		"loan":         "0xLoan",
		"amountFunded": decimal.New(500, 6).String(),
	})
	f.feed(t, core.EventDefaultSuffered, "0xPool", 104, 1600000240, core.Params{
		"loan":                            "0xLoan",
		"defaultSuffered":                 decimal.New(500, 6).String(),
		"bptsBurned":                      decimal.New(10, 18).String(),
		"bptsReturned":                    decimal.New(2, 18).String(),
		"liquidityAssetRecoveredFromBurn": decimal.New(20, 6).String(),
	})

	require.Nil(t, f.indexer.run(ctx))

	market, err := f.graph.Markets.Find(ctx, core.NormalizeAddress("0xPool"))
	require.Nil(t, err)
	require.NotNil(t, market)

	// staked balance counts toward TVL: 1000 deposited plus 100 staked
	assert.True(t, market.TotalValueLockedUSD.Equal(decimal.NewFromInt(1100)), "got %s", market.TotalValueLockedUSD)

	// pool absorbed what the stake burn did not recover
	assert.True(t, market.CumulativePoolDefault.Equal(decimal.New(480, 6)), "got %s", market.CumulativePoolDefault)
	assert.True(t, market.TotalBorrowBalance.IsZero())

	// liquidate aggregate counts the pool portion and the stake default
	assert.True(t, market.CumulativeLiquidateUSD.Equal(decimal.NewFromInt(500)), "got %s", market.CumulativeLiquidateUSD)

	locker, err := f.graph.StakeLockers.Find(ctx, core.NormalizeAddress("0xLocker"))
	require.Nil(t, err)
	assert.True(t, locker.StakeTokenBalance.Equal(decimal.New(50, 18)))
	assert.True(t, locker.CumulativeLosses.Equal(decimal.New(8, 18)))
	assert.True(t, locker.CumulativeStakeDefaultInPoolInputTokens.Equal(decimal.New(20, 6)))

	loan, err := f.graph.Loans.Find(ctx, core.NormalizeAddress("0xLoan"))
	require.Nil(t, err)
	assert.True(t, loan.DefaultSuffered.Equal(decimal.New(500, 6)))
}

func TestIndexerUnknownKindSkipped(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.feed(t, core.EventKind("SomethingElse"), "0xNowhere", 100, 1600000000, nil)

	require.Nil(t, f.indexer.run(ctx))

	checkpoint, err := f.properties.Get(ctx, checkpointKey)
	require.Nil(t, err)
	assert.Equal(t, int64(1), checkpoint)
}
