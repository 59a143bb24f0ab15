package metrics

import (
	"context"
	"sync"
	"testing"

	"maplemetrics/core"
	"maplemetrics/service/graph"
	"maplemetrics/store/mem"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPrices fixed price table keyed by token id
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
	graph   *graph.Service
	metrics *Service
	prices  *stubPrices

	daily      *mem.Snapshots
	hourly     *mem.Snapshots
	financials *mem.Financials
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

	prices := &stubPrices{prices: map[string]decimal.Decimal{}}
	daily := mem.NewSnapshots()
	hourly := mem.NewSnapshots()
	financials := mem.NewFinancials()

	return &fixture{
		graph:      graphService,
		metrics:    New(graphService, prices, daily, hourly, financials),
		prices:     prices,
		daily:      daily,
		hourly:     hourly,
		financials: financials,
	}
}

func (f *fixture) setPrice(token, price string) {
	f.prices.prices[core.NormalizeAddress(token)] = decimal.RequireFromString(price)
}

func (f *fixture) newUSDCMarket(t *testing.T, pool string) *core.Market {
	t.Helper()

	market, err := f.graph.GetOrCreateMarket(context.Background(), pool, graph.MarketParams{
		Name:             "Maple Pool",
		InputToken:       "0xUSDC",
		InputTokenParams: graph.TokenParams{Symbol: "USDC", Decimals: 6},
		OutputToken:      pool,
		Timestamp:        1600000000,
		BlockNumber:      100,
	})
	require.Nil(t, err)
	return market
}

// deposit mutate raw counters the way the deposit handler does
func deposit(market *core.Market, poolTokens int64) {
	value := decimal.New(poolTokens, 18)
	amount := value.Mul(market.ExchangeRate)
	market.OutputTokenSupply = market.OutputTokenSupply.Add(value)
	market.InputTokenBalance = market.InputTokenBalance.Add(amount)
	market.CumulativeDeposit = market.CumulativeDeposit.Add(amount)
}

func at(block, ts int64) *core.Event {
	return &core.Event{BlockNumber: block, Timestamp: ts}
}

func TestMarketTickDepositUSD(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xUSDC", "1.00")

	market := f.newUSDCMarket(t, "0xPool")
	deposit(market, 100)

	require.Nil(t, f.metrics.MarketTick(ctx, market, at(101, 1600000100)))

	assert.True(t, market.TotalDepositBalanceUSD.Equal(decimal.NewFromInt(100)),
		"100 USDC at 1.00 is 100 USD, got %s", market.TotalDepositBalanceUSD)
	assert.True(t, market.CumulativeDepositUSD.Equal(decimal.NewFromInt(100)))
	assert.True(t, market.TotalValueLockedUSD.Equal(decimal.NewFromInt(100)))

	// a price correction retroactively rescales every USD field
	f.setPrice("0xUSDC", "1.50")
	require.Nil(t, f.metrics.MarketTick(ctx, market, at(102, 1600000200)))

	assert.True(t, market.TotalDepositBalanceUSD.Equal(decimal.NewFromInt(150)))
	assert.True(t, market.CumulativeDepositUSD.Equal(decimal.NewFromInt(150)))

	// the protocol fold tracks the latest recomputation, not the sum of ticks
	protocol, err := f.graph.GetOrCreateProtocol(ctx)
	require.Nil(t, err)
	assert.True(t, protocol.TotalDepositBalanceUSD.Equal(decimal.NewFromInt(150)),
		"expected 150, got %s", protocol.TotalDepositBalanceUSD)
}

func TestMarketTickZeroSupplyKeepsExchangeRate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xUSDC", "1.00")

	market := f.newUSDCMarket(t, "0xPool")
	initialRate := market.ExchangeRate

	require.Nil(t, f.metrics.MarketTick(ctx, market, at(101, 1600000100)))
	assert.True(t, market.ExchangeRate.Equal(initialRate))

	// initial rate prices one WAD pool token at one input token
	assert.True(t, market.OutputTokenPriceUSD.Equal(decimal.NewFromInt(1)),
		"got %s", market.OutputTokenPriceUSD)
}

func TestMarketTickExchangeRateFollowsBalances(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xUSDC", "1.00")

	market := f.newUSDCMarket(t, "0xPool")
	deposit(market, 100)

	// interest accrual moves the balance without minting
	market.InputTokenBalance = market.InputTokenBalance.Add(decimal.New(50, 6))

	require.Nil(t, f.metrics.MarketTick(ctx, market, at(101, 1600000100)))

	// 150e6 input / 100e18 output
	assert.True(t, market.ExchangeRate.Equal(decimal.RequireFromString("1.5e-12")),
		"got %s", market.ExchangeRate)
	assert.True(t, market.OutputTokenPriceUSD.Equal(decimal.RequireFromString("1.5")))
}

func TestProtocolFoldMatchesResummation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xUSDC", "1.00")
	f.setPrice("0xDAI", "0.99")

	m1 := f.newUSDCMarket(t, "0xPoolA")

	m2, err := f.graph.GetOrCreateMarket(ctx, "0xPoolB", graph.MarketParams{
		InputToken:       "0xDAI",
		InputTokenParams: graph.TokenParams{Symbol: "DAI", Decimals: 18},
		OutputToken:      "0xPoolB",
		Timestamp:        1600000000,
		BlockNumber:      100,
	})
	require.Nil(t, err)

	block, ts := int64(101), int64(1600000100)
	amounts := []int64{100, 30, 250, 7, 61}
	for i, amount := range amounts {
		market := m1
		if i%2 == 1 {
			market = m2
		}
		deposit(market, amount)
		market.TotalBorrowBalance = market.TotalBorrowBalance.Add(decimal.New(amount/2, 6))
		market.CumulativeBorrow = market.CumulativeBorrow.Add(decimal.New(amount/2, 6))

		require.Nil(t, f.metrics.MarketTick(ctx, market, at(block, ts)))
		block++
		ts += 60
	}

	protocol, err := f.graph.GetOrCreateProtocol(ctx)
	require.Nil(t, err)

	markets, err := f.graph.Markets.All(ctx)
	require.Nil(t, err)

	sumTVL := decimal.Zero
	sumDeposit := decimal.Zero
	sumCumulativeDeposit := decimal.Zero
	sumBorrow := decimal.Zero
	sumCumulativeBorrow := decimal.Zero
	for _, m := range markets {
		sumTVL = sumTVL.Add(m.TotalValueLockedUSD)
		sumDeposit = sumDeposit.Add(m.TotalDepositBalanceUSD)
		sumCumulativeDeposit = sumCumulativeDeposit.Add(m.CumulativeDepositUSD)
		sumBorrow = sumBorrow.Add(m.TotalBorrowBalanceUSD)
		sumCumulativeBorrow = sumCumulativeBorrow.Add(m.CumulativeBorrowUSD)
	}

	assert.True(t, protocol.TotalValueLockedUSD.Equal(sumTVL), "tvl fold %s vs sum %s", protocol.TotalValueLockedUSD, sumTVL)
	assert.True(t, protocol.TotalDepositBalanceUSD.Equal(sumDeposit))
	assert.True(t, protocol.CumulativeDepositUSD.Equal(sumCumulativeDeposit))
	assert.True(t, protocol.TotalBorrowBalanceUSD.Equal(sumBorrow))
	assert.True(t, protocol.CumulativeBorrowUSD.Equal(sumCumulativeBorrow))
}

func TestSnapshotBaselineAndWindowedAverage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xUSDC", "1.00")

	market := f.newUSDCMarket(t, "0xPool")
	deposit(market, 100)

	ts := int64(1600000100)
	require.Nil(t, f.metrics.MarketTick(ctx, market, at(101, ts)))

	bucket := ts / core.SecondsPerDay
	snapshot, err := f.daily.Find(ctx, core.SnapshotID(market.ID, bucket))
	require.Nil(t, err)
	require.NotNil(t, snapshot)

	// the creating tick sets the baseline, so its own delta is zero
	assert.Equal(t, int64(1), snapshot.TxCount)
	assert.True(t, snapshot.PeriodDepositUSD.IsZero())
	assert.True(t, snapshot.TotalValueLockedUSD.Equal(decimal.NewFromInt(100)))

	// second tick in the same bucket
	deposit(market, 100)
	require.Nil(t, f.metrics.MarketTick(ctx, market, at(102, ts+60)))

	snapshot, err = f.daily.Find(ctx, core.SnapshotID(market.ID, bucket))
	require.Nil(t, err)
	assert.Equal(t, int64(2), snapshot.TxCount)
	assert.True(t, snapshot.PeriodDepositUSD.Equal(decimal.NewFromInt(100)),
		"period delta should be the second deposit only, got %s", snapshot.PeriodDepositUSD)
	assert.True(t, snapshot.TotalValueLockedUSD.Equal(decimal.NewFromInt(150)),
		"windowed average of 100 and 200, got %s", snapshot.TotalValueLockedUSD)

	// a tick in the next bucket opens a fresh snapshot with fresh baselines
	nextTs := (bucket + 1) * core.SecondsPerDay
	deposit(market, 50)
	require.Nil(t, f.metrics.MarketTick(ctx, market, at(103, nextTs)))

	next, err := f.daily.Find(ctx, core.SnapshotID(market.ID, bucket+1))
	require.Nil(t, err)
	require.NotNil(t, next)
	assert.Equal(t, int64(1), next.TxCount)
	assert.True(t, next.PeriodDepositUSD.IsZero())

	// the old bucket is left as the last tick wrote it
	old, err := f.daily.Find(ctx, core.SnapshotID(market.ID, bucket))
	require.Nil(t, err)
	assert.Equal(t, int64(2), old.TxCount)
}

func TestFinancialsDailySnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xUSDC", "1.00")

	market := f.newUSDCMarket(t, "0xPool")
	deposit(market, 100)

	ts := int64(1600000100)
	require.Nil(t, f.metrics.MarketTick(ctx, market, at(101, ts)))

	protocol, err := f.graph.GetOrCreateProtocol(ctx)
	require.Nil(t, err)

	bucket := ts / core.SecondsPerDay
	snapshot, err := f.financials.Find(ctx, core.SnapshotID(protocol.ID, bucket))
	require.Nil(t, err)
	require.NotNil(t, snapshot)

	// financials copy the protocol cumulatives without averaging
	assert.True(t, snapshot.TotalValueLockedUSD.Equal(protocol.TotalValueLockedUSD))
	assert.True(t, snapshot.CumulativeDepositUSD.Equal(protocol.CumulativeDepositUSD))
	assert.Equal(t, int64(1), snapshot.TxCount)
}

func TestRewardTickEmission(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xMPL", "2.00")

	mpl := core.NormalizeAddress("0xMPL")
	schedule := &core.RewardSchedule{
		ID:                      core.NormalizeAddress("0xRewards"),
		RewardToken:             mpl,
		RewardRatePerSecond:     decimal.New(1, 18), // one token per second
		RewardDurationSec:       core.DefaultRewardsDurationSec,
		PeriodFinishedTimestamp: 1600604800,
	}
	require.Nil(t, f.graph.RewardSchedules.Save(ctx, schedule))

	// inside the reward period: rate times a day
	require.Nil(t, f.metrics.RewardTick(ctx, schedule, at(200, 1600000000)))
	assert.True(t, schedule.EmissionAmountPerDay.Equal(decimal.New(86400, 18)),
		"got %s", schedule.EmissionAmountPerDay)
	assert.True(t, schedule.EmissionUSDPerDay.Equal(decimal.NewFromInt(172800)),
		"86400 tokens at 2.00, got %s", schedule.EmissionUSDPerDay)

	// same block is a no-op even if inputs changed
	schedule.RewardRatePerSecond = decimal.New(2, 18)
	require.Nil(t, f.metrics.RewardTick(ctx, schedule, at(200, 1600000060)))
	assert.True(t, schedule.EmissionAmountPerDay.Equal(decimal.New(86400, 18)))

	// a later block past the period end zeroes the emission
	require.Nil(t, f.metrics.RewardTick(ctx, schedule, at(201, 1600604801)))
	assert.True(t, schedule.EmissionAmountPerDay.IsZero())
	assert.True(t, schedule.EmissionUSDPerDay.IsZero())
}

func TestRewardTickSyntheticEventsAlwaysRecompute(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xMPL", "2.00")

	schedule := &core.RewardSchedule{
		ID:                      core.NormalizeAddress("0xRewards"),
		RewardToken:             core.NormalizeAddress("0xMPL"),
		RewardRatePerSecond:     decimal.New(1, 18),
		RewardDurationSec:       core.DefaultRewardsDurationSec,
		PeriodFinishedTimestamp: 1600604800,
		LastUpdatedBlock:        150,
	}
	require.Nil(t, f.graph.RewardSchedules.Save(ctx, schedule))

	// a refresh pass carries no block number; inside the period it computes
	// the running emission
	require.Nil(t, f.metrics.RewardTick(ctx, schedule, &core.Event{Timestamp: 1600000000}))
	assert.True(t, schedule.EmissionAmountPerDay.Equal(decimal.New(86400, 18)))

	// a second refresh pass after the period expired must not be swallowed
	// by the per-block guard; the emission zeroes out on a quiet market
	require.Nil(t, f.metrics.RewardTick(ctx, schedule, &core.Event{Timestamp: 1600604801}))
	assert.True(t, schedule.EmissionAmountPerDay.IsZero(),
		"expired period should zero the emission, got %s", schedule.EmissionAmountPerDay)
	assert.True(t, schedule.EmissionUSDPerDay.IsZero())
}

func TestConcurrentTicksFoldExactlyOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xUSDC", "1.00")
	f.setPrice("0xDAI", "0.99")

	m1 := f.newUSDCMarket(t, "0xPoolA")
	m2, err := f.graph.GetOrCreateMarket(ctx, "0xPoolB", graph.MarketParams{
		InputToken:       "0xDAI",
		InputTokenParams: graph.TokenParams{Symbol: "DAI", Decimals: 18},
		OutputToken:      "0xPoolB",
		Timestamp:        1600000000,
		BlockNumber:      100,
	})
	require.Nil(t, err)

	// the worker command runs the event consumer and the periodic refresher
	// side by side; both paths tick into the shared protocol row
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		block, ts := int64(101), int64(1600000100)
		for i := int64(1); i <= 20; i++ {
			deposit(m1, i)
			require.Nil(t, f.metrics.MarketTick(ctx, m1, at(block, ts)))
			block++
			ts += 60
		}
	}()

	go func() {
		defer wg.Done()
		ts := int64(1600000100)
		for i := int64(1); i <= 20; i++ {
			deposit(m2, i)
			require.Nil(t, f.metrics.MarketTick(ctx, m2, &core.Event{Timestamp: ts}))
			ts += 60
		}
	}()

	wg.Wait()

	protocol, err := f.graph.GetOrCreateProtocol(ctx)
	require.Nil(t, err)

	markets, err := f.graph.Markets.All(ctx)
	require.Nil(t, err)

	sumTVL := decimal.Zero
	sumDeposit := decimal.Zero
	sumCumulativeDeposit := decimal.Zero
	for _, m := range markets {
		sumTVL = sumTVL.Add(m.TotalValueLockedUSD)
		sumDeposit = sumDeposit.Add(m.TotalDepositBalanceUSD)
		sumCumulativeDeposit = sumCumulativeDeposit.Add(m.CumulativeDepositUSD)
	}

	assert.True(t, protocol.TotalValueLockedUSD.Equal(sumTVL),
		"tvl fold %s vs sum %s", protocol.TotalValueLockedUSD, sumTVL)
	assert.True(t, protocol.TotalDepositBalanceUSD.Equal(sumDeposit))
	assert.True(t, protocol.CumulativeDepositUSD.Equal(sumCumulativeDeposit))
}

func TestMarketTickEmissionArrays(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPrice("0xUSDC", "1.00")
	f.setPrice("0xMPL", "2.00")

	market := f.newUSDCMarket(t, "0xPool")

	schedule, err := f.graph.GetOrCreateRewardSchedule(ctx, "0xRewards", graph.RewardScheduleParams{
		StakeToken:  market.ID,
		RewardToken: "0xMPL",
		BlockNumber: 100,
	})
	require.Nil(t, err)

	schedule.RewardRatePerSecond = decimal.New(1, 18)
	schedule.PeriodFinishedTimestamp = 1700000000
	schedule.LastUpdatedBlock = 0
	require.Nil(t, f.graph.RewardSchedules.Save(ctx, schedule))

	market, err = f.graph.Markets.Find(ctx, market.ID)
	require.Nil(t, err)

	require.Nil(t, f.metrics.MarketTick(ctx, market, at(101, 1600000100)))

	require.Equal(t, 1, len(market.RewardTokenEmissionsAmount))
	assert.True(t, market.RewardTokenEmissionsAmount[0].Equal(decimal.New(86400, 18)))
	require.Equal(t, 1, len(market.RewardTokenEmissionsUSD))
	assert.True(t, market.RewardTokenEmissionsUSD[0].Equal(decimal.NewFromInt(172800)))
}
