package graph

import (
	"context"
	"testing"

	"maplemetrics/core"
	"maplemetrics/store/mem"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *core.Config {
	return &core.Config{
		Protocol: core.ProtocolConfig{
			ID:          "0x6e6DaA5b02a27a7B7B4B2b9976357aC05B5314A7",
			Name:        "Maple Finance",
			Slug:        "maple-finance",
			Network:     "ETHEREUM",
			TreasuryFee: decimal.RequireFromString("0.5"),
		},
	}
}

func testService() *Service {
	return New(
		testConfig(),
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
}

func TestGetOrCreateProtocolSingleton(t *testing.T) {
	ctx := context.Background()
	s := testService()

	p1, err := s.GetOrCreateProtocol(ctx)
	require.Nil(t, err)
	assert.Equal(t, core.NormalizeAddress("0x6e6DaA5b02a27a7B7B4B2b9976357aC05B5314A7"), p1.ID)
	assert.Equal(t, "LENDING", p1.Type)

	p2, err := s.GetOrCreateProtocol(ctx)
	require.Nil(t, err)
	assert.Equal(t, p1.ID, p2.ID)
}

func TestGetOrCreateTokenDefaults(t *testing.T) {
	ctx := context.Background()
	s := testService()

	token, err := s.GetOrCreateToken(ctx, "0xAAA", TokenParams{})
	require.Nil(t, err)
	assert.Equal(t, int32(18), token.Decimals)
	assert.Equal(t, core.PriceSourceNone, token.LastPriceSource)
}

func TestGetOrCreateMarketGetWins(t *testing.T) {
	ctx := context.Background()
	s := testService()

	created, err := s.GetOrCreateMarket(ctx, "0xPool", MarketParams{
		Name:             "Maple Pool",
		InputToken:       "0xUSDC",
		InputTokenParams: TokenParams{Symbol: "USDC", Decimals: 6},
		OutputToken:      "0xPool",
		Timestamp:        1600000000,
		BlockNumber:      100,
	})
	require.Nil(t, err)
	assert.Equal(t, "Maple Pool", created.Name)

	// later invocations with different params never mutate the entity
	again, err := s.GetOrCreateMarket(ctx, "0xPool", MarketParams{Name: "Other"})
	require.Nil(t, err)
	assert.Equal(t, "Maple Pool", again.Name)
	assert.Equal(t, int64(100), again.CreatedBlockNumber)
}

func TestGetOrCreateMarketInitialExchangeRate(t *testing.T) {
	ctx := context.Background()
	s := testService()

	market, err := s.GetOrCreateMarket(ctx, "0xPool", MarketParams{
		InputToken:       "0xUSDC",
		InputTokenParams: TokenParams{Decimals: 6},
		OutputToken:      "0xPool",
	})
	require.Nil(t, err)

	// 10^6 / 10^18
	assert.True(t, market.ExchangeRate.Equal(decimal.New(1, -12)))
}

func TestGetOrCreateMarketSentinelDefaults(t *testing.T) {
	ctx := context.Background()
	s := testService()

	market, err := s.GetOrCreateMarket(ctx, "0xPool", MarketParams{})
	require.Nil(t, err)
	assert.Equal(t, core.UnprovidedName, market.Name)
	assert.Equal(t, core.ZeroAddress, market.InputToken)
	assert.Equal(t, core.ZeroAddress, market.DelegateAddress)
}

func TestGetOrCreateRewardScheduleLPSide(t *testing.T) {
	ctx := context.Background()
	s := testService()

	market, err := s.GetOrCreateMarket(ctx, "0xPool", MarketParams{
		InputToken:  "0xUSDC",
		OutputToken: "0xPool",
	})
	require.Nil(t, err)

	// staking the pool token itself attaches on the LP side
	schedule, err := s.GetOrCreateRewardSchedule(ctx, "0xRewards", RewardScheduleParams{
		StakeToken:  market.ID,
		RewardToken: "0xMPL",
		BlockNumber: 42,
	})
	require.Nil(t, err)
	assert.Equal(t, market.ID, schedule.Market)
	assert.Equal(t, core.NormalizeAddress("0xMPL"), schedule.RewardToken)
	assert.Equal(t, core.DefaultRewardsDurationSec, schedule.RewardDurationSec)

	saved, err := s.Markets.Find(ctx, market.ID)
	require.Nil(t, err)
	assert.Equal(t, core.NormalizeAddress("0xRewards"), saved.RewardScheduleLP)
	assert.True(t, saved.RewardTokens.Contains(core.NormalizeAddress("0xMPL")))
}

func TestGetOrCreateRewardScheduleStakeSide(t *testing.T) {
	ctx := context.Background()
	s := testService()

	market, err := s.GetOrCreateMarket(ctx, "0xPool", MarketParams{
		InputToken:  "0xUSDC",
		OutputToken: "0xPool",
		StakeLocker: "0xLocker",
	})
	require.Nil(t, err)

	_, err = s.GetOrCreateStakeLocker(ctx, "0xLocker", StakeLockerParams{
		Market:     market.ID,
		StakeToken: "0xBPT",
	})
	require.Nil(t, err)

	schedule, err := s.GetOrCreateRewardSchedule(ctx, "0xRewards", RewardScheduleParams{
		StakeToken:  "0xLocker",
		RewardToken: "0xMPL",
	})
	require.Nil(t, err)
	assert.Equal(t, market.ID, schedule.Market)

	saved, err := s.Markets.Find(ctx, market.ID)
	require.Nil(t, err)
	assert.Equal(t, core.NormalizeAddress("0xRewards"), saved.RewardScheduleStake)
}

func TestGetOrCreateAccountMarket(t *testing.T) {
	ctx := context.Background()
	s := testService()

	market, err := s.GetOrCreateMarket(ctx, "0xPool", MarketParams{})
	require.Nil(t, err)

	p1, err := s.GetOrCreateAccountMarket(ctx, "0xElla", market)
	require.Nil(t, err)
	assert.Equal(t, core.AccountMarketID("0xElla", market.ID), p1.ID)
	assert.True(t, p1.RecognizedLosses.IsZero())

	p1.RecognizedLosses = decimal.New(5, 0)
	require.Nil(t, s.AccountMarkets.Save(ctx, p1))

	p2, err := s.GetOrCreateAccountMarket(ctx, "0xElla", market)
	require.Nil(t, err)
	assert.True(t, p2.RecognizedLosses.Equal(decimal.New(5, 0)))
}
