package metrics

import (
	"context"

	"maplemetrics/core"
	"maplemetrics/pkg/number"
	"maplemetrics/service/graph"
)

// tickStakeLocker refresh the USD fields of the market's stake locker, if
// any. Returns the refreshed locker so the market tick can fold its balance
// and revenue into TVL and the revenue split.
func (s *Service) tickStakeLocker(ctx context.Context, market *core.Market, inputToken *core.Token, event *core.Event) (*core.StakeLocker, error) {
	if market.StakeLocker == "" || market.StakeLocker == core.ZeroAddress {
		return nil, nil
	}

	locker, err := s.graph.GetOrCreateStakeLocker(ctx, market.StakeLocker, graph.StakeLockerParams{
		Market: market.ID,
	})
	if err != nil {
		return nil, err
	}

	// synthetic refresh events carry no block number and always recompute
	if event.BlockNumber > 0 && locker.LastUpdatedBlock == event.BlockNumber {
		return locker, nil
	}

	stakeToken, err := s.graph.GetOrCreateToken(ctx, locker.StakeToken, graph.TokenParams{})
	if err != nil {
		return nil, err
	}
	stakePrice, _ := s.priceService.ResolvePriceUSD(ctx, stakeToken)

	locker.StakeTokenBalanceUSD = number.ParseUnits(locker.StakeTokenBalance, stakeToken.Decimals).Mul(stakePrice)
	locker.CumulativeLossesUSD = number.ParseUnits(locker.CumulativeLosses, stakeToken.Decimals).Mul(stakePrice)
	locker.RevenueUSD = number.ParseUnits(locker.CumulativeInterestInPoolInputTokens, inputToken.Decimals).
		Mul(market.InputTokenPriceUSD)

	locker.LastUpdatedBlock = event.BlockNumber
	if err := s.graph.StakeLockers.Save(ctx, locker); err != nil {
		return nil, err
	}

	return locker, nil
}
