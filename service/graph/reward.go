package graph

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// RewardScheduleParams optional reward schedule creation parameters
type RewardScheduleParams struct {
	StakeToken  string
	RewardToken string
	BlockNumber int64
}

// GetOrCreateRewardSchedule reward distributor by address. On creation the
// schedule is attached to its market: a stake token matching a market id is
// the LP side distributor, otherwise the stake token is a stake locker and
// the schedule attaches to the locker's market on the stake side. The reward
// token is appended to the market's reward token list exactly once.
func (s *Service) GetOrCreateRewardSchedule(ctx context.Context, address string, params RewardScheduleParams) (*core.RewardSchedule, error) {
	id := core.NormalizeAddress(address)
	schedule, err := s.RewardSchedules.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule != nil {
		return schedule, nil
	}

	log := logger.FromContext(ctx).WithField("reward_schedule", id)

	stakeToken := core.NormalizeAddress(orZeroAddress(params.StakeToken))
	rewardToken, err := s.GetOrCreateRewardToken(ctx, orZeroAddress(params.RewardToken))
	if err != nil {
		return nil, err
	}
	if _, err := s.GetOrCreateToken(ctx, stakeToken, TokenParams{}); err != nil {
		return nil, err
	}

	// staking pool tokens -> LP side; staking a locker's tokens -> stake side
	market, err := s.Markets.Find(ctx, stakeToken)
	if err != nil {
		return nil, err
	}

	if market != nil {
		market.RewardScheduleLP = id
	} else {
		locker, err := s.GetOrCreateStakeLocker(ctx, stakeToken, StakeLockerParams{})
		if err != nil {
			return nil, err
		}

		market, err = s.GetOrCreateMarket(ctx, locker.Market, MarketParams{})
		if err != nil {
			return nil, err
		}
		market.RewardScheduleStake = id
	}

	if !market.RewardTokens.Contains(rewardToken.Token) {
		market.RewardTokens = append(market.RewardTokens, rewardToken.Token)
		log.Infoln("added reward token", rewardToken.Token, "to market", market.ID)
	}

	schedule = &core.RewardSchedule{
		ID:                      id,
		Market:                  market.ID,
		StakeToken:              stakeToken,
		RewardToken:             rewardToken.Token,
		RewardRatePerSecond:     decimal.Zero,
		RewardDurationSec:       core.DefaultRewardsDurationSec,
		PeriodFinishedTimestamp: 0,
		EmissionAmountPerDay:    decimal.Zero,
		EmissionUSDPerDay:       decimal.Zero,
		CreationBlock:           params.BlockNumber,
		LastUpdatedBlock:        params.BlockNumber,
	}

	if err := s.Markets.Save(ctx, market); err != nil {
		return nil, err
	}
	if err := s.RewardSchedules.Save(ctx, schedule); err != nil {
		return nil, err
	}

	if stakeToken == core.ZeroAddress || rewardToken.Token == core.ZeroAddress || params.BlockNumber == 0 {
		log.Warningln("created reward schedule with incomplete params")
	}

	return schedule, nil
}
