package metrics

import (
	"context"

	"maplemetrics/core"
	"maplemetrics/pkg/number"
	"maplemetrics/service/graph"

	"github.com/shopspring/decimal"
)

// RewardTick recompute a schedule's per-day emission. At most one
// recomputation per block; later ticks in the same block are no-ops since
// rate and period cannot change mid block. Synthetic refresh events carry no
// block number and always recompute, so an expired period zeroes out even on
// a quiet market.
func (s *Service) RewardTick(ctx context.Context, schedule *core.RewardSchedule, event *core.Event) error {
	if event.BlockNumber > 0 && schedule.LastUpdatedBlock == event.BlockNumber {
		return nil
	}

	if event.Timestamp < schedule.PeriodFinishedTimestamp {
		schedule.EmissionAmountPerDay = schedule.RewardRatePerSecond.Mul(decimal.NewFromInt(core.SecondsPerDay))
	} else {
		schedule.EmissionAmountPerDay = decimal.Zero
	}

	schedule.EmissionUSDPerDay = decimal.Zero
	if schedule.EmissionAmountPerDay.IsPositive() && schedule.RewardToken != core.ZeroAddress {
		rewardToken, err := s.graph.GetOrCreateToken(ctx, schedule.RewardToken, graph.TokenParams{})
		if err != nil {
			return err
		}
		price, _ := s.priceService.ResolvePriceUSD(ctx, rewardToken)
		schedule.EmissionUSDPerDay = number.ParseUnits(schedule.EmissionAmountPerDay, rewardToken.Decimals).Mul(price)
	}

	schedule.LastUpdatedBlock = event.BlockNumber
	return s.graph.RewardSchedules.Save(ctx, schedule)
}
