package indexer

import (
	"context"

	"maplemetrics/core"
	"maplemetrics/service/graph"

	"github.com/shopspring/decimal"
)

// handleRewardsCreated rewards factory spawned a distributor; attaching it
// to a market happens inside the facade based on its staking token
func (w *Indexer) handleRewardsCreated(ctx context.Context, event *core.Event) error {
	schedule, err := w.graphz.GetOrCreateRewardSchedule(ctx, event.ParamAddress("rewards"), graph.RewardScheduleParams{
		StakeToken:  event.ParamAddress("stakingToken"),
		RewardToken: event.ParamAddress("rewardsToken"),
		BlockNumber: event.BlockNumber,
	})
	if err != nil {
		return err
	}

	return w.tickMarket(ctx, schedule.Market, event)
}

// handleRewardAdded distributor funded; the contract spreads the funded
// amount evenly over the configured duration
func (w *Indexer) handleRewardAdded(ctx context.Context, event *core.Event) error {
	schedule, err := w.graphz.GetOrCreateRewardSchedule(ctx, event.Address, graph.RewardScheduleParams{})
	if err != nil {
		return err
	}

	duration := schedule.RewardDurationSec
	if duration <= 0 {
		duration = core.DefaultRewardsDurationSec
	}

	schedule.RewardRatePerSecond = event.ParamAmount("reward").Div(decimal.NewFromInt(duration))
	schedule.PeriodFinishedTimestamp = event.Timestamp + duration
	// force the next tick to recompute emissions even within this block
	schedule.LastUpdatedBlock = 0
	if err := w.graphz.RewardSchedules.Save(ctx, schedule); err != nil {
		return err
	}

	return w.tickMarket(ctx, schedule.Market, event)
}

func (w *Indexer) handleRewardsDurationUpdated(ctx context.Context, event *core.Event) error {
	schedule, err := w.graphz.GetOrCreateRewardSchedule(ctx, event.Address, graph.RewardScheduleParams{})
	if err != nil {
		return err
	}

	schedule.RewardDurationSec = event.ParamInt("newDuration")
	schedule.LastUpdatedBlock = 0
	if err := w.graphz.RewardSchedules.Save(ctx, schedule); err != nil {
		return err
	}

	return w.tickMarket(ctx, schedule.Market, event)
}
