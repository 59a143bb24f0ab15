package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// DefaultRewardsDurationSec default reward period length: 7 days
const DefaultRewardsDurationSec int64 = 604800

// RewardSchedule mirrors one on-chain reward distributor contract.
// LastUpdatedBlock guards the per-day emission recomputation: a schedule
// updates at most once per block, so several ticks within one block converge
// to the same result.
type RewardSchedule struct {
	ID          string `sql:"size:66;PRIMARY_KEY" json:"id"`
	Market      string `sql:"size:66;index:market_idx" json:"market"`
	StakeToken  string `sql:"size:66" json:"stake_token"`
	RewardToken string `sql:"size:66" json:"reward_token"`

	RewardRatePerSecond     decimal.Decimal `sql:"type:decimal(40,0)" json:"reward_rate_per_second"`
	RewardDurationSec       int64           `json:"reward_duration_sec"`
	PeriodFinishedTimestamp int64           `json:"period_finished_timestamp"`
	EmissionAmountPerDay    decimal.Decimal `sql:"type:decimal(40,0)" json:"emission_amount_per_day"`
	EmissionUSDPerDay       decimal.Decimal `sql:"type:decimal(32,18)" json:"emission_usd_per_day"`

	CreationBlock    int64 `json:"creation_block"`
	LastUpdatedBlock int64 `json:"last_updated_block"`
}

// IRewardScheduleStore reward schedule store interface. Find returns
// (nil, nil) when absent.
type IRewardScheduleStore interface {
	Save(ctx context.Context, schedule *RewardSchedule) error
	Find(ctx context.Context, id string) (*RewardSchedule, error)
}
