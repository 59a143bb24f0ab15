package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// StakeLocker one staking contract backing a market. Balance and loss
// counters are raw units; the aggregator recomputes the USD fields each tick
// at the current input token price.
type StakeLocker struct {
	ID         string `sql:"size:66;PRIMARY_KEY" json:"id"`
	Market     string `sql:"size:66;index:market_idx" json:"market"`
	StakeToken string `sql:"size:66" json:"stake_token"`

	// raw units of the locker's stake token
	StakeTokenBalance decimal.Decimal `sql:"type:decimal(40,0)" json:"stake_token_balance"`
	CumulativeLosses  decimal.Decimal `sql:"type:decimal(40,0)" json:"cumulative_losses"`

	// raw units of the owning pool's input token
	StakeTokenBalanceInPoolInputTokens      decimal.Decimal `sql:"type:decimal(40,0)" json:"stake_token_balance_in_pool_input_tokens"`
	CumulativeLossesInPoolInputTokens       decimal.Decimal `sql:"type:decimal(40,0)" json:"cumulative_losses_in_pool_input_tokens"`
	CumulativeStakeDefaultInPoolInputTokens decimal.Decimal `sql:"type:decimal(40,0)" json:"cumulative_stake_default_in_pool_input_tokens"`
	CumulativeInterestInPoolInputTokens     decimal.Decimal `sql:"type:decimal(40,0)" json:"cumulative_interest_in_pool_input_tokens"`

	StakeTokenBalanceUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"stake_token_balance_usd"`
	CumulativeLossesUSD  decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_losses_usd"`
	RevenueUSD           decimal.Decimal `sql:"type:decimal(32,18)" json:"revenue_usd"`

	CreationBlock    int64 `json:"creation_block"`
	LastUpdatedBlock int64 `json:"last_updated_block"`
}

// IStakeLockerStore stake locker store interface. Find returns (nil, nil)
// when absent.
type IStakeLockerStore interface {
	Save(ctx context.Context, locker *StakeLocker) error
	Find(ctx context.Context, id string) (*StakeLocker, error)
	FindByMarket(ctx context.Context, marketID string) (*StakeLocker, error)
}
