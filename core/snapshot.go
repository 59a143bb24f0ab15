package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// MarketSnapshot one (market, time bucket) pair. The same shape serves daily
// and hourly buckets; the store keeps them in separate tables.
//
// Instantaneous fields hold a windowed average over the ticks seen in the
// bucket: avg' = (avg*N + v) / (N+1) with N = TxCount before the tick.
// Period delta fields are recomputed each tick against the Initial* baseline
// captured when the bucket was first seen. There is no close signal; the last
// tick before the next bucket's first tick leaves the final state.
type MarketSnapshot struct {
	ID          string `sql:"size:80;PRIMARY_KEY" json:"id"`
	Market      string `sql:"size:66;index:market_idx" json:"market"`
	BlockNumber int64  `json:"block_number"`
	Timestamp   int64  `json:"timestamp"`

	TotalValueLockedUSD    decimal.Decimal `sql:"type:decimal(32,18)" json:"total_value_locked_usd"`
	TotalDepositBalanceUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"total_deposit_balance_usd"`
	CumulativeDepositUSD   decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_deposit_usd"`
	CumulativeBorrowUSD    decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_borrow_usd"`
	CumulativeLiquidateUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_liquidate_usd"`
	InputTokenBalance      decimal.Decimal `sql:"type:decimal(40,0)" json:"input_token_balance"`
	InputTokenPriceUSD     decimal.Decimal `sql:"type:decimal(32,18)" json:"input_token_price_usd"`
	OutputTokenSupply      decimal.Decimal `sql:"type:decimal(40,0)" json:"output_token_supply"`
	OutputTokenPriceUSD    decimal.Decimal `sql:"type:decimal(32,18)" json:"output_token_price_usd"`
	ExchangeRate           decimal.Decimal `sql:"type:decimal(32,18)" json:"exchange_rate"`

	RewardTokenEmissionsAmount Decimals `sql:"type:text" json:"reward_token_emissions_amount"`
	RewardTokenEmissionsUSD    Decimals `sql:"type:text" json:"reward_token_emissions_usd"`

	// period deltas: current cumulative minus cumulative at bucket start
	PeriodDepositUSD   decimal.Decimal `sql:"type:decimal(32,18)" json:"period_deposit_usd"`
	PeriodBorrowUSD    decimal.Decimal `sql:"type:decimal(32,18)" json:"period_borrow_usd"`
	PeriodLiquidateUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"period_liquidate_usd"`

	TxCount             int64           `json:"tx_count"`
	InitialDepositUSD   decimal.Decimal `sql:"type:decimal(32,18)" json:"initial_deposit_usd"`
	InitialBorrowUSD    decimal.Decimal `sql:"type:decimal(32,18)" json:"initial_borrow_usd"`
	InitialLiquidateUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"initial_liquidate_usd"`
}

// FinancialsDailySnapshot protocol wide daily snapshot
type FinancialsDailySnapshot struct {
	ID          string `sql:"size:80;PRIMARY_KEY" json:"id"`
	Protocol    string `sql:"size:66" json:"protocol"`
	BlockNumber int64  `json:"block_number"`
	Timestamp   int64  `json:"timestamp"`

	TotalValueLockedUSD              decimal.Decimal `sql:"type:decimal(32,18)" json:"total_value_locked_usd"`
	TotalDepositBalanceUSD           decimal.Decimal `sql:"type:decimal(32,18)" json:"total_deposit_balance_usd"`
	CumulativeDepositUSD             decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_deposit_usd"`
	TotalBorrowBalanceUSD            decimal.Decimal `sql:"type:decimal(32,18)" json:"total_borrow_balance_usd"`
	CumulativeBorrowUSD              decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_borrow_usd"`
	CumulativeLiquidateUSD           decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_liquidate_usd"`
	CumulativeSupplySideRevenueUSD   decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_supply_side_revenue_usd"`
	CumulativeProtocolSideRevenueUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_protocol_side_revenue_usd"`
	CumulativeTotalRevenueUSD        decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_total_revenue_usd"`

	TxCount int64 `json:"tx_count"`
}

// IMarketSnapshotStore snapshot store for one bucket width; the daily and
// hourly stores implement the same interface. Find returns (nil, nil) when
// the bucket has never seen a tick.
type IMarketSnapshotStore interface {
	Save(ctx context.Context, snapshot *MarketSnapshot) error
	Find(ctx context.Context, id string) (*MarketSnapshot, error)
	ListByMarket(ctx context.Context, marketID string, fromTimestamp, toTimestamp int64, limit int) ([]*MarketSnapshot, error)
}

// IFinancialsStore protocol daily snapshot store
type IFinancialsStore interface {
	Save(ctx context.Context, snapshot *FinancialsDailySnapshot) error
	Find(ctx context.Context, id string) (*FinancialsDailySnapshot, error)
	List(ctx context.Context, fromTimestamp, toTimestamp int64, limit int) ([]*FinancialsDailySnapshot, error)
}
