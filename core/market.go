package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Market one lending pool. Created on first observation of the pool's event
// stream, mutated on every relevant event, never deleted.
//
// Raw fields carry amounts in native token units; the aggregator recomputes
// every USD field from its raw counterpart on each tick, so a later price
// correction retroactively corrects all USD fields.
type Market struct {
	ID       string `sql:"size:66;PRIMARY_KEY" json:"id"`
	Protocol string `sql:"size:66" json:"protocol"`
	Name     string `sql:"size:128" json:"name"`

	IsActive      bool `json:"is_active"`
	CanBorrowFrom bool `json:"can_borrow_from"`

	InputToken   string  `sql:"size:66" json:"input_token"`
	OutputToken  string  `sql:"size:66" json:"output_token"`
	RewardTokens Strings `sql:"type:text" json:"reward_tokens"`

	// instantaneous fields
	TotalValueLockedUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"total_value_locked_usd"`
	InputTokenBalance   decimal.Decimal `sql:"type:decimal(40,0)" json:"input_token_balance"`
	InputTokenPriceUSD  decimal.Decimal `sql:"type:decimal(32,18)" json:"input_token_price_usd"`
	OutputTokenSupply   decimal.Decimal `sql:"type:decimal(40,0)" json:"output_token_supply"`
	OutputTokenPriceUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"output_token_price_usd"`
	ExchangeRate        decimal.Decimal `sql:"type:decimal(32,18)" json:"exchange_rate"`

	// cumulative balances, USD denominated
	TotalDepositBalanceUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"total_deposit_balance_usd"`
	CumulativeDepositUSD   decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_deposit_usd"`
	TotalBorrowBalanceUSD  decimal.Decimal `sql:"type:decimal(32,18)" json:"total_borrow_balance_usd"`
	CumulativeBorrowUSD    decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_borrow_usd"`
	CumulativeLiquidateUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_liquidate_usd"`

	// cumulative balances, raw input token units
	CumulativeDeposit               decimal.Decimal `sql:"type:decimal(40,0)" json:"cumulative_deposit"`
	TotalBorrowBalance              decimal.Decimal `sql:"type:decimal(40,0)" json:"total_borrow_balance"`
	CumulativeBorrow                decimal.Decimal `sql:"type:decimal(40,0)" json:"cumulative_borrow"`
	CumulativePoolDefault           decimal.Decimal `sql:"type:decimal(40,0)" json:"cumulative_pool_default"`
	CumulativeCollateralLiquidation decimal.Decimal `sql:"type:decimal(40,0)" json:"cumulative_collateral_liquidation"`

	// revenue split, raw input token units plus USD recomputations
	PoolDelegateRevenue    decimal.Decimal `sql:"type:decimal(40,0)" json:"pool_delegate_revenue"`
	PoolDelegateRevenueUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"pool_delegate_revenue_usd"`
	TreasuryRevenue        decimal.Decimal `sql:"type:decimal(40,0)" json:"treasury_revenue"`
	TreasuryRevenueUSD     decimal.Decimal `sql:"type:decimal(32,18)" json:"treasury_revenue_usd"`
	SupplierRevenue        decimal.Decimal `sql:"type:decimal(40,0)" json:"supplier_revenue"`
	SupplierRevenueUSD     decimal.Decimal `sql:"type:decimal(32,18)" json:"supplier_revenue_usd"`
	SupplySideRevenueUSD   decimal.Decimal `sql:"type:decimal(32,18)" json:"supply_side_revenue_usd"`
	ProtocolSideRevenueUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"protocol_side_revenue_usd"`
	TotalRevenueUSD        decimal.Decimal `sql:"type:decimal(32,18)" json:"total_revenue_usd"`

	// reward emissions, parallel to RewardTokens
	RewardTokenEmissionsAmount Decimals `sql:"type:text" json:"reward_token_emissions_amount"`
	RewardTokenEmissionsUSD    Decimals `sql:"type:text" json:"reward_token_emissions_usd"`

	// back references
	PoolFactory         string `sql:"size:66" json:"pool_factory"`
	DelegateAddress     string `sql:"size:66" json:"delegate_address"`
	StakeLocker         string `sql:"size:66" json:"stake_locker"`
	RewardScheduleLP    string `sql:"size:66" json:"reward_schedule_lp"`
	RewardScheduleStake string `sql:"size:66" json:"reward_schedule_stake"`

	CreatedTimestamp   int64 `json:"created_timestamp"`
	CreatedBlockNumber int64 `json:"created_block_number"`
}

// IMarketStore market store interface. Find returns (nil, nil) when absent.
type IMarketStore interface {
	Save(ctx context.Context, market *Market) error
	Find(ctx context.Context, id string) (*Market, error)
	All(ctx context.Context) ([]*Market, error)
}
