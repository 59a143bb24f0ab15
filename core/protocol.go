package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Protocol the process wide aggregate over every market. Cumulative fields
// are maintained by folding per-market deltas on each tick rather than
// re-summing all markets.
type Protocol struct {
	ID          string `sql:"size:66;PRIMARY_KEY" json:"id"`
	Name        string `sql:"size:64" json:"name"`
	Slug        string `sql:"size:64" json:"slug"`
	Network     string `sql:"size:32" json:"network"`
	Type        string `sql:"size:32" json:"type"`
	LendingType string `sql:"size:32" json:"lending_type"`
	RiskType    string `sql:"size:32" json:"risk_type"`

	TotalValueLockedUSD              decimal.Decimal `sql:"type:decimal(32,18)" json:"total_value_locked_usd"`
	TotalDepositBalanceUSD           decimal.Decimal `sql:"type:decimal(32,18)" json:"total_deposit_balance_usd"`
	CumulativeDepositUSD             decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_deposit_usd"`
	TotalBorrowBalanceUSD            decimal.Decimal `sql:"type:decimal(32,18)" json:"total_borrow_balance_usd"`
	CumulativeBorrowUSD              decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_borrow_usd"`
	CumulativeLiquidateUSD           decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_liquidate_usd"`
	CumulativeSupplySideRevenueUSD   decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_supply_side_revenue_usd"`
	CumulativeProtocolSideRevenueUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_protocol_side_revenue_usd"`
	CumulativeTotalRevenueUSD        decimal.Decimal `sql:"type:decimal(32,18)" json:"cumulative_total_revenue_usd"`

	// fee taken by the protocol treasury on loan drawdown, in percent of the
	// drawn amount
	TreasuryFee decimal.Decimal `sql:"type:decimal(20,8)" json:"treasury_fee"`
}

// IProtocolStore protocol store interface. Find returns (nil, nil) when absent.
type IProtocolStore interface {
	Save(ctx context.Context, protocol *Protocol) error
	Find(ctx context.Context, id string) (*Protocol, error)
}
