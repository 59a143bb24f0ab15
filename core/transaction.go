package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType position changing transaction kinds
type TransactionType string

const (
	// TransactionTypeDeposit deposit into a pool
	TransactionTypeDeposit TransactionType = "DEPOSIT"
	// TransactionTypeWithdraw withdraw from a pool
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	// TransactionTypeBorrow loan drawdown
	TransactionTypeBorrow TransactionType = "BORROW"
	// TransactionTypeRepay loan payment
	TransactionTypeRepay TransactionType = "REPAY"
	// TransactionTypeClaim interest claim
	TransactionTypeClaim TransactionType = "CLAIM"
	// TransactionTypeLiquidate default liquidation
	TransactionTypeLiquidate TransactionType = "LIQUIDATE"
)

// Transaction one recorded position changing transaction
type Transaction struct {
	ID      string          `sql:"size:80;PRIMARY_KEY" json:"id"`
	Type    TransactionType `sql:"size:16;index:type_idx" json:"type"`
	TxHash  string          `sql:"size:66" json:"tx_hash"`
	Account string          `sql:"size:66;index:account_idx" json:"account"`
	Market  string          `sql:"size:66;index:market_idx" json:"market"`
	Loan    string          `sql:"size:66" json:"loan"`

	Amount    decimal.Decimal `sql:"type:decimal(40,0)" json:"amount"`
	AmountUSD decimal.Decimal `sql:"type:decimal(32,18)" json:"amount_usd"`
	// realized losses attached to a withdrawal
	Losses decimal.Decimal `sql:"type:decimal(40,0)" json:"losses"`

	BlockNumber int64     `json:"block_number"`
	Timestamp   int64     `json:"timestamp"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ITransactionStore transaction store interface
type ITransactionStore interface {
	Create(ctx context.Context, tx *Transaction) error
	ListByMarket(ctx context.Context, marketID string, limit int) ([]*Transaction, error)
}
