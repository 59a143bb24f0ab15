package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// LoanVersion selects which event ABI variant applies to a loan contract
type LoanVersion string

const (
	// LoanVersionV1 first loan contract generation
	LoanVersionV1 LoanVersion = "V1"
	// LoanVersionV2OrV3 later loan contract generations, shared ABI
	LoanVersionV2OrV3 LoanVersion = "V2_OR_V3"
)

// Loan one loan contract spawned from a funded pool. All amounts are raw
// units of the owning market's input token.
type Loan struct {
	ID       string      `sql:"size:66;PRIMARY_KEY" json:"id"`
	Market   string      `sql:"size:66;index:market_idx" json:"market"`
	Borrower string      `sql:"size:66" json:"borrower"`
	Version  LoanVersion `sql:"size:16" json:"version"`

	AmountFunded    decimal.Decimal `sql:"type:decimal(40,0)" json:"amount_funded"`
	DrawnDown       decimal.Decimal `sql:"type:decimal(40,0)" json:"drawn_down"`
	PrincipalPaid   decimal.Decimal `sql:"type:decimal(40,0)" json:"principal_paid"`
	InterestPaid    decimal.Decimal `sql:"type:decimal(40,0)" json:"interest_paid"`
	DefaultSuffered decimal.Decimal `sql:"type:decimal(40,0)" json:"default_suffered"`

	CreationTimestamp   int64 `json:"creation_timestamp"`
	CreationBlockNumber int64 `json:"creation_block_number"`
}

// ILoanStore loan store interface. Find returns (nil, nil) when absent.
type ILoanStore interface {
	Save(ctx context.Context, loan *Loan) error
	Find(ctx context.Context, id string) (*Loan, error)
	ListByMarket(ctx context.Context, marketID string) ([]*Loan, error)
}
