package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountMarket one (account, market) position. Tracks losses attributed to
// the account that have not yet been realized against a withdrawal.
type AccountMarket struct {
	ID      string `sql:"size:140;PRIMARY_KEY" json:"id"`
	Account string `sql:"size:66;index:account_idx" json:"account"`
	Market  string `sql:"size:66;index:market_idx" json:"market"`

	RecognizedLosses   decimal.Decimal `sql:"type:decimal(40,0)" json:"recognized_losses"`
	UnrecognizedLosses decimal.Decimal `sql:"type:decimal(40,0)" json:"unrecognized_losses"`
}

// AccountMarketID composite key: "{account}-{marketID}"
func AccountMarketID(account, marketID string) string {
	return fmt.Sprintf("%s-%s", NormalizeAddress(account), marketID)
}

// IAccountMarketStore account-market store interface. Find returns (nil, nil)
// when absent.
type IAccountMarketStore interface {
	Save(ctx context.Context, position *AccountMarket) error
	Find(ctx context.Context, id string) (*AccountMarket, error)
}
