package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSourceTag records which price source last served a token's price.
// Observability only, never used for correctness.
type PriceSourceTag string

const (
	// PriceSourceNone no source could price the token
	PriceSourceNone PriceSourceTag = "NONE"
	// PriceSourceMapleLens protocol native oracle
	PriceSourceMapleLens PriceSourceTag = "MAPLE_LENS"
	// PriceSourceChainlink chainlink feed registry
	PriceSourceChainlink PriceSourceTag = "CHAINLINK_FEED"
	// PriceSourceYearnLens yearn lens oracle
	PriceSourceYearnLens PriceSourceTag = "YEARN_LENS"
	// PriceSourceCurveCalc curve calculations contract
	PriceSourceCurveCalc PriceSourceTag = "CURVE_CALCULATIONS"
	// PriceSourceSushiCalc sushiswap calculations contract
	PriceSourceSushiCalc PriceSourceTag = "SUSHISWAP_CALCULATIONS"
	// PriceSourceCurveRoute curve router
	PriceSourceCurveRoute PriceSourceTag = "CURVE_ROUTER"
	// PriceSourceUniswapRoute uniswap router
	PriceSourceUniswapRoute PriceSourceTag = "UNISWAP_ROUTER"
	// PriceSourceSushiRoute sushiswap router
	PriceSourceSushiRoute PriceSourceTag = "SUSHISWAP_ROUTER"
)

// Token canonical token metadata. Decimals drive every raw-unit to USD
// conversion in the aggregator.
type Token struct {
	ID              string          `sql:"size:66;PRIMARY_KEY" json:"id"`
	Name            string          `sql:"size:64" json:"name"`
	Symbol          string          `sql:"size:20" json:"symbol"`
	Decimals        int32           `sql:"default:18" json:"decimals"`
	LastPriceUSD    decimal.Decimal `sql:"type:decimal(32,18)" json:"last_price_usd"`
	LastPriceSource PriceSourceTag  `sql:"size:32" json:"last_price_source"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// RewardToken a token in its role as a reward emission
type RewardToken struct {
	ID      string    `sql:"size:72;PRIMARY_KEY" json:"id"`
	Token   string    `sql:"size:66" json:"token"`
	Type    string    `sql:"size:16" json:"type"`
	Created time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created"`
}

// RewardTokenTypeDeposit deposit side reward
const RewardTokenTypeDeposit = "DEPOSIT"

// ITokenStore token store interface. Find returns (nil, nil) when absent.
type ITokenStore interface {
	Save(ctx context.Context, token *Token) error
	Find(ctx context.Context, id string) (*Token, error)
	All(ctx context.Context) ([]*Token, error)
}

// IRewardTokenStore reward token store interface
type IRewardTokenStore interface {
	Save(ctx context.Context, token *RewardToken) error
	Find(ctx context.Context, id string) (*RewardToken, error)
}
