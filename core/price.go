package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceResult outcome of a single price source attempt. Reverted marks the
// source as unavailable for this token; the next source in priority order
// gets tried.
type PriceResult struct {
	PriceUSD decimal.Decimal `json:"price_usd"`
	Reverted bool            `json:"reverted"`
}

// RevertedPrice the unavailable result
func RevertedPrice() PriceResult {
	return PriceResult{PriceUSD: decimal.Zero, Reverted: true}
}

// PriceSource a single prioritized price capability
type PriceSource interface {
	Tag() PriceSourceTag
	TryPrice(ctx context.Context, token *Token) PriceResult
}

// IPriceService resolves token prices over an ordered source list.
// ResolvePriceUSD is total: it always returns a price (possibly zero) and a
// source tag (PriceSourceNone on exhaustion), never an error.
type IPriceService interface {
	ResolvePriceUSD(ctx context.Context, token *Token) (decimal.Decimal, PriceSourceTag)
}
