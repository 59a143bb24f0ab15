// Package oracle resolves token prices over a prioritized fallback list of
// external price sources.
package oracle

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// PriceService price resolver. Sources are tried in order; the first
// non-reverted result wins. The serving source's tag is recorded on the token
// for observability. Resolution is total: every call returns a price
// (possibly zero) and a tag, never an error.
type PriceService struct {
	tokenStore core.ITokenStore
	sources    []core.PriceSource
}

// New new price service
func New(tokenStore core.ITokenStore, sources ...core.PriceSource) *PriceService {
	return &PriceService{
		tokenStore: tokenStore,
		sources:    sources,
	}
}

// ResolvePriceUSD resolve a token's USD price
func (s *PriceService) ResolvePriceUSD(ctx context.Context, token *core.Token) (decimal.Decimal, core.PriceSourceTag) {
	log := logger.FromContext(ctx).WithField("token", token.ID)

	if token.ID == core.ZeroAddress {
		return s.record(ctx, token, decimal.Zero, core.PriceSourceNone)
	}

	for _, source := range s.sources {
		result := source.TryPrice(ctx, token)
		if result.Reverted {
			continue
		}

		log.Debugln("priced by", source.Tag(), "at", result.PriceUSD)
		return s.record(ctx, token, result.PriceUSD, source.Tag())
	}

	log.Warningln("no price source available")
	return s.record(ctx, token, decimal.Zero, core.PriceSourceNone)
}

// record write the source tag back onto the token. The tag is observability
// only, so a failed save degrades to a log line instead of failing the tick.
func (s *PriceService) record(ctx context.Context, token *core.Token, price decimal.Decimal, tag core.PriceSourceTag) (decimal.Decimal, core.PriceSourceTag) {
	token.LastPriceUSD = price
	token.LastPriceSource = tag

	if err := s.tokenStore.Save(ctx, token); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("save token price tag")
	}

	return price, tag
}
