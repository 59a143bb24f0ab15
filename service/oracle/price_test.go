package oracle

import (
	"context"
	"testing"

	"maplemetrics/core"
	"maplemetrics/store/mem"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	tag    core.PriceSourceTag
	result core.PriceResult
	calls  int
}

func (s *stubSource) Tag() core.PriceSourceTag {
	return s.tag
}

func (s *stubSource) TryPrice(ctx context.Context, token *core.Token) core.PriceResult {
	s.calls++
	return s.result
}

func available(tag core.PriceSourceTag, price string) *stubSource {
	return &stubSource{tag: tag, result: core.PriceResult{PriceUSD: decimal.RequireFromString(price)}}
}

func reverted(tag core.PriceSourceTag) *stubSource {
	return &stubSource{tag: tag, result: core.RevertedPrice()}
}

func TestResolvePriceFallbackOrder(t *testing.T) {
	ctx := context.Background()

	first := reverted(core.PriceSourceMapleLens)
	second := available(core.PriceSourceChainlink, "1.5")
	third := available(core.PriceSourceYearnLens, "99")

	s := New(mem.NewTokens(), first, second, third)

	price, tag := s.ResolvePriceUSD(ctx, &core.Token{ID: "0xabc", Decimals: 18})
	assert.True(t, price.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, core.PriceSourceChainlink, tag)

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls, "later sources must not be consulted")
}

func TestResolvePriceExhaustion(t *testing.T) {
	ctx := context.Background()

	s := New(mem.NewTokens(),
		reverted(core.PriceSourceMapleLens),
		reverted(core.PriceSourceChainlink),
	)

	price, tag := s.ResolvePriceUSD(ctx, &core.Token{ID: "0xabc", Decimals: 18})
	assert.True(t, price.IsZero())
	assert.Equal(t, core.PriceSourceNone, tag)
}

func TestResolvePriceZeroAddress(t *testing.T) {
	ctx := context.Background()

	source := available(core.PriceSourceMapleLens, "3")
	s := New(mem.NewTokens(), source)

	price, tag := s.ResolvePriceUSD(ctx, &core.Token{ID: core.ZeroAddress, Decimals: 18})
	assert.True(t, price.IsZero())
	assert.Equal(t, core.PriceSourceNone, tag)
	assert.Equal(t, 0, source.calls)
}

func TestResolvePriceRecordsOnToken(t *testing.T) {
	ctx := context.Background()
	tokens := mem.NewTokens()

	token := &core.Token{ID: "0xabc", Decimals: 18, LastPriceSource: core.PriceSourceNone}
	require.Nil(t, tokens.Save(ctx, token))

	s := New(tokens, available(core.PriceSourceYearnLens, "2.25"))

	_, _ = s.ResolvePriceUSD(ctx, token)

	saved, err := tokens.Find(ctx, "0xabc")
	require.Nil(t, err)
	require.NotNil(t, saved)
	assert.True(t, saved.LastPriceUSD.Equal(decimal.RequireFromString("2.25")))
	assert.Equal(t, core.PriceSourceYearnLens, saved.LastPriceSource)
}
