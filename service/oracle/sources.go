package oracle

import (
	"context"
	"fmt"

	"maplemetrics/core"
	"maplemetrics/pkg/resthttp"
)

// restSource one price source behind an HTTP endpoint of the oracle host.
// The host answers GET {endpoint}/prices/{token} with a (price, reverted)
// pair; any transport or decode failure counts as reverted so the next
// source in priority order still gets tried.
type restSource struct {
	tag      core.PriceSourceTag
	endpoint string
}

// NewRestSource new endpoint backed price source
func NewRestSource(tag core.PriceSourceTag, endpoint string) core.PriceSource {
	return &restSource{tag: tag, endpoint: endpoint}
}

func (s *restSource) Tag() core.PriceSourceTag {
	return s.tag
}

func (s *restSource) TryPrice(ctx context.Context, token *core.Token) core.PriceResult {
	url := fmt.Sprintf("%s/prices/%s", s.endpoint, token.ID)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return core.RevertedPrice()
	}

	var result core.PriceResult
	if err := resthttp.ParseResponse(resp, &result); err != nil {
		return core.RevertedPrice()
	}

	if result.PriceUSD.IsNegative() {
		return core.RevertedPrice()
	}

	return result
}

// SourcesFromConfig build the prioritized source list from config, skipping
// sources with no endpoint configured
func SourcesFromConfig(cfg core.Oracle) []core.PriceSource {
	var sources []core.PriceSource
	for _, ep := range cfg.Endpoints() {
		if ep.Endpoint == "" {
			continue
		}
		sources = append(sources, NewRestSource(ep.Tag, ep.Endpoint))
	}
	return sources
}
