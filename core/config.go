package core

import (
	"errors"
	"fmt"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config aggregator config
type Config struct {
	App       App             `json:"app"`
	DB        db.Config       `json:"db"`
	Oracle    Oracle          `json:"oracle"`
	Protocol  ProtocolConfig  `json:"protocol"`
	Dashboard DashboardConfig `json:"dashboard"`
}

// App app config
type App struct {
	Port     int    `json:"port"`
	Location string `json:"location"`
}

// Oracle endpoints of the external price source chain, in priority order.
// An empty endpoint disables that source.
type Oracle struct {
	MapleLens             string `json:"maple_lens"`
	ChainlinkFeed         string `json:"chainlink_feed"`
	YearnLens             string `json:"yearn_lens"`
	CurveCalculations     string `json:"curve_calculations"`
	SushiswapCalculations string `json:"sushiswap_calculations"`
	CurveRouter           string `json:"curve_router"`
	UniswapRouter         string `json:"uniswap_router"`
	SushiswapRouter       string `json:"sushiswap_router"`
}

// Endpoints endpoint per source tag, in resolution priority order
func (o Oracle) Endpoints() []OracleEndpoint {
	return []OracleEndpoint{
		{PriceSourceMapleLens, o.MapleLens},
		{PriceSourceChainlink, o.ChainlinkFeed},
		{PriceSourceYearnLens, o.YearnLens},
		{PriceSourceCurveCalc, o.CurveCalculations},
		{PriceSourceSushiCalc, o.SushiswapCalculations},
		{PriceSourceCurveRoute, o.CurveRouter},
		{PriceSourceUniswapRoute, o.UniswapRouter},
		{PriceSourceSushiRoute, o.SushiswapRouter},
	}
}

// OracleEndpoint one price source endpoint
type OracleEndpoint struct {
	Tag      PriceSourceTag
	Endpoint string
}

// ProtocolConfig identity of the protocol singleton
type ProtocolConfig struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Network     string          `json:"network"`
	TreasuryFee decimal.Decimal `json:"treasury_fee"`
}

// DashboardConfig dashboard deployment manifest config
type DashboardConfig struct {
	// upstream manifest fetched at startup, optional
	ManifestURL string `json:"manifest_url"`
	// bundled fallback: protocol -> network -> query endpoint
	Deployments map[string]map[string]string `json:"deployments"`
}

// Validate check endpoint and identity config
func (c *Config) Validate() error {
	if c.Protocol.ID == "" {
		return errors.New("protocol.id is required")
	}

	for _, ep := range c.Oracle.Endpoints() {
		if ep.Endpoint != "" && !govalidator.IsURL(ep.Endpoint) {
			return fmt.Errorf("invalid oracle endpoint for %s: %s", ep.Tag, ep.Endpoint)
		}
	}

	if c.Dashboard.ManifestURL != "" && !govalidator.IsURL(c.Dashboard.ManifestURL) {
		return fmt.Errorf("invalid dashboard manifest url: %s", c.Dashboard.ManifestURL)
	}

	return nil
}
