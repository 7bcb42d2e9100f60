// Package tokens serves token charts, merged market/social snapshots and the
// social analytics view.
package tokens

import (
	"time"

	"github.com/aristath/bonkdash/pkg/formulas"
)

// ChartPoint is one market chart sample with its indicators.
// Indicators are nil until enough samples exist.
type ChartPoint struct {
	Time      time.Time `json:"time"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	MarketCap float64   `json:"marketCap"`
	SMA7      *float64  `json:"sma7"`
	SMA25     *float64  `json:"sma25"`
	EMA12     *float64  `json:"ema12"`
	RSI14     *float64  `json:"rsi14"`
}

// ChartStats summarizes a chart window.
type ChartStats struct {
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	First         float64  `json:"first"`
	Last          float64  `json:"last"`
	ChangePct     float64  `json:"changePct"`
	AverageVolume float64  `json:"averageVolume"`
	LatestRSI     *float64 `json:"latestRsi"`

	HighDisplay          string `json:"highDisplay"`
	LowDisplay           string `json:"lowDisplay"`
	ChangeDisplay        string `json:"changeDisplay"`
	AverageVolumeDisplay string `json:"averageVolumeDisplay"`
}

// TokenChart is the /api/coingecko/token/{id} payload.
type TokenChart struct {
	ID         string       `json:"id"`
	VsCurrency string       `json:"vsCurrency"`
	Days       string       `json:"days"`
	Points     []ChartPoint `json:"points"`
	Stats      ChartStats   `json:"stats"`
}

// Snapshot merges CoinGecko market data with LunarCrush social metrics.
// Fields of a source that failed stay zero and the failure is listed in Warnings.
type Snapshot struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Rank              int     `json:"rank"`
	Price             float64 `json:"price"`
	MarketCap         float64 `json:"marketCap"`
	Volume24h         float64 `json:"volume24h"`
	Change24h         float64 `json:"change24h"`
	Change7d          float64 `json:"change7d"`
	High24h           float64 `json:"high24h"`
	Low24h            float64 `json:"low24h"`
	CirculatingSupply float64 `json:"circulatingSupply"`

	GalaxyScore     float64 `json:"galaxyScore"`
	AltRank         int     `json:"altRank"`
	Sentiment       float64 `json:"sentiment"`
	SocialDominance float64 `json:"socialDominance"`
	Interactions24h float64 `json:"interactions24h"`
	SocialVolume24h float64 `json:"socialVolume24h"`

	PriceDisplay        string `json:"priceDisplay"`
	MarketCapDisplay    string `json:"marketCapDisplay"`
	VolumeDisplay       string `json:"volumeDisplay"`
	ChangeDisplay       string `json:"changeDisplay"`
	InteractionsDisplay string `json:"interactionsDisplay"`

	Warnings  []string  `json:"warnings"`
	UpdatedAt time.Time `json:"updatedAt"`

	hasMarket bool // price, volume and market cap came from a source
	hasSocial bool
}

// Metrics exposes the snapshot values alerts are evaluated against, keyed by alert type.
// Values of a source that failed are left out rather than reported as zero.
func (s *Snapshot) Metrics() map[string]float64 {
	metrics := make(map[string]float64, 6)
	if s.hasMarket {
		metrics["price"] = s.Price
		metrics["volume"] = s.Volume24h
		metrics["market_cap"] = s.MarketCap
	}
	if s.hasSocial {
		metrics["sentiment"] = s.Sentiment
		metrics["galaxy_score"] = s.GalaxyScore
		metrics["social_dominance"] = s.SocialDominance
	}
	return metrics
}

// SocialPoint is one time-series bucket of the analytics view.
type SocialPoint struct {
	Time            time.Time `json:"time"`
	Price           float64   `json:"price"`
	Volume          float64   `json:"volume"`
	MarketCap       float64   `json:"marketCap"`
	Sentiment       float64   `json:"sentiment"`
	Interactions    float64   `json:"interactions"`
	SocialDominance float64   `json:"socialDominance"`
	GalaxyScore     float64   `json:"galaxyScore"`
	AltRank         float64   `json:"altRank"`
	Contributors    float64   `json:"contributors"`
	Posts           float64   `json:"posts"`
}

// MetricSummary describes one metric over the loaded window.
type MetricSummary struct {
	Latest    float64 `json:"latest"`
	Average   float64 `json:"average"`
	ChangePct float64 `json:"changePct"`
}

// Analytics is the /api/test/lunarcrush-coins-v2 payload.
type Analytics struct {
	CoinID      string                   `json:"coinId"`
	TimeRange   string                   `json:"timeRange"`
	Bucket      string                   `json:"bucket"`
	Points      []SocialPoint            `json:"points"`
	Correlation formulas.Matrix          `json:"correlation"`
	Metrics     map[string]MetricSummary `json:"metrics"`
}
