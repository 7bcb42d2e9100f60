// Package markets turns exchange tickers into the venue table of the markets screen.
package markets

import "time"

// Trust scores as reported by CoinGecko.
const (
	TrustGreen  = "green"
	TrustYellow = "yellow"
	TrustRed    = "red"
)

// Venue is one exchange/pair listing.
type Venue struct {
	Exchange   string    `json:"exchange"`
	ExchangeID string    `json:"exchangeId"`
	Pair       string    `json:"pair"`
	Base       string    `json:"base"`
	Target     string    `json:"target"`
	Price      float64   `json:"price"`
	Volume24h  float64   `json:"volume24h"`
	SpreadPct  float64   `json:"spreadPct"`
	DepthUp    float64   `json:"depthUp"`   // USD to move the price +2%
	DepthDown  float64   `json:"depthDown"` // USD to move the price -2%
	TrustScore string    `json:"trustScore"`
	LastTraded time.Time `json:"lastTraded"`
	Stale      bool      `json:"stale"`
	Anomaly    bool      `json:"anomaly"`
	TradeURL   string    `json:"tradeUrl,omitempty"`

	PriceDisplay  string `json:"priceDisplay"`
	VolumeDisplay string `json:"volumeDisplay"`
	SpreadDisplay string `json:"spreadDisplay"`
}

// Depth is the combined +2%/-2% order book depth in USD.
func (v Venue) Depth() float64 {
	return v.DepthUp + v.DepthDown
}

// key identifies a listing; the same exchange can report a pair more than once across pages.
func (v Venue) key() string {
	return v.ExchangeID + "|" + v.Base + "|" + v.Target
}

// Summary aggregates the filtered venue set.
type Summary struct {
	Count         int            `json:"count"`
	TotalVolume   float64        `json:"totalVolume"`
	VWAP          float64        `json:"vwap"`
	AverageSpread float64        `json:"averageSpread"`
	TrustCounts   map[string]int `json:"trustCounts"`
	TopVenue      *Venue         `json:"topVenue,omitempty"`
	Exchanges     int            `json:"exchanges"`

	TotalVolumeDisplay   string `json:"totalVolumeDisplay"`
	VWAPDisplay          string `json:"vwapDisplay"`
	AverageSpreadDisplay string `json:"averageSpreadDisplay"`
}
