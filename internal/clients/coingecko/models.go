package coingecko

import (
	"encoding/json"
	"time"
)

// Point is one [timestamp_ms, value] pair from the market_chart endpoint.
type Point struct {
	Time  time.Time
	Value float64
}

// UnmarshalJSON decodes the two-element array CoinGecko uses for chart points.
func (p *Point) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) >= 1 {
		p.Time = time.UnixMilli(int64(pair[0])).UTC()
	}
	if len(pair) >= 2 {
		p.Value = pair[1]
	}
	return nil
}

// MarketChart is the /coins/{id}/market_chart response.
type MarketChart struct {
	Prices       []Point `json:"prices"`
	MarketCaps   []Point `json:"market_caps"`
	TotalVolumes []Point `json:"total_volumes"`
}

// Currencies maps a vs-currency code ("usd") to a value.
type Currencies map[string]float64

// In returns the value for a currency code, or 0.
func (c Currencies) In(vs string) float64 {
	return c[vs]
}

// MarketData is the market_data block of /coins/{id}.
type MarketData struct {
	CurrentPrice             Currencies `json:"current_price"`
	MarketCap                Currencies `json:"market_cap"`
	TotalVolume              Currencies `json:"total_volume"`
	High24h                  Currencies `json:"high_24h"`
	Low24h                   Currencies `json:"low_24h"`
	ATH                      Currencies `json:"ath"`
	PriceChangePercentage24h float64    `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  float64    `json:"price_change_percentage_7d"`
	PriceChangePercentage30d float64    `json:"price_change_percentage_30d"`
	CirculatingSupply        float64    `json:"circulating_supply"`
	TotalSupply              float64    `json:"total_supply"`
	MaxSupply                float64    `json:"max_supply"`
}

// Coin is the subset of /coins/{id} the dashboard uses.
type Coin struct {
	ID            string     `json:"id"`
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	MarketCapRank int        `json:"market_cap_rank"`
	LastUpdated   string     `json:"last_updated"`
	MarketData    MarketData `json:"market_data"`
}

// Market identifies the exchange of a ticker.
type Market struct {
	Name                string `json:"name"`
	Identifier          string `json:"identifier"`
	HasTradingIncentive bool   `json:"has_trading_incentive"`
}

// Ticker is one exchange listing from /coins/{id}/tickers.
type Ticker struct {
	Base                   string     `json:"base"`
	Target                 string     `json:"target"`
	Market                 Market     `json:"market"`
	Last                   float64    `json:"last"`
	Volume                 float64    `json:"volume"`
	ConvertedLast          Currencies `json:"converted_last"`
	ConvertedVolume        Currencies `json:"converted_volume"`
	TrustScore             string     `json:"trust_score"`
	BidAskSpreadPercentage float64    `json:"bid_ask_spread_percentage"`
	CostToMoveUpUSD        float64    `json:"cost_to_move_up_usd"`
	CostToMoveDownUSD      float64    `json:"cost_to_move_down_usd"`
	Timestamp              string     `json:"timestamp"`
	LastTradedAt           string     `json:"last_traded_at"`
	IsAnomaly              bool       `json:"is_anomaly"`
	IsStale                bool       `json:"is_stale"`
	TradeURL               string     `json:"trade_url"`
	CoinID                 string     `json:"coin_id"`
	TargetCoinID           string     `json:"target_coin_id"`
}

// TickersPage is one page of the tickers endpoint.
type TickersPage struct {
	Name    string   `json:"name"`
	Tickers []Ticker `json:"tickers"`
}
