// Package coingecko provides cached access to the CoinGecko v3 API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/bonkdash/internal/clientdata"
	"github.com/aristath/bonkdash/internal/clients/upstream"
	"github.com/rs/zerolog"
)

const (
	// tickersPerPage is the fixed page size of /coins/{id}/tickers
	tickersPerPage = 100
	// maxTickerPages bounds how many ticker pages one venue refresh pulls
	maxTickerPages = 3
)

// validDays are the chart ranges the dashboard offers.
var validDays = map[string]bool{
	"1": true, "7": true, "14": true, "30": true, "90": true, "180": true, "365": true, "max": true,
}

// NormalizeDays maps a requested chart range to one CoinGecko accepts; anything else is "7".
func NormalizeDays(days string) string {
	days = strings.ToLower(strings.TrimSpace(days))
	if validDays[days] {
		return days
	}
	return "7"
}

// Config holds CoinGecko client settings
type Config struct {
	BaseURL string
	APIKey  string
	Pro     bool // Pro keys use a different header than demo keys
	Timeout time.Duration
}

// Client for the CoinGecko API
type Client struct {
	api *upstream.Client
	log zerolog.Logger
}

// NewClient creates a new CoinGecko client.
// cache is optional - if nil, caching is disabled.
func NewClient(cfg Config, cache upstream.Cache, log zerolog.Logger) *Client {
	header := "x-cg-demo-api-key"
	if cfg.Pro {
		header = "x-cg-pro-api-key"
	}

	return &Client{
		api: upstream.New(upstream.Config{
			Service: "coingecko",
			BaseURL: cfg.BaseURL,
			Headers: map[string]string{header: cfg.APIKey},
			Timeout: cfg.Timeout,
		}, cache, log),
		log: log.With().Str("client", "coingecko").Logger(),
	}
}

// GetMarketChart returns price, market cap and volume history for a coin.
func (c *Client) GetMarketChart(ctx context.Context, id, vsCurrency, days string) (*MarketChart, error) {
	days = NormalizeDays(days)

	var chart MarketChart
	err := c.api.GetJSON(ctx, upstream.Request{
		Table: clientdata.TableMarketChart,
		Key:   id + ":" + vsCurrency + ":" + days,
		Path:  "/coins/" + url.PathEscape(id) + "/market_chart",
		Query: url.Values{"vs_currency": {vsCurrency}, "days": {days}},
		TTL:   clientdata.TTLMarketChart,
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("failed to get market chart for %s: %w", id, err)
	}

	return &chart, nil
}

// GetCoin returns the market snapshot for a coin.
func (c *Client) GetCoin(ctx context.Context, id string) (*Coin, error) {
	var coin Coin
	err := c.api.GetJSON(ctx, upstream.Request{
		Table: clientdata.TableCoin,
		Key:   id,
		Path:  "/coins/" + url.PathEscape(id),
		Query: url.Values{
			"localization":   {"false"},
			"tickers":        {"false"},
			"market_data":    {"true"},
			"community_data": {"false"},
			"developer_data": {"false"},
			"sparkline":      {"false"},
		},
		TTL: clientdata.TTLCoinSnapshot,
	}, &coin)
	if err != nil {
		return nil, fmt.Errorf("failed to get coin %s: %w", id, err)
	}

	return &coin, nil
}

// GetTickers returns exchange listings for a coin, walking up to maxTickerPages pages.
// A failure after the first page returns what was collected so far. The
// assembled list is cached as one entry so every page shares one freshness.
func (c *Client) GetTickers(ctx context.Context, id string) ([]Ticker, error) {
	var all []Ticker
	err := c.api.Load(ctx, upstream.Request{
		Table: clientdata.TableTickers,
		Key:   id,
		TTL:   clientdata.TTLTickers,
	}, &all, func(ctx context.Context) ([]byte, error) {
		tickers, err := c.fetchTickerPages(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(tickers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tickers for %s: %w", id, err)
	}

	return all, nil
}

// fetchTickerPages bypasses the cache for individual pages.
func (c *Client) fetchTickerPages(ctx context.Context, id string) ([]Ticker, error) {
	all := []Ticker{}

	for page := 1; page <= maxTickerPages; page++ {
		var resp TickersPage
		err := c.api.GetJSON(ctx, upstream.Request{
			Path: "/coins/" + url.PathEscape(id) + "/tickers",
			Query: url.Values{
				"include_exchange_logo": {"false"},
				"depth":                 {"true"},
				"order":                 {"volume_desc"},
				"page":                  {strconv.Itoa(page)},
			},
		}, &resp)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			c.log.Warn().Err(err).Str("coin", id).Int("page", page).Msg("Stopping ticker pagination early")
			break
		}

		all = append(all, resp.Tickers...)
		if len(resp.Tickers) < tickersPerPage {
			break
		}
	}

	return all, nil
}
