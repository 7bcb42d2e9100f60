package coingecko

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/bonkdash/internal/clientdata"
	"github.com/aristath/bonkdash/internal/database"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, pro bool) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{BaseURL: server.URL, APIKey: "key", Pro: pro, Timeout: time.Second}, nil, zerolog.Nop())
}

func TestNormalizeDays(t *testing.T) {
	assert.Equal(t, "30", NormalizeDays("30"))
	assert.Equal(t, "max", NormalizeDays(" MAX "))
	assert.Equal(t, "7", NormalizeDays("42"))
	assert.Equal(t, "7", NormalizeDays(""))
}

func TestGetMarketChart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bonk/market_chart", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "key", r.Header.Get("x-cg-demo-api-key"))
		fmt.Fprint(w, `{
			"prices": [[1700000000000, 0.0000051], [1700003600000, 0.0000053]],
			"market_caps": [[1700000000000, 330000000], [1700003600000, 340000000]],
			"total_volumes": [[1700000000000, 51000000], [1700003600000, 52000000]]
		}`)
	}, false)

	chart, err := client.GetMarketChart(context.Background(), "bonk", "usd", "bogus")
	require.NoError(t, err)

	require.Len(t, chart.Prices, 2)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), chart.Prices[0].Time)
	assert.InDelta(t, 0.0000053, chart.Prices[1].Value, 1e-12)
	assert.InDelta(t, 340000000, chart.MarketCaps[1].Value, 1e-6)
	assert.InDelta(t, 52000000, chart.TotalVolumes[1].Value, 1e-6)
}

func TestGetCoin_ProHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bonk", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("tickers"))
		assert.Equal(t, "key", r.Header.Get("x-cg-pro-api-key"))
		assert.Empty(t, r.Header.Get("x-cg-demo-api-key"))
		fmt.Fprint(w, `{
			"id": "bonk", "symbol": "bonk", "name": "Bonk", "market_cap_rank": 58,
			"market_data": {
				"current_price": {"usd": 0.0000234},
				"market_cap": {"usd": 1500000000},
				"total_volume": {"usd": 250000000},
				"price_change_percentage_24h": -3.2
			}
		}`)
	}, true)

	coin, err := client.GetCoin(context.Background(), "bonk")
	require.NoError(t, err)

	assert.Equal(t, "Bonk", coin.Name)
	assert.Equal(t, 58, coin.MarketCapRank)
	assert.InDelta(t, 0.0000234, coin.MarketData.CurrentPrice.In("usd"), 1e-12)
	assert.Equal(t, 0.0, coin.MarketData.CurrentPrice.In("eur"))
	assert.InDelta(t, -3.2, coin.MarketData.PriceChangePercentage24h, 1e-9)
}

func TestGetCoin_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}, false)

	_, err := client.GetCoin(context.Background(), "bonk")
	assert.ErrorContains(t, err, "failed to get coin bonk")
}

func tickerJSON(n int, exchange string) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"base":"BONK","target":"USDT","market":{"name":"%s","identifier":"%s-%d"},"last":0.00002,"converted_volume":{"usd":%d},"trust_score":"green"}`, exchange, strings.ToLower(exchange), i, 1000+i)
	}
	return `{"name":"Bonk","tickers":[` + strings.Join(items, ",") + `]}`
}

func TestGetTickers_Paginates(t *testing.T) {
	var pages []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		assert.Equal(t, "true", r.URL.Query().Get("depth"))

		switch page {
		case "1":
			fmt.Fprint(w, tickerJSON(100, "Binance"))
		default:
			fmt.Fprint(w, tickerJSON(5, "Bybit"))
		}
	}, false)

	tickers, err := client.GetTickers(context.Background(), "bonk")
	require.NoError(t, err)

	assert.Len(t, tickers, 105)
	assert.Equal(t, []string{"1", "2"}, pages)
	assert.Equal(t, "Bybit", tickers[104].Market.Name)
	assert.InDelta(t, 1000, tickers[0].ConvertedVolume.In("usd"), 1e-9)
}

func TestGetTickers_LaterPageFailureKeepsEarlierPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, tickerJSON(100, "Binance"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}, false)

	tickers, err := client.GetTickers(context.Background(), "bonk")
	require.NoError(t, err)
	assert.Len(t, tickers, 100)
}

func TestGetTickers_FirstPageFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, false)

	_, err := client.GetTickers(context.Background(), "bonk")
	assert.Error(t, err)
}

func setupCache(t *testing.T) (*sql.DB, *clientdata.Repository) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := database.Schema("client_data")
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	return db, clientdata.NewRepository(db)
}

func TestGetTickers_CachesAssembledList(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, tickerJSON(100, "Binance"))
			return
		}
		fmt.Fprint(w, tickerJSON(5, "Bybit"))
	}))
	t.Cleanup(server.Close)

	db, cache := setupCache(t)
	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, cache, zerolog.Nop())

	first, err := client.GetTickers(context.Background(), "bonk")
	require.NoError(t, err)
	require.Len(t, first, 105)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM coingecko_tickers").Scan(&rows))
	assert.Equal(t, 1, rows)

	second, err := client.GetTickers(context.Background(), "bonk")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests), "second call should be served from cache")
}

func TestGetTickers_StaleListOnFirstPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	_, cache := setupCache(t)
	require.NoError(t, cache.Store(clientdata.TableTickers, "bonk", []Ticker{
		{Base: "BONK", Target: "USDT", Market: Market{Name: "Binance"}},
	}, -time.Minute))

	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, cache, zerolog.Nop())

	tickers, err := client.GetTickers(context.Background(), "bonk")
	require.NoError(t, err)
	require.Len(t, tickers, 1)
	assert.Equal(t, "Binance", tickers[0].Market.Name)
}
