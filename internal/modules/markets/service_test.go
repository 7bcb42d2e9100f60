package markets

import (
	"context"
	"errors"
	"testing"

	"github.com/aristath/bonkdash/internal/clients/coingecko"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTickerSource mocks the CoinGecko tickers endpoint
type MockTickerSource struct {
	mock.Mock
}

func (m *MockTickerSource) GetTickers(ctx context.Context, coinID string) ([]coingecko.Ticker, error) {
	args := m.Called(ctx, coinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]coingecko.Ticker), args.Error(1)
}

func venue(exchange, pair string, price, volume, spread float64, trust string) Venue {
	return Venue{
		Exchange:   exchange,
		ExchangeID: exchange,
		Pair:       pair,
		Price:      price,
		Volume24h:  volume,
		SpreadPct:  spread,
		TrustScore: trust,
	}
}

func exchanges(venues []Venue) []string {
	out := make([]string, len(venues))
	for i, v := range venues {
		out[i] = v.Exchange
	}
	return out
}

func TestSort_NumericAscendingAndDescending(t *testing.T) {
	venues := []Venue{
		venue("a", "BONK/USDT", 3, 0, 0, ""),
		venue("b", "BONK/USDT", 1, 0, 0, ""),
		venue("c", "BONK/USDT", 2, 0, 0, ""),
	}

	asc, err := Sort(venues, SortPrice, OrderAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, exchanges(asc))

	desc, err := Sort(venues, SortPrice, OrderDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, exchanges(desc))

	// input untouched
	assert.Equal(t, []string{"a", "b", "c"}, exchanges(venues))
}

func TestSort_StableForTies(t *testing.T) {
	venues := []Venue{
		venue("first", "X", 0, 100, 0, ""),
		venue("second", "X", 0, 50, 0, ""),
		venue("third", "X", 0, 100, 0, ""),
		venue("fourth", "X", 0, 50, 0, ""),
	}

	desc, err := Sort(venues, SortVolume, OrderDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "third", "second", "fourth"}, exchanges(desc))

	asc, err := Sort(venues, SortVolume, OrderAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "fourth", "first", "third"}, exchanges(asc))
}

func TestSort_TrustAndExchange(t *testing.T) {
	venues := []Venue{
		venue("Kraken", "X", 0, 0, 0, TrustRed),
		venue("binance", "X", 0, 0, 0, TrustGreen),
		venue("Coinbase", "X", 0, 0, 0, ""),
		venue("bybit", "X", 0, 0, 0, TrustYellow),
	}

	byTrust, err := Sort(venues, SortTrust, OrderDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"binance", "bybit", "Kraken", "Coinbase"}, exchanges(byTrust))

	byName, err := Sort(venues, SortExchange, OrderAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"binance", "bybit", "Coinbase", "Kraken"}, exchanges(byName))
}

func TestSort_UnknownField(t *testing.T) {
	_, err := Sort(nil, "marketCap", OrderAsc)
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestFilter(t *testing.T) {
	anomaly := venue("weird", "BONK/USDT", 1, 5000, 0.1, TrustGreen)
	anomaly.Anomaly = true
	stale := venue("sleepy", "BONK/USDT", 1, 5000, 0.1, TrustGreen)
	stale.Stale = true

	venues := []Venue{
		venue("Binance", "BONK/USDT", 1, 5000, 0.1, TrustGreen),
		venue("Bybit", "BONK/USDC", 1, 50, 0.2, TrustYellow),
		venue("Gate", "BONK/USDT", 1, 9000, 3, TrustRed),
		anomaly,
		stale,
	}

	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{"default drops anomalies", DefaultQuery(), []string{"Binance", "Bybit", "Gate", "sleepy"}},
		{"include anomalies", Query{IncludeAnomalies: true}, []string{"Binance", "Bybit", "Gate", "weird", "sleepy"}},
		{"exclude stale", Query{ExcludeStale: true}, []string{"Binance", "Bybit", "Gate"}},
		{"search matches pair", Query{Search: "usdc"}, []string{"Bybit"}},
		{"search matches exchange", Query{Search: "BIN"}, []string{"Binance"}},
		{"exchange filter", Query{Exchanges: []string{"gate", "bybit"}}, []string{"Bybit", "Gate"}},
		{"trust filter", Query{Trust: []string{TrustGreen}}, []string{"Binance", "sleepy"}},
		{"min volume", Query{MinVolume: 100}, []string{"Binance", "Gate", "sleepy"}},
		{"max spread", Query{MaxSpread: 1}, []string{"Binance", "Bybit", "sleepy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exchanges(Filter(venues, tt.query)))
		})
	}
}

func TestBuildVenues_DedupesByExchangeAndPair(t *testing.T) {
	tickers := []coingecko.Ticker{
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "Binance", Identifier: "binance"}, ConvertedVolume: coingecko.Currencies{"usd": 10}},
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "Binance", Identifier: "binance"}, ConvertedVolume: coingecko.Currencies{"usd": 99}},
		{Base: "BONK", Target: "USDC", Market: coingecko.Market{Name: "Binance", Identifier: "binance"}},
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "Bybit"}, Last: 0.00002, TrustScore: "Green", LastTradedAt: "2024-05-01T10:00:00+00:00"},
	}

	venues := BuildVenues(tickers, "usd", false)
	require.Len(t, venues, 3)

	assert.Equal(t, 10.0, venues[0].Volume24h, "first occurrence wins")
	assert.Equal(t, "BONK/USDC", venues[1].Pair)

	bybit := venues[2]
	assert.Equal(t, "bybit", bybit.ExchangeID)
	assert.Equal(t, 0.00002, bybit.Price, "falls back to the raw last price")
	assert.Equal(t, TrustGreen, bybit.TrustScore)
	assert.Equal(t, 2024, bybit.LastTraded.Year())
	assert.Equal(t, "$0.00002000", bybit.PriceDisplay)
}

func TestBuildVenues_AnomalyDoesNotShadowCleanListing(t *testing.T) {
	tickers := []coingecko.Ticker{
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "Binance", Identifier: "binance"}, ConvertedVolume: coingecko.Currencies{"usd": 5}, IsAnomaly: true},
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "Binance", Identifier: "binance"}, ConvertedVolume: coingecko.Currencies{"usd": 7}},
	}

	result, err := Apply(BuildVenues(tickers, "usd", false), DefaultQuery())
	require.NoError(t, err)
	require.Len(t, result.Venues.Items, 1)
	assert.False(t, result.Venues.Items[0].Anomaly)
	assert.Equal(t, 7.0, result.Venues.Items[0].Volume24h)

	withAnomalies := BuildVenues(tickers, "usd", true)
	require.Len(t, withAnomalies, 1)
	assert.True(t, withAnomalies[0].Anomaly, "first listing wins when anomalies are kept")
}

func TestGetVenues_IncludeAnomalies(t *testing.T) {
	source := new(MockTickerSource)
	source.On("GetTickers", mock.Anything, "bonk").Return([]coingecko.Ticker{
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "A", Identifier: "a"}, IsAnomaly: true},
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "B", Identifier: "b"}},
	}, nil)
	service := NewService(source, "bonk", "usd", zerolog.Nop())

	result, err := service.GetVenues(context.Background(), DefaultQuery())
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, exchanges(result.Venues.Items))

	q := DefaultQuery()
	q.IncludeAnomalies = true
	result, err = service.GetVenues(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Venues.Total)
}

func TestSummarize(t *testing.T) {
	venues := []Venue{
		venue("binance", "BONK/USDT", 2, 300, 0.2, TrustGreen),
		venue("binance", "BONK/USDC", 4, 100, 0.4, TrustGreen),
		venue("gate", "BONK/USDT", 1, 600, 0.6, TrustRed),
	}

	s := Summarize(venues)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1000.0, s.TotalVolume)
	assert.InDelta(t, (2*300+4*100+1*600)/1000.0, s.VWAP, 1e-12)
	assert.InDelta(t, 0.4, s.AverageSpread, 1e-12)
	assert.Equal(t, map[string]int{TrustGreen: 2, TrustYellow: 0, TrustRed: 1}, s.TrustCounts)
	require.NotNil(t, s.TopVenue)
	assert.Equal(t, "gate", s.TopVenue.Exchange)
	assert.Equal(t, 2, s.Exchanges)
	assert.Equal(t, "$1.00K", s.TotalVolumeDisplay)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.Count)
	assert.Zero(t, s.VWAP)
	assert.Nil(t, s.TopVenue)
}

func TestGetVenues(t *testing.T) {
	source := new(MockTickerSource)
	source.On("GetTickers", mock.Anything, "bonk").Return([]coingecko.Ticker{
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "A", Identifier: "a"}, ConvertedVolume: coingecko.Currencies{"usd": 1}},
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "B", Identifier: "b"}, ConvertedVolume: coingecko.Currencies{"usd": 3}},
		{Base: "BONK", Target: "USDT", Market: coingecko.Market{Name: "C", Identifier: "c"}, ConvertedVolume: coingecko.Currencies{"usd": 2}},
	}, nil)

	service := NewService(source, "bonk", "usd", zerolog.Nop())

	q := DefaultQuery()
	q.PageSize = 2
	q.Page = 2

	result, err := service.GetVenues(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "bonk", result.CoinID)
	assert.Equal(t, []string{"A"}, exchanges(result.Venues.Items))
	assert.Equal(t, 3, result.Venues.Total)
	assert.Equal(t, 3, result.Summary.Count)
	assert.False(t, result.UpdatedAt.IsZero())
	source.AssertExpectations(t)
}

func TestGetVenues_Errors(t *testing.T) {
	source := new(MockTickerSource)
	source.On("GetTickers", mock.Anything, "bonk").Return(nil, errors.New("boom"))
	service := NewService(source, "bonk", "usd", zerolog.Nop())

	_, err := service.GetVenues(context.Background(), DefaultQuery())
	assert.ErrorContains(t, err, "failed to load venues")

	q := DefaultQuery()
	q.Order = "sideways"
	_, err = service.GetVenues(context.Background(), q)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(map[string][]string{
		"search":       {" bonk "},
		"exchange":     {"binance, bybit"},
		"trust":        {"GREEN"},
		"minVolume":    {"1000"},
		"excludeStale": {"true"},
		"sort":         {"spread"},
		"order":        {"ASC"},
		"page":         {"3"},
	})
	require.NoError(t, err)

	assert.Equal(t, "bonk", q.Search)
	assert.Equal(t, []string{"binance", "bybit"}, q.Exchanges)
	assert.Equal(t, []string{"green"}, q.Trust)
	assert.Equal(t, 1000.0, q.MinVolume)
	assert.True(t, q.ExcludeStale)
	assert.Equal(t, SortSpread, q.Sort)
	assert.Equal(t, OrderAsc, q.Order)
	assert.Equal(t, 3, q.Page)

	defaults, err := ParseQuery(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultQuery(), defaults)

	_, err = ParseQuery(map[string][]string{"sort": {"bogus"}})
	assert.ErrorIs(t, err, ErrInvalidSort)
}
