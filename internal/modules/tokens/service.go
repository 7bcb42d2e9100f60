package tokens

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aristath/bonkdash/internal/clients/coingecko"
	"github.com/aristath/bonkdash/internal/clients/lunarcrush"
	"github.com/aristath/bonkdash/pkg/format"
	"github.com/aristath/bonkdash/pkg/formulas"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoData is returned when every upstream source of a snapshot failed
	ErrNoData = errors.New("no market or social data available")
	// ErrInvalidTimeRange is returned for a time range the analytics view does not offer
	ErrInvalidTimeRange = errors.New("invalid time range")
)

// DefaultTimeRange is used when no time range is requested.
const DefaultTimeRange = "1w"

// timeRangeBuckets maps an analytics time range to its series bucket size.
var timeRangeBuckets = map[string]string{
	"1d":  "hour",
	"1w":  "hour",
	"1m":  "day",
	"3m":  "day",
	"6m":  "day",
	"1y":  "day",
	"all": "day",
}

// Analytics metric names, in correlation matrix order.
const (
	MetricPrice           = "price"
	MetricVolume          = "volume"
	MetricMarketCap       = "marketCap"
	MetricSentiment       = "sentiment"
	MetricInteractions    = "interactions"
	MetricSocialDominance = "socialDominance"
	MetricGalaxyScore     = "galaxyScore"
	MetricAltRank         = "altRank"
)

// CorrelationOrder is the row/column order of the analytics correlation matrix.
var CorrelationOrder = []string{
	MetricPrice,
	MetricVolume,
	MetricMarketCap,
	MetricSentiment,
	MetricInteractions,
	MetricSocialDominance,
	MetricGalaxyScore,
	MetricAltRank,
}

// MarketSource provides CoinGecko market data.
type MarketSource interface {
	GetMarketChart(ctx context.Context, id, vsCurrency, days string) (*coingecko.MarketChart, error)
	GetCoin(ctx context.Context, id string) (*coingecko.Coin, error)
}

// SocialSource provides LunarCrush coin metrics.
type SocialSource interface {
	GetCoin(ctx context.Context, coin string) (*lunarcrush.CoinMetrics, error)
	GetTimeSeries(ctx context.Context, coin, bucket, interval string) ([]lunarcrush.SeriesPoint, error)
}

// Service assembles token views from market and social sources.
type Service struct {
	market MarketSource
	social SocialSource
	vs     string
	now    func() time.Time
	log    zerolog.Logger
}

// NewService creates a tokens service pricing in vsCurrency.
func NewService(market MarketSource, social SocialSource, vsCurrency string, log zerolog.Logger) *Service {
	return &Service{
		market: market,
		social: social,
		vs:     vsCurrency,
		now:    time.Now,
		log:    log.With().Str("service", "tokens").Logger(),
	}
}

// GetTokenChart returns the price chart of a coin with SMA(7), SMA(25), EMA(12) and RSI(14).
func (s *Service) GetTokenChart(ctx context.Context, id, days string) (*TokenChart, error) {
	days = coingecko.NormalizeDays(days)

	chart, err := s.market.GetMarketChart(ctx, id, s.vs, days)
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, len(chart.Prices))
	prices := make([]float64, len(chart.Prices))
	volumes := make([]float64, 0, len(chart.Prices))
	for i, p := range chart.Prices {
		points[i] = ChartPoint{Time: p.Time, Price: p.Value}
		prices[i] = p.Value
		if i < len(chart.TotalVolumes) {
			points[i].Volume = chart.TotalVolumes[i].Value
			volumes = append(volumes, points[i].Volume)
		}
		if i < len(chart.MarketCaps) {
			points[i].MarketCap = chart.MarketCaps[i].Value
		}
	}

	sma7 := formulas.SMA(prices, 7)
	sma25 := formulas.SMA(prices, 25)
	ema12 := formulas.EMA(prices, 12)
	rsi14 := formulas.RSI(prices, 14)
	for i := range points {
		points[i].SMA7 = at(sma7, i)
		points[i].SMA25 = at(sma25, i)
		points[i].EMA12 = at(ema12, i)
		points[i].RSI14 = at(rsi14, i)
	}

	stats := chartStats(prices, volumes)
	stats.LatestRSI = formulas.Last(rsi14)

	return &TokenChart{
		ID:         id,
		VsCurrency: s.vs,
		Days:       days,
		Points:     points,
		Stats:      stats,
	}, nil
}

func at(series []*float64, i int) *float64 {
	if i < len(series) {
		return series[i]
	}
	return nil
}

func chartStats(prices, volumes []float64) ChartStats {
	var st ChartStats
	if len(prices) > 0 {
		st.Low, st.High = formulas.MinMax(prices)
		st.First = prices[0]
		st.Last = prices[len(prices)-1]
		st.ChangePct = formulas.PercentChange(st.First, st.Last)
	}
	st.AverageVolume = formulas.Mean(volumes)

	st.HighDisplay = format.FormatPrice(st.High)
	st.LowDisplay = format.FormatPrice(st.Low)
	st.ChangeDisplay = format.FormatPercentage(st.ChangePct)
	st.AverageVolumeDisplay = format.FormatCurrency(st.AverageVolume)
	return st
}

// GetSnapshot fetches CoinGecko and LunarCrush data concurrently and merges them.
// One failing source is reported in Warnings; both failing returns ErrNoData.
func (s *Service) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	var (
		coin      *coingecko.Coin
		social    *lunarcrush.CoinMetrics
		coinErr   error
		socialErr error
	)

	// Each source records its own error so one failure does not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		coin, coinErr = s.market.GetCoin(ctx, id)
		return nil
	})
	g.Go(func() error {
		social, socialErr = s.social.GetCoin(ctx, id)
		return nil
	})
	_ = g.Wait()

	if coinErr != nil && socialErr != nil {
		s.log.Error().Err(coinErr).AnErr("social_error", socialErr).Str("coin", id).Msg("All snapshot sources failed")
		return nil, fmt.Errorf("%w for %s: %v; %v", ErrNoData, id, coinErr, socialErr)
	}

	snap := &Snapshot{ID: id, Warnings: []string{}, UpdatedAt: s.now().UTC()}

	if coinErr != nil {
		s.log.Warn().Err(coinErr).Str("coin", id).Msg("CoinGecko unavailable for snapshot")
		snap.Warnings = append(snap.Warnings, "market data unavailable")
	} else {
		s.applyMarket(snap, coin)
		snap.hasMarket = true
	}

	if socialErr != nil {
		s.log.Warn().Err(socialErr).Str("coin", id).Msg("LunarCrush unavailable for snapshot")
		snap.Warnings = append(snap.Warnings, "social data unavailable")
	} else {
		applySocial(snap, social, coinErr != nil)
		snap.hasSocial = true
		snap.hasMarket = true
	}

	snap.PriceDisplay = format.FormatPrice(snap.Price)
	snap.MarketCapDisplay = format.FormatCurrency(snap.MarketCap)
	snap.VolumeDisplay = format.FormatCurrency(snap.Volume24h)
	snap.ChangeDisplay = format.FormatPercentage(snap.Change24h)
	snap.InteractionsDisplay = format.FormatNumber(snap.Interactions24h)

	return snap, nil
}

func (s *Service) applyMarket(snap *Snapshot, coin *coingecko.Coin) {
	md := coin.MarketData
	snap.Symbol = strings.ToUpper(coin.Symbol)
	snap.Name = coin.Name
	snap.Rank = coin.MarketCapRank
	snap.Price = md.CurrentPrice.In(s.vs)
	snap.MarketCap = md.MarketCap.In(s.vs)
	snap.Volume24h = md.TotalVolume.In(s.vs)
	snap.High24h = md.High24h.In(s.vs)
	snap.Low24h = md.Low24h.In(s.vs)
	snap.Change24h = md.PriceChangePercentage24h
	snap.Change7d = md.PriceChangePercentage7d
	snap.CirculatingSupply = md.CirculatingSupply
}

// applySocial copies social metrics. Market fields are taken from LunarCrush only
// when CoinGecko failed.
func applySocial(snap *Snapshot, m *lunarcrush.CoinMetrics, marketMissing bool) {
	snap.GalaxyScore = m.GalaxyScore
	snap.AltRank = m.AltRank
	snap.Sentiment = m.Sentiment
	snap.SocialDominance = m.SocialDominance
	snap.Interactions24h = m.Interactions24h
	snap.SocialVolume24h = m.SocialVolume24h

	if !marketMissing {
		return
	}
	snap.Symbol = strings.ToUpper(m.Symbol)
	snap.Name = m.Name
	snap.Rank = m.MarketCapRank
	snap.Price = m.Price
	snap.MarketCap = m.MarketCap
	snap.Volume24h = m.Volume24h
	snap.Change24h = m.PercentChange24h
	snap.Change7d = m.PercentChange7d
	snap.CirculatingSupply = m.CirculatingSupply
}

// GetMetrics returns the alert metrics of a coin's current snapshot.
func (s *Service) GetMetrics(ctx context.Context, id string) (map[string]float64, error) {
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return snap.Metrics(), nil
}

// BucketFor returns the series bucket of a time range, or ErrInvalidTimeRange.
// An empty range means DefaultTimeRange.
func BucketFor(timeRange string) (string, string, error) {
	timeRange = strings.ToLower(strings.TrimSpace(timeRange))
	if timeRange == "" {
		timeRange = DefaultTimeRange
	}
	bucket, ok := timeRangeBuckets[timeRange]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidTimeRange, timeRange)
	}
	return timeRange, bucket, nil
}

// GetSocialAnalytics returns the social time series of a coin with the metric
// correlation matrix and per-metric summaries.
func (s *Service) GetSocialAnalytics(ctx context.Context, coinID, timeRange string) (*Analytics, error) {
	timeRange, bucket, err := BucketFor(timeRange)
	if err != nil {
		return nil, err
	}

	series, err := s.social.GetTimeSeries(ctx, coinID, bucket, timeRange)
	if err != nil {
		return nil, err
	}

	sorted := make([]lunarcrush.SeriesPoint, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	points := make([]SocialPoint, len(sorted))
	columns := make(map[string][]float64, len(CorrelationOrder))
	for i, p := range sorted {
		points[i] = SocialPoint{
			Time:            p.At(),
			Price:           p.Close,
			Volume:          p.Volume24h,
			MarketCap:       p.MarketCap,
			Sentiment:       p.Sentiment,
			Interactions:    p.Interactions,
			SocialDominance: p.SocialDominance,
			GalaxyScore:     p.GalaxyScore,
			AltRank:         p.AltRank,
			Contributors:    p.ContributorsActive,
			Posts:           p.PostsActive,
		}
		for name, v := range points[i].values() {
			columns[name] = append(columns[name], v)
		}
	}

	metrics := make(map[string]MetricSummary, len(CorrelationOrder))
	for _, name := range CorrelationOrder {
		values := columns[name]
		var m MetricSummary
		if len(values) > 0 {
			m.Latest = values[len(values)-1]
			m.Average = formulas.Mean(values)
			m.ChangePct = formulas.PercentChange(values[0], m.Latest)
		}
		metrics[name] = m
	}

	s.log.Debug().Str("coin", coinID).Str("range", timeRange).Int("points", len(points)).Msg("Built social analytics")

	return &Analytics{
		CoinID:      coinID,
		TimeRange:   timeRange,
		Bucket:      bucket,
		Points:      points,
		Correlation: formulas.CorrelationMatrix(columns, CorrelationOrder),
		Metrics:     metrics,
	}, nil
}

func (p SocialPoint) values() map[string]float64 {
	return map[string]float64{
		MetricPrice:           p.Price,
		MetricVolume:          p.Volume,
		MetricMarketCap:       p.MarketCap,
		MetricSentiment:       p.Sentiment,
		MetricInteractions:    p.Interactions,
		MetricSocialDominance: p.SocialDominance,
		MetricGalaxyScore:     p.GalaxyScore,
		MetricAltRank:         p.AltRank,
	}
}
