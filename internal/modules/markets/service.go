package markets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/bonkdash/internal/clients/coingecko"
	"github.com/aristath/bonkdash/internal/utils"
	"github.com/aristath/bonkdash/pkg/format"
	"github.com/aristath/bonkdash/pkg/formulas"
	"github.com/rs/zerolog"
)

// TickerSource provides exchange tickers for a coin.
type TickerSource interface {
	GetTickers(ctx context.Context, coinID string) ([]coingecko.Ticker, error)
}

// Result is one page of the venue table plus the summary of the whole filtered set.
type Result struct {
	CoinID    string            `json:"coinId"`
	Venues    utils.Page[Venue] `json:"venues"`
	Summary   Summary           `json:"summary"`
	Sort      string            `json:"sort"`
	Order     string            `json:"order"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Service builds the venue table for one coin.
type Service struct {
	source TickerSource
	coinID string
	vs     string
	now    func() time.Time
	log    zerolog.Logger
}

// NewService creates a markets service for coinID, pricing in vsCurrency.
func NewService(source TickerSource, coinID, vsCurrency string, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		coinID: coinID,
		vs:     vsCurrency,
		now:    time.Now,
		log:    log.With().Str("service", "markets").Logger(),
	}
}

// GetVenues fetches the coin's tickers and applies q.
func (s *Service) GetVenues(ctx context.Context, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	tickers, err := s.source.GetTickers(ctx, s.coinID)
	if err != nil {
		return nil, fmt.Errorf("failed to load venues: %w", err)
	}

	venues := BuildVenues(tickers, s.vs, q.IncludeAnomalies)
	result, err := Apply(venues, q)
	if err != nil {
		return nil, err
	}
	result.CoinID = s.coinID
	result.UpdatedAt = s.now().UTC()

	s.log.Debug().
		Int("tickers", len(tickers)).
		Int("venues", len(venues)).
		Int("matched", result.Summary.Count).
		Msg("Built venue table")

	return result, nil
}

// BuildVenues converts tickers to venues, keeping the first listing of every
// exchange/base/target combination. Anomalous listings are dropped before
// deduplication unless includeAnomalies is set, so a flagged listing cannot
// shadow a clean one of the same pair.
func BuildVenues(tickers []coingecko.Ticker, vsCurrency string, includeAnomalies bool) []Venue {
	venues := make([]Venue, 0, len(tickers))
	for _, t := range tickers {
		v := venueFromTicker(t, vsCurrency)
		if v.Anomaly && !includeAnomalies {
			continue
		}
		venues = append(venues, v)
	}
	return utils.DedupeBy(venues, Venue.key)
}

func venueFromTicker(t coingecko.Ticker, vs string) Venue {
	price := t.ConvertedLast.In(vs)
	if price == 0 {
		price = t.Last
	}

	v := Venue{
		Exchange:   t.Market.Name,
		ExchangeID: t.Market.Identifier,
		Pair:       t.Base + "/" + t.Target,
		Base:       t.Base,
		Target:     t.Target,
		Price:      price,
		Volume24h:  t.ConvertedVolume.In(vs),
		SpreadPct:  t.BidAskSpreadPercentage,
		DepthUp:    t.CostToMoveUpUSD,
		DepthDown:  t.CostToMoveDownUSD,
		TrustScore: strings.ToLower(t.TrustScore),
		LastTraded: parseTime(t.LastTradedAt),
		Stale:      t.IsStale,
		Anomaly:    t.IsAnomaly,
		TradeURL:   t.TradeURL,
	}
	if v.ExchangeID == "" {
		v.ExchangeID = strings.ToLower(v.Exchange)
	}

	v.PriceDisplay = format.FormatPrice(v.Price)
	v.VolumeDisplay = format.FormatCurrency(v.Volume24h)
	v.SpreadDisplay = format.FormatNumber(v.SpreadPct) + "%"
	return v
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// Apply filters, summarizes, sorts and paginates venues. The input is not modified.
func Apply(venues []Venue, q Query) (*Result, error) {
	filtered := Filter(venues, q)

	sorted, err := Sort(filtered, q.Sort, q.Order)
	if err != nil {
		return nil, err
	}

	return &Result{
		Venues:  utils.Paginate(sorted, q.Page, q.PageSize),
		Summary: Summarize(filtered),
		Sort:    q.Sort,
		Order:   q.Order,
	}, nil
}

// Summarize aggregates a venue set. VWAP and the top venue are volume based.
func Summarize(venues []Venue) Summary {
	s := Summary{
		Count:       len(venues),
		TrustCounts: map[string]int{TrustGreen: 0, TrustYellow: 0, TrustRed: 0},
	}

	spreads := make([]float64, 0, len(venues))
	exchanges := make(map[string]bool)
	var weighted float64

	for i := range venues {
		v := venues[i]
		s.TotalVolume += v.Volume24h
		weighted += v.Price * v.Volume24h
		spreads = append(spreads, v.SpreadPct)
		exchanges[v.ExchangeID] = true

		if v.TrustScore != "" {
			s.TrustCounts[v.TrustScore]++
		}
		if s.TopVenue == nil || v.Volume24h > s.TopVenue.Volume24h {
			top := v
			s.TopVenue = &top
		}
	}

	if s.TotalVolume > 0 {
		s.VWAP = weighted / s.TotalVolume
	}
	s.AverageSpread = formulas.Mean(spreads)
	s.Exchanges = len(exchanges)

	s.TotalVolumeDisplay = format.FormatCurrency(s.TotalVolume)
	s.VWAPDisplay = format.FormatPrice(s.VWAP)
	s.AverageSpreadDisplay = format.FormatNumber(s.AverageSpread) + "%"
	return s
}
