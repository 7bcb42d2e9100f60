package markets

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/aristath/bonkdash/internal/utils"
)

var (
	// ErrInvalidSort is returned for a sort field the table does not offer
	ErrInvalidSort = errors.New("invalid sort field")
	// ErrInvalidOrder is returned for an order other than asc/desc
	ErrInvalidOrder = errors.New("invalid sort order")
)

// Sort fields accepted by Query.Sort.
const (
	SortPrice      = "price"
	SortVolume     = "volume"
	SortSpread     = "spread"
	SortDepth      = "depth"
	SortTrust      = "trust"
	SortExchange   = "exchange"
	SortPair       = "pair"
	SortLastTraded = "lastTraded"
)

// Sort orders accepted by Query.Order.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

var trustRank = map[string]int{TrustGreen: 3, TrustYellow: 2, TrustRed: 1}

// less functions compare ascending; descending order flips the arguments so
// equal elements keep their upstream order either way.
var sortFields = map[string]func(a, b Venue) bool{
	SortPrice:      func(a, b Venue) bool { return a.Price < b.Price },
	SortVolume:     func(a, b Venue) bool { return a.Volume24h < b.Volume24h },
	SortSpread:     func(a, b Venue) bool { return a.SpreadPct < b.SpreadPct },
	SortDepth:      func(a, b Venue) bool { return a.Depth() < b.Depth() },
	SortTrust:      func(a, b Venue) bool { return trustRank[a.TrustScore] < trustRank[b.TrustScore] },
	SortExchange:   func(a, b Venue) bool { return strings.ToLower(a.Exchange) < strings.ToLower(b.Exchange) },
	SortPair:       func(a, b Venue) bool { return a.Pair < b.Pair },
	SortLastTraded: func(a, b Venue) bool { return a.LastTraded.Before(b.LastTraded) },
}

// Query holds the filter, sort and page settings of the venue table.
type Query struct {
	Search           string   // Substring of exchange or pair, case-insensitive
	Exchanges        []string // Exchange names or ids, case-insensitive
	Trust            []string // Trust scores to keep
	MinVolume        float64
	MaxSpread        float64 // 0 means no limit
	ExcludeStale     bool
	IncludeAnomalies bool
	Sort             string
	Order            string
	Page             int
	PageSize         int
}

// DefaultQuery sorts by volume, highest first.
func DefaultQuery() Query {
	return Query{Sort: SortVolume, Order: OrderDesc, Page: 1, PageSize: utils.DefaultPageSize}
}

// ParseQuery reads a Query from URL parameters.
func ParseQuery(v url.Values) (Query, error) {
	q := DefaultQuery()
	q.Search = strings.TrimSpace(v.Get("search"))
	q.Exchanges = utils.ParseCSV(v.Get("exchange"))
	q.Trust = utils.ParseCSV(strings.ToLower(v.Get("trust")))
	q.MinVolume = utils.QueryFloat(v, "minVolume", 0)
	q.MaxSpread = utils.QueryFloat(v, "maxSpread", 0)
	q.ExcludeStale = utils.QueryBool(v, "excludeStale", false)
	q.IncludeAnomalies = utils.QueryBool(v, "includeAnomalies", false)
	q.Page = utils.QueryInt(v, "page", 1)
	q.PageSize = utils.QueryInt(v, "pageSize", utils.DefaultPageSize)

	if s := strings.TrimSpace(v.Get("sort")); s != "" {
		q.Sort = s
	}
	if o := strings.ToLower(strings.TrimSpace(v.Get("order"))); o != "" {
		q.Order = o
	}

	return q, q.Validate()
}

// Validate checks the sort field and order.
func (q Query) Validate() error {
	if _, ok := sortFields[q.Sort]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSort, q.Sort)
	}
	if q.Order != OrderAsc && q.Order != OrderDesc {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, q.Order)
	}
	return nil
}

// Filter returns the venues matching q, in their original order.
func Filter(venues []Venue, q Query) []Venue {
	out := make([]Venue, 0, len(venues))
	for _, v := range venues {
		if v.Anomaly && !q.IncludeAnomalies {
			continue
		}
		if q.ExcludeStale && v.Stale {
			continue
		}
		if v.Volume24h < q.MinVolume {
			continue
		}
		if q.MaxSpread > 0 && v.SpreadPct > q.MaxSpread {
			continue
		}
		if q.Search != "" && !utils.ContainsFold(v.Exchange, q.Search) && !utils.ContainsFold(v.Pair, q.Search) {
			continue
		}
		if len(q.Exchanges) > 0 && !matchesAny(q.Exchanges, v.Exchange, v.ExchangeID) {
			continue
		}
		if len(q.Trust) > 0 && !matchesAny(q.Trust, v.TrustScore) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Sort returns a stably sorted copy of venues.
func Sort(venues []Venue, field, order string) ([]Venue, error) {
	less, ok := sortFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, field)
	}

	out := make([]Venue, len(venues))
	copy(out, venues)

	if order == OrderDesc {
		sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out, nil
}

func matchesAny(wanted []string, values ...string) bool {
	for _, w := range wanted {
		for _, v := range values {
			if strings.EqualFold(w, v) {
				return true
			}
		}
	}
	return false
}
