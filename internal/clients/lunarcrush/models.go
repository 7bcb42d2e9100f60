package lunarcrush

import "time"

// CoinMetrics is the data block of /coins/{coin}/v1.
type CoinMetrics struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Symbol             string  `json:"symbol"`
	Price              float64 `json:"price"`
	MarketCap          float64 `json:"market_cap"`
	Volume24h          float64 `json:"volume_24h"`
	PercentChange24h   float64 `json:"percent_change_24h"`
	PercentChange7d    float64 `json:"percent_change_7d"`
	GalaxyScore        float64 `json:"galaxy_score"`
	AltRank            int     `json:"alt_rank"`
	Sentiment          float64 `json:"sentiment"`
	SocialDominance    float64 `json:"social_dominance"`
	Interactions24h    float64 `json:"interactions_24h"`
	SocialVolume24h    float64 `json:"social_volume_24h"`
	ContributorsActive int     `json:"contributors_active"`
	CirculatingSupply  float64 `json:"circulating_supply"`
	MarketCapRank      int     `json:"market_cap_rank"`
	Volatility         float64 `json:"volatility"`
	LastUpdatedPrice   int64   `json:"last_updated_price"`
}

// SeriesPoint is one bucket of /coins/{coin}/time-series/v2.
type SeriesPoint struct {
	Time               int64   `json:"time"`
	Open               float64 `json:"open"`
	Close              float64 `json:"close"`
	High               float64 `json:"high"`
	Low                float64 `json:"low"`
	Volume24h          float64 `json:"volume_24h"`
	MarketCap          float64 `json:"market_cap"`
	Sentiment          float64 `json:"sentiment"`
	Interactions       float64 `json:"interactions"`
	SocialDominance    float64 `json:"social_dominance"`
	GalaxyScore        float64 `json:"galaxy_score"`
	AltRank            float64 `json:"alt_rank"`
	ContributorsActive float64 `json:"contributors_active"`
	PostsActive        float64 `json:"posts_active"`
}

// At returns the bucket start time.
func (p SeriesPoint) At() time.Time {
	return time.Unix(p.Time, 0).UTC()
}

// Creator is one entry of /topic/{topic}/creators/v1.
type Creator struct {
	ID              string  `json:"creator_id"`
	Name            string  `json:"creator_name"`
	DisplayName     string  `json:"creator_display_name"`
	Avatar          string  `json:"creator_avatar"`
	Followers       float64 `json:"creator_followers"`
	Rank            int     `json:"creator_rank"`
	Interactions24h float64 `json:"interactions_24h"`
}

// Post is one entry of /topic/{topic}/posts/v1 and /topic/{topic}/news/v1.
type Post struct {
	ID                 string  `json:"id"`
	Type               string  `json:"post_type"`
	Title              string  `json:"post_title"`
	Link               string  `json:"post_link"`
	Image              string  `json:"post_image"`
	Created            int64   `json:"post_created"`
	Sentiment          float64 `json:"post_sentiment"`
	CreatorID          string  `json:"creator_id"`
	CreatorName        string  `json:"creator_name"`
	CreatorDisplayName string  `json:"creator_display_name"`
	CreatorFollowers   float64 `json:"creator_followers"`
	CreatorAvatar      string  `json:"creator_avatar"`
	Interactions24h    float64 `json:"interactions_24h"`
	InteractionsTotal  float64 `json:"interactions_total"`
}

// CreatedAt returns the post creation time.
func (p Post) CreatedAt() time.Time {
	return time.Unix(p.Created, 0).UTC()
}

// Summary is the /topic/{topic}/whatsup/v1 response.
type Summary struct {
	Summary string `json:"summary"`
	Config  struct {
		Topic     string `json:"topic"`
		Generated int64  `json:"generated"`
	} `json:"config"`
}

type coinResponse struct {
	Data CoinMetrics `json:"data"`
}

type seriesResponse struct {
	Data []SeriesPoint `json:"data"`
}

type creatorsResponse struct {
	Data []Creator `json:"data"`
}

type postsResponse struct {
	Data []Post `json:"data"`
}
