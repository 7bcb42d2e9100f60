// Package social serves creators, posts, news, AI summaries and social dominance for a topic.
package social

import "time"

// Influencer is a ranked creator talking about a topic.
type Influencer struct {
	Rank                int     `json:"rank"`
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	DisplayName         string  `json:"displayName"`
	Avatar              string  `json:"avatar,omitempty"`
	Followers           float64 `json:"followers"`
	Interactions24h     float64 `json:"interactions24h"`
	FollowersDisplay    string  `json:"followersDisplay"`
	InteractionsDisplay string  `json:"interactionsDisplay"`
}

// Creator is the author block of a feed item.
type Creator struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Avatar      string  `json:"avatar,omitempty"`
	Followers   float64 `json:"followers"`
}

// FeedItem is a social post or news article.
type FeedItem struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	Title               string    `json:"title"`
	URL                 string    `json:"url"`
	Image               string    `json:"image,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	Sentiment           float64   `json:"sentiment"`
	Interactions        float64   `json:"interactions"`
	Creator             Creator   `json:"creator"`
	RelativeTime        string    `json:"relativeTime"`
	InteractionsDisplay string    `json:"interactionsDisplay"`
}

// Summary is the AI generated overview of a topic.
type Summary struct {
	Topic       string    `json:"topic"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// DominancePoint is one hourly social dominance value.
type DominancePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Dominance summarizes a topic's share of crypto social volume over the last week.
type Dominance struct {
	Topic   string           `json:"topic"`
	Current float64          `json:"current"`
	DayAgo  float64          `json:"dayAgo"`
	Change  float64          `json:"change"` // percentage points
	Average float64          `json:"average"`
	Min     float64          `json:"min"`
	Max     float64          `json:"max"`
	Series  []DominancePoint `json:"series"`
}
