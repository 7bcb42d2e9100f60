package social

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/aristath/bonkdash/internal/clients/lunarcrush"
	"github.com/aristath/bonkdash/internal/utils"
	"github.com/aristath/bonkdash/pkg/format"
	"github.com/aristath/bonkdash/pkg/formulas"
	"github.com/rs/zerolog"
)

// ErrInvalidTopic is returned when a topic is empty after normalization
var ErrInvalidTopic = errors.New("topic is required")

// Source provides LunarCrush topic data.
type Source interface {
	GetCreators(ctx context.Context, topic string) ([]lunarcrush.Creator, error)
	GetPosts(ctx context.Context, topic string) ([]lunarcrush.Post, error)
	GetNews(ctx context.Context, topic string) ([]lunarcrush.Post, error)
	GetSummary(ctx context.Context, topic string) (*lunarcrush.Summary, error)
	GetTimeSeries(ctx context.Context, coin, bucket, interval string) ([]lunarcrush.SeriesPoint, error)
}

// Service converts LunarCrush topic data into display records.
type Service struct {
	source Source
	now    func() time.Time
	log    zerolog.Logger
}

// NewService creates a social service.
func NewService(source Source, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		now:    time.Now,
		log:    log.With().Str("service", "social").Logger(),
	}
}

// Topic normalizes a topic id ("$BONK" -> "bonk").
func Topic(raw string) (string, error) {
	topic := utils.NormalizeTopic(raw)
	if topic == "" {
		return "", ErrInvalidTopic
	}
	return topic, nil
}

// GetInfluencers returns creators ranked by creator rank, then followers.
// limit <= 0 returns all of them.
func (s *Service) GetInfluencers(ctx context.Context, topic string, limit int) ([]Influencer, error) {
	creators, err := s.source.GetCreators(ctx, topic)
	if err != nil {
		return nil, err
	}

	ranked := make([]lunarcrush.Creator, len(creators))
	copy(ranked, creators)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Rank != b.Rank {
			// unranked creators go last
			if a.Rank == 0 || b.Rank == 0 {
				return b.Rank == 0
			}
			return a.Rank < b.Rank
		}
		return a.Followers > b.Followers
	})
	ranked = head(ranked, limit)

	out := make([]Influencer, len(ranked))
	for i, c := range ranked {
		out[i] = Influencer{
			Rank:                i + 1,
			ID:                  c.ID,
			Name:                c.Name,
			DisplayName:         displayName(c.DisplayName, c.Name),
			Avatar:              c.Avatar,
			Followers:           c.Followers,
			Interactions24h:     c.Interactions24h,
			FollowersDisplay:    format.FormatNumber(c.Followers),
			InteractionsDisplay: format.FormatNumber(c.Interactions24h),
		}
	}
	return out, nil
}

// GetFeed returns social posts newest first. limit <= 0 returns all of them.
func (s *Service) GetFeed(ctx context.Context, topic string, limit int) ([]FeedItem, error) {
	posts, err := s.source.GetPosts(ctx, topic)
	if err != nil {
		return nil, err
	}
	return s.feedItems(posts, limit), nil
}

// GetNews returns news articles newest first. limit <= 0 returns all of them.
func (s *Service) GetNews(ctx context.Context, topic string, limit int) ([]FeedItem, error) {
	articles, err := s.source.GetNews(ctx, topic)
	if err != nil {
		return nil, err
	}
	return s.feedItems(articles, limit), nil
}

func (s *Service) feedItems(posts []lunarcrush.Post, limit int) []FeedItem {
	now := s.now()

	items := make([]FeedItem, len(posts))
	for i, p := range posts {
		interactions := p.Interactions24h
		if interactions == 0 {
			interactions = p.InteractionsTotal
		}
		created := time.Time{}
		if p.Created > 0 {
			created = p.CreatedAt()
		}

		items[i] = FeedItem{
			ID:           p.ID,
			Type:         p.Type,
			Title:        strings.TrimSpace(p.Title),
			URL:          p.Link,
			Image:        p.Image,
			CreatedAt:    created,
			Sentiment:    p.Sentiment,
			Interactions: interactions,
			Creator: Creator{
				ID:          p.CreatorID,
				Name:        p.CreatorName,
				DisplayName: displayName(p.CreatorDisplayName, p.CreatorName),
				Avatar:      p.CreatorAvatar,
				Followers:   p.CreatorFollowers,
			},
			RelativeTime:        format.FormatRelativeTime(created, now),
			InteractionsDisplay: format.FormatNumber(interactions),
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return head(items, limit)
}

// GetSummary returns the AI summary of a topic.
func (s *Service) GetSummary(ctx context.Context, topic string) (*Summary, error) {
	resp, err := s.source.GetSummary(ctx, topic)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Topic: topic, Summary: strings.TrimSpace(resp.Summary)}
	if resp.Config.Generated > 0 {
		summary.GeneratedAt = time.Unix(resp.Config.Generated, 0).UTC()
	}
	return summary, nil
}

// GetSocialDominance returns a week of hourly social dominance with its summary values.
func (s *Service) GetSocialDominance(ctx context.Context, topic string) (*Dominance, error) {
	points, err := s.source.GetTimeSeries(ctx, topic, "hour", "1w")
	if err != nil {
		return nil, err
	}

	series := make([]DominancePoint, len(points))
	for i, p := range points {
		series[i] = DominancePoint{Time: p.At(), Value: p.SocialDominance}
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })

	return summarizeDominance(topic, series), nil
}

func summarizeDominance(topic string, series []DominancePoint) *Dominance {
	d := &Dominance{Topic: topic, Series: series}
	if len(series) == 0 {
		return d
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}

	last := series[len(series)-1]
	d.Current = last.Value
	d.DayAgo = series[0].Value

	// latest point at least 24 hours older than the current one
	cutoff := last.Time.Add(-24 * time.Hour)
	for i := len(series) - 1; i >= 0; i-- {
		if !series[i].Time.After(cutoff) {
			d.DayAgo = series[i].Value
			break
		}
	}

	d.Change = d.Current - d.DayAgo
	d.Average = formulas.Mean(values)
	d.Min, d.Max = formulas.MinMax(values)
	return d
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func displayName(display, name string) string {
	if display != "" {
		return display
	}
	return name
}
