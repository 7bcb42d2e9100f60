package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/aristath/bonkdash/internal/modules/social"
	"github.com/aristath/bonkdash/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrMissingQuery is returned for an empty search
	ErrMissingQuery = errors.New("search query is required")
	// ErrAllSourcesFailed is returned when no requested section could be loaded
	ErrAllSourcesFailed = errors.New("all search sources failed")
)

// Source provides the searchable social records of a topic.
type Source interface {
	GetFeed(ctx context.Context, topic string, limit int) ([]social.FeedItem, error)
	GetNews(ctx context.Context, topic string, limit int) ([]social.FeedItem, error)
	GetInfluencers(ctx context.Context, topic string, limit int) ([]social.Influencer, error)
}

var _ Source = (*social.Service)(nil)

// Section is one paginated result list. Error is set when its source failed.
type Section[T any] struct {
	utils.Page[T]
	Error string `json:"error,omitempty"`
}

// Results is the meta search response. Sections outside the selected tab are nil.
type Results struct {
	Query    string                      `json:"query"`
	Topic    string                      `json:"topic"`
	Tab      string                      `json:"tab"`
	Posts    *Section[social.FeedItem]   `json:"posts,omitempty"`
	News     *Section[social.FeedItem]   `json:"news,omitempty"`
	Creators *Section[social.Influencer] `json:"creators,omitempty"`
	Totals   map[string]int              `json:"totals"`
}

// Service runs meta searches.
type Service struct {
	source Source
	log    zerolog.Logger
}

// NewService creates a search service.
func NewService(source Source, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("service", "search").Logger(),
	}
}

// Search fetches every section the state's tab shows, concurrently.
// A failing source leaves its section empty with an error message.
func (s *Service) Search(ctx context.Context, state *State) (*Results, error) {
	topic, err := social.Topic(state.Query())
	if err != nil {
		return nil, ErrMissingQuery
	}

	var (
		posts, news             []social.FeedItem
		creators                []social.Influencer
		postsErr, newsErr, cErr error
	)

	// Tabs fail independently, so the group never cancels
	var g errgroup.Group
	if state.Includes(TabPosts) {
		g.Go(func() error {
			posts, postsErr = s.source.GetFeed(ctx, topic, 0)
			return nil
		})
	}
	if state.Includes(TabNews) {
		g.Go(func() error {
			news, newsErr = s.source.GetNews(ctx, topic, 0)
			return nil
		})
	}
	if state.Includes(TabCreators) {
		g.Go(func() error {
			creators, cErr = s.source.GetInfluencers(ctx, topic, 0)
			return nil
		})
	}
	_ = g.Wait()

	res := &Results{
		Query:  state.Query(),
		Topic:  topic,
		Tab:    state.Tab(),
		Totals: map[string]int{},
	}

	requested, failed := 0, 0
	if state.Includes(TabPosts) {
		requested++
		res.Posts = section(TabPosts, posts, postsErr, state)
		failed += s.record(TabPosts, topic, postsErr)
		res.Totals[TabPosts] = res.Posts.Total
	}
	if state.Includes(TabNews) {
		requested++
		res.News = section(TabNews, news, newsErr, state)
		failed += s.record(TabNews, topic, newsErr)
		res.Totals[TabNews] = res.News.Total
	}
	if state.Includes(TabCreators) {
		requested++
		res.Creators = section(TabCreators, creators, cErr, state)
		failed += s.record(TabCreators, topic, cErr)
		res.Totals[TabCreators] = res.Creators.Total
	}

	if failed == requested {
		return nil, fmt.Errorf("%w for %q: %v", ErrAllSourcesFailed, topic, errors.Join(postsErr, newsErr, cErr))
	}

	return res, nil
}

func (s *Service) record(name, topic string, err error) int {
	if err == nil {
		return 0
	}
	s.log.Warn().Err(err).Str("section", name).Str("topic", topic).Msg("Search source failed")
	return 1
}

func section[T any](name string, items []T, err error, state *State) *Section[T] {
	if err != nil {
		items = nil
	}
	sec := &Section[T]{Page: utils.Paginate(items, state.Page(), state.PageSize())}
	if err != nil {
		sec.Error = "failed to load " + name
	}
	return sec
}
