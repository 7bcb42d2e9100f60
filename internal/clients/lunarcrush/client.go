// Package lunarcrush provides cached access to the LunarCrush v4 public API.
package lunarcrush

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aristath/bonkdash/internal/clientdata"
	"github.com/aristath/bonkdash/internal/clients/upstream"
	"github.com/rs/zerolog"
)

// Config holds LunarCrush client settings
type Config struct {
	BaseURL string
	APIKey  string // Sent as a Bearer token
	Timeout time.Duration
}

// Client for the LunarCrush API
type Client struct {
	api *upstream.Client
	log zerolog.Logger
}

// NewClient creates a new LunarCrush client.
// cache is optional - if nil, caching is disabled.
func NewClient(cfg Config, cache upstream.Cache, log zerolog.Logger) *Client {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	return &Client{
		api: upstream.New(upstream.Config{
			Service: "lunarcrush",
			BaseURL: cfg.BaseURL,
			Headers: headers,
			Timeout: cfg.Timeout,
		}, cache, log),
		log: log.With().Str("client", "lunarcrush").Logger(),
	}
}

// GetCoin returns the social and market metrics of a coin.
func (c *Client) GetCoin(ctx context.Context, coin string) (*CoinMetrics, error) {
	var resp coinResponse
	err := c.api.GetJSON(ctx, upstream.Request{
		Table: clientdata.TableSocialCoin,
		Key:   coin,
		Path:  "/coins/" + url.PathEscape(coin) + "/v1",
		TTL:   clientdata.TTLCoinSnapshot,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get lunarcrush coin %s: %w", coin, err)
	}

	return &resp.Data, nil
}

// GetTimeSeries returns metric buckets for a coin. bucket is "hour" or "day",
// interval one of 1d, 1w, 1m, 3m, 6m, 1y, all.
func (c *Client) GetTimeSeries(ctx context.Context, coin, bucket, interval string) ([]SeriesPoint, error) {
	var resp seriesResponse
	err := c.api.GetJSON(ctx, upstream.Request{
		Table: clientdata.TableTimeSeries,
		Key:   coin + ":" + bucket + ":" + interval,
		Path:  "/coins/" + url.PathEscape(coin) + "/time-series/v2",
		Query: url.Values{"bucket": {bucket}, "interval": {interval}},
		TTL:   clientdata.TTLTimeSeries,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get time series for %s: %w", coin, err)
	}

	return resp.Data, nil
}

// GetCreators returns the top creators talking about a topic.
func (c *Client) GetCreators(ctx context.Context, topic string) ([]Creator, error) {
	var resp creatorsResponse
	err := c.api.GetJSON(ctx, upstream.Request{
		Table: clientdata.TableCreators,
		Key:   topic,
		Path:  "/topic/" + url.PathEscape(topic) + "/creators/v1",
		TTL:   clientdata.TTLCreators,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get creators for %s: %w", topic, err)
	}

	return resp.Data, nil
}

// GetPosts returns recent social posts for a topic.
func (c *Client) GetPosts(ctx context.Context, topic string) ([]Post, error) {
	var resp postsResponse
	err := c.api.GetJSON(ctx, upstream.Request{
		Table: clientdata.TablePosts,
		Key:   topic,
		Path:  "/topic/" + url.PathEscape(topic) + "/posts/v1",
		TTL:   clientdata.TTLPosts,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts for %s: %w", topic, err)
	}

	return resp.Data, nil
}

// GetNews returns recent news articles for a topic.
func (c *Client) GetNews(ctx context.Context, topic string) ([]Post, error) {
	var resp postsResponse
	err := c.api.GetJSON(ctx, upstream.Request{
		Table: clientdata.TableNews,
		Key:   topic,
		Path:  "/topic/" + url.PathEscape(topic) + "/news/v1",
		TTL:   clientdata.TTLNews,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get news for %s: %w", topic, err)
	}

	return resp.Data, nil
}

// GetSummary returns the AI generated "what's up" summary of a topic.
func (c *Client) GetSummary(ctx context.Context, topic string) (*Summary, error) {
	var resp Summary
	err := c.api.GetJSON(ctx, upstream.Request{
		Table: clientdata.TableSummary,
		Key:   topic,
		Path:  "/topic/" + url.PathEscape(topic) + "/whatsup/v1",
		TTL:   clientdata.TTLSummary,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary for %s: %w", topic, err)
	}

	return &resp, nil
}
