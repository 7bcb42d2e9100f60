// Package upstream implements the cache-first JSON GET shared by the market data clients.
//
// A request is answered from client_data.db while the cached copy is fresh. Otherwise the
// upstream API is called; on success the body is cached, on failure a stale cached copy is
// returned when one exists.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aristath/bonkdash/internal/clientdata"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Cache is the subset of clientdata.Repository used by the client.
type Cache interface {
	GetIfFresh(table, key string) (json.RawMessage, error)
	Get(table, key string) (json.RawMessage, error)
	Store(table, key string, data interface{}, ttl time.Duration) error
}

var _ Cache = (*clientdata.Repository)(nil)

// StatusError is returned when the upstream API answers with a non-200 status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Config configures a Client.
type Config struct {
	Service string            // Name used in logs and errors, e.g. "coingecko"
	BaseURL string            // Base URL without trailing slash
	Headers map[string]string // Sent with every request (auth headers)
	Timeout time.Duration
}

// Client performs cached JSON GET requests against one upstream API.
type Client struct {
	service string
	baseURL string
	headers map[string]string
	http    *http.Client
	cache   Cache
	log     zerolog.Logger
}

// New creates a client. cache is optional - if nil, caching is disabled.
func New(cfg Config, cache Cache, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		if v != "" {
			headers[k] = v
		}
	}

	return &Client{
		service: cfg.Service,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: headers,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		log:     log.With().Str("client", cfg.Service).Logger(),
	}
}

// Request describes one cached GET.
type Request struct {
	Table string        // clientdata table
	Key   string        // cache key within the table
	Path  string        // path appended to the base URL
	Query url.Values    // optional query string
	TTL   time.Duration // freshness window for the cached copy
}

// GetJSON decodes the response for req into out.
func (c *Client) GetJSON(ctx context.Context, req Request, out interface{}) error {
	return c.Load(ctx, req, out, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, req)
	})
}

// Load is GetJSON with a caller-supplied fetch, for bodies assembled from
// several upstream calls. The assembled body is cached as one entry under
// req.Table and req.Key.
func (c *Client) Load(ctx context.Context, req Request, out interface{}, fetch func(ctx context.Context) ([]byte, error)) error {
	if raw, ok := c.fromCache(req, true); ok {
		if err := json.Unmarshal(raw, out); err == nil {
			c.log.Debug().Str("table", req.Table).Str("key", req.Key).Msg("Cache hit")
			return nil
		}
	}

	raw, err := fetch(ctx)
	if err == nil {
		err = json.Unmarshal(raw, out)
		if err != nil {
			err = fmt.Errorf("failed to parse %s response: %w", c.service, err)
		}
	}

	if err != nil {
		if stale, ok := c.fromCache(req, false); ok {
			if jsonErr := json.Unmarshal(stale, out); jsonErr == nil {
				c.log.Warn().
					Err(err).
					Str("table", req.Table).
					Str("key", req.Key).
					Msg("Upstream failed, using stale cached response")
				return nil
			}
		}
		return err
	}

	if c.cache != nil && req.Table != "" {
		if err := c.cache.Store(req.Table, req.Key, json.RawMessage(raw), req.TTL); err != nil {
			c.log.Warn().Err(err).Str("table", req.Table).Str("key", req.Key).Msg("Failed to cache response")
		}
	}

	return nil
}

func (c *Client) fromCache(req Request, freshOnly bool) (json.RawMessage, bool) {
	if c.cache == nil || req.Table == "" {
		return nil, false
	}

	var data json.RawMessage
	var err error
	if freshOnly {
		data, err = c.cache.GetIfFresh(req.Table, req.Key)
	} else {
		data, err = c.cache.Get(req.Table, req.Key)
	}
	if err != nil {
		c.log.Warn().Err(err).Str("table", req.Table).Msg("Cache read failed")
		return nil, false
	}

	return data, data != nil
}

func (c *Client) fetch(ctx context.Context, req Request) ([]byte, error) {
	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", c.service, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", c.service, err)
	}

	c.log.Debug().
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration_ms", time.Since(start)).
		Msg("Upstream request")

	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &StatusError{Service: c.service, StatusCode: resp.StatusCode, Body: snippet}
	}

	return body, nil
}
