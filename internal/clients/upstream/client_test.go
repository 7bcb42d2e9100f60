package upstream

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/bonkdash/internal/clientdata"
	"github.com/aristath/bonkdash/internal/database"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*sql.DB, *clientdata.Repository) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := database.Schema("client_data")
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	return db, clientdata.NewRepository(db)
}

type payload struct {
	Value int `json:"value"`
}

func TestGetJSON_FetchesAndCaches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/coins/bonk", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		w.Write([]byte(`{"value": 42}`))
	}))
	defer server.Close()

	_, cache := setupCache(t)
	client := New(Config{
		Service: "test",
		BaseURL: server.URL + "/",
		Headers: map[string]string{"x-api-key": "secret", "x-empty": ""},
	}, cache, zerolog.Nop())

	req := Request{
		Table: clientdata.TableCoin,
		Key:   "bonk",
		Path:  "/coins/bonk",
		Query: url.Values{"vs_currency": {"usd"}},
		TTL:   time.Minute,
	}

	var first payload
	require.NoError(t, client.GetJSON(context.Background(), req, &first))
	assert.Equal(t, 42, first.Value)

	var second payload
	require.NoError(t, client.GetJSON(context.Background(), req, &second))
	assert.Equal(t, 42, second.Value)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call should be served from cache")
}

func TestGetJSON_StaleFallbackOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	db, cache := setupCache(t)
	_, err := db.Exec(
		"INSERT INTO coingecko_coin (cache_key, data, expires_at) VALUES (?, ?, ?)",
		"bonk", `{"value": 7}`, time.Now().Add(-time.Hour).Unix(),
	)
	require.NoError(t, err)

	client := New(Config{Service: "test", BaseURL: server.URL}, cache, zerolog.Nop())

	var out payload
	err = client.GetJSON(context.Background(), Request{Table: clientdata.TableCoin, Key: "bonk", Path: "/x", TTL: time.Minute}, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Value)
}

func TestGetJSON_ErrorWithoutCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(Config{Service: "test", BaseURL: server.URL}, nil, zerolog.Nop())

	var out payload
	err := client.GetJSON(context.Background(), Request{Path: "/missing"}, &out)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "test", se.Service)
	assert.Contains(t, se.Error(), "404")
}

func TestGetJSON_InvalidBodyIsNotCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, cache := setupCache(t)
	client := New(Config{Service: "test", BaseURL: server.URL}, cache, zerolog.Nop())

	var out payload
	err := client.GetJSON(context.Background(), Request{Table: clientdata.TableCoin, Key: "bonk", Path: "/x", TTL: time.Minute}, &out)
	assert.Error(t, err)

	cached, err := cache.Get(clientdata.TableCoin, "bonk")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestGetJSON_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value": 1}`))
	}))
	defer server.Close()

	client := New(Config{Service: "test", BaseURL: server.URL}, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out payload
	assert.Error(t, client.GetJSON(ctx, Request{Path: "/x"}, &out))
}
