package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/bonkdash/internal/clientdata"
	"github.com/aristath/bonkdash/internal/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCacheCounter struct {
	mock.Mock
}

func (m *MockCacheCounter) Counts() (map[string]clientdata.TableCount, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]clientdata.TableCount), args.Error(1)
}

type MockCacheCleaner struct {
	mock.Mock
}

func (m *MockCacheCleaner) Run() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockDatabaseStatter struct {
	mock.Mock
}

func (m *MockDatabaseStatter) GetStats() (*database.Stats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Stats), args.Error(1)
}

func newTestSystemHandlers(t *testing.T, dataDir string, db DatabaseStatter, cache CacheCounter, cleaner CacheCleaner) *SystemHandlers {
	h := NewSystemHandlers(zerolog.Nop(), dataDir, true, db, cache, cleaner)
	h.systemStats = func() (float64, float64) { return 12.5, 40 }
	return h
}

func TestHandleSystemStatus(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "client_data.db"), make([]byte, 1024*1024), 0644))

	cache := new(MockCacheCounter)
	cache.On("Counts").Return(map[string]clientdata.TableCount{
		clientdata.TableNews: {Rows: 3, Fresh: 1},
		clientdata.TableCoin: {Rows: 2, Fresh: 2},
	}, nil)

	db := new(MockDatabaseStatter)
	db.On("GetStats").Return(&database.Stats{SizeBytes: 4096, WALSizeBytes: 1024}, nil)

	h := newTestSystemHandlers(t, dataDir, db, cache, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/system/status", nil)
	w := httptest.NewRecorder()
	h.HandleSystemStatus(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, Version, resp.Version)
	assert.Equal(t, 12.5, resp.CPUPercent)
	assert.Equal(t, 40.0, resp.MemoryPercent)
	assert.InDelta(t, 1.0, resp.DataDirMB, 0.001)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, int64(0))

	assert.True(t, resp.Cache.Enabled)
	assert.Equal(t, int64(5), resp.Cache.TotalRows)
	assert.Equal(t, int64(3), resp.Cache.FreshRows)
	assert.Equal(t, int64(5120), resp.Cache.SizeBytes)
	assert.Equal(t, "5.1 kB", resp.Cache.SizeDisplay)
	require.Len(t, resp.Cache.Tables, 2)
	assert.Equal(t, clientdata.TableCoin, resp.Cache.Tables[0].Table)
	assert.Equal(t, clientdata.TableNews, resp.Cache.Tables[1].Table)

	cache.AssertExpectations(t)
	db.AssertExpectations(t)
}

func TestHandleSystemStatus_CacheErrorDegrades(t *testing.T) {
	cache := new(MockCacheCounter)
	cache.On("Counts").Return(nil, errors.New("database is locked"))

	db := new(MockDatabaseStatter)
	db.On("GetStats").Return(nil, errors.New("no such file"))

	h := newTestSystemHandlers(t, "", db, cache, nil)

	w := httptest.NewRecorder()
	h.HandleSystemStatus(w, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.NotEmpty(t, resp.Cache.Error)
	assert.Empty(t, resp.Cache.Tables)
	assert.Equal(t, int64(0), resp.Cache.SizeBytes)
	assert.Equal(t, 0.0, resp.DataDirMB)
}

func TestHandleCacheCleanup(t *testing.T) {
	cleaner := new(MockCacheCleaner)
	cleaner.On("Run").Return(int64(7), nil)

	h := newTestSystemHandlers(t, "", nil, nil, cleaner)

	w := httptest.NewRecorder()
	h.HandleCacheCleanup(w, httptest.NewRequest(http.MethodPost, "/api/system/cache/cleanup", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(7), resp["deleted"])
	cleaner.AssertExpectations(t)
}

func TestHandleCacheCleanup_Failure(t *testing.T) {
	cleaner := new(MockCacheCleaner)
	cleaner.On("Run").Return(int64(0), errors.New("disk I/O error"))

	h := newTestSystemHandlers(t, "", nil, nil, cleaner)

	w := httptest.NewRecorder()
	h.HandleCacheCleanup(w, httptest.NewRequest(http.MethodPost, "/api/system/cache/cleanup", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Cache cleanup failed")
}

func TestHandleCacheCleanup_NoCleaner(t *testing.T) {
	h := newTestSystemHandlers(t, "", nil, nil, nil)

	w := httptest.NewRecorder()
	h.HandleCacheCleanup(w, httptest.NewRequest(http.MethodPost, "/api/system/cache/cleanup", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
