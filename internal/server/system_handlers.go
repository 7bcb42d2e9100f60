package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aristath/bonkdash/internal/clientdata"
	"github.com/aristath/bonkdash/internal/database"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// CacheCounter reports row counts of the client data tables
type CacheCounter interface {
	Counts() (map[string]clientdata.TableCount, error)
}

// CacheCleaner removes expired client data
type CacheCleaner interface {
	Run() (int64, error)
}

// DatabaseStatter reports file and page statistics of a database
type DatabaseStatter interface {
	GetStats() (*database.Stats, error)
}

var (
	_ CacheCounter    = (*clientdata.Repository)(nil)
	_ CacheCleaner    = (*clientdata.CleanupJob)(nil)
	_ DatabaseStatter = (*database.DB)(nil)
)

// SystemHandlers handles system monitoring and maintenance endpoints
type SystemHandlers struct {
	log          zerolog.Logger
	dataDir      string
	startupTime  time.Time
	cacheEnabled bool
	cacheDB      DatabaseStatter
	cache        CacheCounter
	cleaner      CacheCleaner
	systemStats  func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	cacheEnabled bool,
	cacheDB DatabaseStatter,
	cache CacheCounter,
	cleaner CacheCleaner,
) *SystemHandlers {
	h := &SystemHandlers{
		log:          log.With().Str("handler", "system").Logger(),
		dataDir:      dataDir,
		startupTime:  time.Now(),
		cacheEnabled: cacheEnabled,
		cacheDB:      cacheDB,
		cache:        cache,
		cleaner:      cleaner,
	}
	h.systemStats = h.getSystemStats
	return h
}

// CacheTableStatus is the row count of one cache table
type CacheTableStatus struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
	Fresh int64  `json:"fresh"`
}

// CacheStatus describes the upstream response cache
type CacheStatus struct {
	Enabled     bool               `json:"enabled"`
	Tables      []CacheTableStatus `json:"tables"`
	TotalRows   int64              `json:"total_rows"`
	FreshRows   int64              `json:"fresh_rows"`
	SizeBytes   int64              `json:"size_bytes"`
	SizeDisplay string             `json:"size_display"`
	Error       string             `json:"error,omitempty"`
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status        string      `json:"status"`
	Version       string      `json:"version"`
	StartedAt     time.Time   `json:"started_at"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	Uptime        string      `json:"uptime"`
	CPUPercent    float64     `json:"cpu_percent"`
	MemoryPercent float64     `json:"memory_percent"`
	DataDirMB     float64     `json:"data_dir_mb"`
	Cache         CacheStatus `json:"cache"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startupTime)
	cpuPercent, memPercent := h.systemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		Version:       Version,
		StartedAt:     h.startupTime.UTC(),
		UptimeSeconds: int64(uptime.Seconds()),
		Uptime:        uptime.Truncate(time.Second).String(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		DataDirMB:     h.getDirSize(h.dataDir),
		Cache:         h.cacheStatus(),
	}

	if response.Cache.Error != "" {
		response.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

// HandleCacheCleanup handles POST /api/system/cache/cleanup
func (h *SystemHandlers) HandleCacheCleanup(w http.ResponseWriter, r *http.Request) {
	if h.cleaner == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Cache is not available"}, h.log)
		return
	}

	deleted, err := h.cleaner.Run()
	if err != nil {
		h.log.Error().Err(err).Msg("Cache cleanup failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Cache cleanup failed"}, h.log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"deleted": deleted,
	}, h.log)
}

func (h *SystemHandlers) cacheStatus() CacheStatus {
	status := CacheStatus{
		Enabled: h.cacheEnabled,
		Tables:  []CacheTableStatus{},
	}

	if h.cache != nil {
		counts, err := h.cache.Counts()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to count cache rows")
			status.Error = "failed to read cache tables"
		}
		for table, c := range counts {
			status.Tables = append(status.Tables, CacheTableStatus{Table: table, Rows: c.Rows, Fresh: c.Fresh})
			status.TotalRows += c.Rows
			status.FreshRows += c.Fresh
		}
		sort.Slice(status.Tables, func(i, j int) bool {
			return status.Tables[i].Table < status.Tables[j].Table
		})
	}

	if h.cacheDB != nil {
		stats, err := h.cacheDB.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get cache database stats")
		} else {
			status.SizeBytes = stats.SizeBytes + stats.WALSizeBytes
		}
	}
	status.SizeDisplay = humanize.Bytes(uint64(status.SizeBytes))

	return status
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	if dirPath == "" {
		return 0
	}

	var totalSize int64
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats returns CPU and RAM usage percentages.
// CPU is sampled over 100ms so the status call stays fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
