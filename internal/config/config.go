// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Directory for client_data.db (always absolute)
	LogLevel string
	Port     int
	DevMode  bool

	CoinGecko  CoinGeckoConfig
	LunarCrush LunarCrushConfig

	DefaultCoinID    string // Coin id used when a route omits one (e.g. "bonk")
	DefaultTopic     string // Social topic used when a route omits one
	VsCurrency       string
	HTTPTimeout      time.Duration
	CacheEnabled     bool
	AudioCatalogPath string // Optional YAML catalog served by /api/audio
}

// CoinGeckoConfig holds CoinGecko API settings
type CoinGeckoConfig struct {
	BaseURL string
	APIKey  string
	Pro     bool // Send the key as x-cg-pro-api-key instead of the demo header
}

// LunarCrushConfig holds LunarCrush API settings
type LunarCrushConfig struct {
	BaseURL string
	APIKey  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("GO_PORT", 8001),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		CoinGecko: CoinGeckoConfig{
			BaseURL: strings.TrimRight(getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"), "/"),
			APIKey:  getEnv("COINGECKO_API_KEY", ""),
			Pro:     getEnvAsBool("COINGECKO_PRO", false),
		},
		LunarCrush: LunarCrushConfig{
			BaseURL: strings.TrimRight(getEnv("LUNARCRUSH_BASE_URL", "https://lunarcrush.com/api4/public"), "/"),
			APIKey:  getEnv("LUNARCRUSH_API_KEY", ""),
		},
		DefaultCoinID:    strings.ToLower(getEnv("DEFAULT_COIN_ID", "bonk")),
		DefaultTopic:     strings.ToLower(getEnv("DEFAULT_TOPIC", "bonk")),
		VsCurrency:       strings.ToLower(getEnv("VS_CURRENCY", "usd")),
		HTTPTimeout:      time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		CacheEnabled:     getEnvAsBool("CACHE_ENABLED", true),
		AudioCatalogPath: getEnv("AUDIO_CATALOG_PATH", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	if c.CoinGecko.BaseURL == "" {
		return fmt.Errorf("COINGECKO_BASE_URL must not be empty")
	}
	if c.LunarCrush.BaseURL == "" {
		return fmt.Errorf("LUNARCRUSH_BASE_URL must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.DefaultCoinID == "" {
		return fmt.Errorf("DEFAULT_COIN_ID must not be empty")
	}
	// API keys are optional: both providers serve a rate-limited public tier

	return nil
}

// ClientDataPath returns the path of the upstream response cache database
func (c *Config) ClientDataPath() string {
	return filepath.Join(c.DataDir, "client_data.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
