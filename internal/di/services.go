// Package di provides dependency injection for service implementations.
package di

import (
	"fmt"

	"github.com/aristath/bonkdash/internal/clients/coingecko"
	"github.com/aristath/bonkdash/internal/clients/lunarcrush"
	"github.com/aristath/bonkdash/internal/clients/upstream"
	"github.com/aristath/bonkdash/internal/config"
	"github.com/aristath/bonkdash/internal/modules/alerts"
	"github.com/aristath/bonkdash/internal/modules/audio"
	"github.com/aristath/bonkdash/internal/modules/markets"
	"github.com/aristath/bonkdash/internal/modules/search"
	"github.com/aristath/bonkdash/internal/modules/social"
	"github.com/aristath/bonkdash/internal/modules/tokens"
	"github.com/rs/zerolog"
)

// InitializeServices creates the upstream clients and every domain service
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	// A nil interface disables caching; a typed nil *Repository would not
	var cache upstream.Cache
	if cfg.CacheEnabled && container.ClientDataRepo != nil {
		cache = container.ClientDataRepo
	} else {
		log.Warn().Msg("Upstream response cache disabled")
	}

	container.CoinGeckoClient = coingecko.NewClient(coingecko.Config{
		BaseURL: cfg.CoinGecko.BaseURL,
		APIKey:  cfg.CoinGecko.APIKey,
		Pro:     cfg.CoinGecko.Pro,
		Timeout: cfg.HTTPTimeout,
	}, cache, log)

	container.LunarCrushClient = lunarcrush.NewClient(lunarcrush.Config{
		BaseURL: cfg.LunarCrush.BaseURL,
		APIKey:  cfg.LunarCrush.APIKey,
		Timeout: cfg.HTTPTimeout,
	}, cache, log)

	container.MarketsService = markets.NewService(container.CoinGeckoClient, cfg.DefaultCoinID, cfg.VsCurrency, log)
	container.TokensService = tokens.NewService(container.CoinGeckoClient, container.LunarCrushClient, cfg.VsCurrency, log)
	container.SocialService = social.NewService(container.LunarCrushClient, log)
	container.SearchService = search.NewService(container.SocialService, log)
	container.AlertStore = alerts.NewStore(log)

	catalog, err := audio.LoadCatalog(cfg.AudioCatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load audio catalog: %w", err)
	}
	container.AudioCatalog = catalog

	log.Info().
		Str("coin", cfg.DefaultCoinID).
		Str("vs_currency", cfg.VsCurrency).
		Int("audio_tracks", len(catalog.Tracks)).
		Msg("Services initialized")

	return nil
}
