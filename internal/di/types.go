/**
 * Package di provides dependency injection type definitions.
 *
 * The Container holds every long-lived dependency of the dashboard API and is
 * handed to the server, which builds the HTTP handlers from it.
 */
package di

import (
	"github.com/aristath/bonkdash/internal/clientdata"
	"github.com/aristath/bonkdash/internal/clients/coingecko"
	"github.com/aristath/bonkdash/internal/clients/lunarcrush"
	"github.com/aristath/bonkdash/internal/database"
	"github.com/aristath/bonkdash/internal/modules/alerts"
	"github.com/aristath/bonkdash/internal/modules/audio"
	"github.com/aristath/bonkdash/internal/modules/markets"
	"github.com/aristath/bonkdash/internal/modules/search"
	"github.com/aristath/bonkdash/internal/modules/social"
	"github.com/aristath/bonkdash/internal/modules/tokens"
)

// Container holds all application dependencies
type Container struct {
	// Database
	ClientDataDB *database.DB // upstream response cache (client_data.db)

	// Repositories and jobs
	ClientDataRepo *clientdata.Repository
	CleanupJob     *clientdata.CleanupJob

	// Clients
	CoinGeckoClient  *coingecko.Client
	LunarCrushClient *lunarcrush.Client

	// Services
	MarketsService *markets.Service
	TokensService  *tokens.Service
	SocialService  *social.Service
	SearchService  *search.Service
	AlertStore     *alerts.Store
	AudioCatalog   *audio.Catalog
}

// Close releases resources held by the container
func (c *Container) Close() error {
	if c == nil || c.ClientDataDB == nil {
		return nil
	}
	return c.ClientDataDB.Close()
}
