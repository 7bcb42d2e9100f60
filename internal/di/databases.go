// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/aristath/bonkdash/internal/clientdata"
	"github.com/aristath/bonkdash/internal/config"
	"github.com/aristath/bonkdash/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens client_data.db, applies its schema and builds the
// cache repository and cleanup job on top of it
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// client_data.db - cached upstream responses, safe to delete at any time
	clientDataDB, err := database.New(database.Config{
		Path:    cfg.ClientDataPath(),
		Profile: database.ProfileCache,
		Name:    "client_data",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client_data database: %w", err)
	}

	if err := clientDataDB.Migrate(); err != nil {
		clientDataDB.Close()
		return nil, fmt.Errorf("failed to migrate client_data database: %w", err)
	}
	container.ClientDataDB = clientDataDB

	container.ClientDataRepo = clientdata.NewRepository(clientDataDB.Conn())
	container.CleanupJob = clientdata.NewCleanupJob(container.ClientDataRepo, clientDataDB, log)

	log.Info().Str("path", clientDataDB.Path()).Msg("Client data database initialized")

	return container, nil
}
