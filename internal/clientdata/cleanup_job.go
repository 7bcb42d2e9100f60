package clientdata

import (
	"github.com/rs/zerolog"
)

// CleanupJob removes expired entries from all client data tables.
// It runs once at startup and whenever POST /api/system/cache/cleanup is called.
type CleanupJob struct {
	repo         *Repository
	checkpointer Checkpointer
	log          zerolog.Logger
}

// Checkpointer truncates the write-ahead log after rows were deleted
type Checkpointer interface {
	WALCheckpoint(mode string) error
}

// NewCleanupJob creates a new client data cleanup job. checkpointer is optional.
func NewCleanupJob(repo *Repository, checkpointer Checkpointer, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo:         repo,
		checkpointer: checkpointer,
		log:          log.With().Str("job", "client_data_cleanup").Logger(),
	}
}

// Run executes the cleanup job and returns the total number of rows removed.
func (j *CleanupJob) Run() (int64, error) {
	results, err := j.repo.DeleteAllExpired()
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to delete expired client data")
		return 0, err
	}

	var totalDeleted int64
	for table, count := range results {
		if count > 0 {
			j.log.Debug().
				Str("table", table).
				Int64("deleted", count).
				Msg("Cleaned up expired cache entries")
			totalDeleted += count
		}
	}

	if totalDeleted > 0 && j.checkpointer != nil {
		if err := j.checkpointer.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Msg("WAL checkpoint after cleanup failed")
		}
	}

	j.log.Info().
		Int64("total_deleted", totalDeleted).
		Msg("Client data cleanup completed")

	return totalDeleted, nil
}

// Name returns the job name for logging.
func (j *CleanupJob) Name() string {
	return "client_data_cleanup"
}
