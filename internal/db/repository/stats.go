package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chianti/chianti-go/internal/db"
)

// StatsOverview is an aggregate snapshot of the whole store.
type StatsOverview struct {
	TotalWatchTimeSeconds                int64 `json:"total_watch_time_seconds"`
	TotalVideosWatched                   int64 `json:"total_videos_watched"`
	TotalUniqueVideosWatched             int64 `json:"total_unique_videos_watched"`
	TotalChannels                        int64 `json:"total_channels"`
	TotalTags                            int64 `json:"total_tags"`
	AverageWatchTimePerSessionSeconds    int64 `json:"average_watch_time_per_session_seconds"`
	AverageSessionDurationSeconds        int64 `json:"average_session_duration_seconds"`
}

// StatsRepository computes aggregate statistics.
type StatsRepository interface {
	Overview(ctx context.Context) (*StatsOverview, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Overview(ctx context.Context) (*StatsOverview, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(watch_duration_seconds) FROM watch_history), 0),
			(SELECT COUNT(*) FROM watch_history),
			COALESCE((SELECT SUM(watch_counter) FROM videos), 0),
			(SELECT COUNT(*) FROM videos),
			(SELECT COUNT(*) FROM channels),
			(SELECT COUNT(*) FROM tags),
			COALESCE((SELECT SUM(session_end_date - session_start_date) FROM watch_history), 0)
	`

	var (
		overview        StatsOverview
		sessionCount    int64
		sessionDuration int64
	)
	err := r.pool.QueryRow(ctx, query).Scan(
		&overview.TotalWatchTimeSeconds,
		&sessionCount,
		&overview.TotalVideosWatched,
		&overview.TotalUniqueVideosWatched,
		&overview.TotalChannels,
		&overview.TotalTags,
		&sessionDuration,
	)
	if err != nil {
		return nil, db.WrapError(err, "stats overview")
	}

	if sessionCount > 0 {
		overview.AverageWatchTimePerSessionSeconds = overview.TotalWatchTimeSeconds / sessionCount
		overview.AverageSessionDurationSeconds = sessionDuration / sessionCount
	}

	return &overview, nil
}
