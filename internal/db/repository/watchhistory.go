package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chianti/chianti-go/internal/db"
	"github.com/chianti/chianti-go/internal/db/models"
)

// WatchHistorySortColumn is the closed set of sortable watch-history columns.
type WatchHistorySortColumn string

// WatchHistorySortColumn values. The zero value means no ordering.
const (
	WatchHistorySortUnset            WatchHistorySortColumn = ""
	WatchHistorySortWatchDuration    WatchHistorySortColumn = "watch_duration_seconds"
	WatchHistorySortSessionStartDate WatchHistorySortColumn = "session_start_date"
	WatchHistorySortAddedAt          WatchHistorySortColumn = "added_at"
)

// ParseWatchHistorySortColumn maps a sort_by parameter to a
// WatchHistorySortColumn.
func ParseWatchHistorySortColumn(s string) (WatchHistorySortColumn, error) {
	switch c := WatchHistorySortColumn(s); c {
	case WatchHistorySortUnset, WatchHistorySortWatchDuration,
		WatchHistorySortSessionStartDate, WatchHistorySortAddedAt:
		return c, nil
	default:
		return WatchHistorySortUnset, fmt.Errorf("invalid sort_by %q for watch history", s)
	}
}

func (c WatchHistorySortColumn) columnRef() string {
	if c == WatchHistorySortUnset {
		return ""
	}
	return "wh." + string(c)
}

// WatchHistoryFilters holds the optional list parameters for watch history.
// WatchedAt/Before/After and the calendar components all apply to
// session_start_date; Min/Max bounds are exclusive.
type WatchHistoryFilters struct {
	VideoID                 *string
	ChannelID               *string
	WatchDurationSeconds    *int64
	MinWatchDurationSeconds *int64
	MaxWatchDurationSeconds *int64
	WatchedAt               *int64
	WatchedBefore           *int64
	WatchedAfter            *int64
	WatchedYear             *int
	WatchedMonth            *int
	WatchedDay              *int
	SortBy                  WatchHistorySortColumn
	SortOrder               SortOrder
	Limit                   *int64
	Offset                  *int64
}

// WatchHistoryEntry is a watch-history row joined with its channel and video.
type WatchHistoryEntry struct {
	WatchHistory *models.WatchHistory
	Channel      *models.Channel
	Video        *models.Video
}

// WatchHistoryRepository defines operations for the append-only watch
// history.
type WatchHistoryRepository interface {
	// Create appends a watch-history row. An id collision is silently
	// skipped.
	Create(ctx context.Context, entry *models.WatchHistory) error

	// GetByID retrieves a single entry joined with its channel and video.
	GetByID(ctx context.Context, id string) (*WatchHistoryEntry, error)

	// List retrieves entries matching the filters joined with their
	// channels and videos, plus the unfiltered total entry count.
	List(ctx context.Context, filters *WatchHistoryFilters) ([]*WatchHistoryEntry, int64, error)
}

type watchHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewWatchHistoryRepository creates a new WatchHistoryRepository.
func NewWatchHistoryRepository(pool *pgxpool.Pool) WatchHistoryRepository {
	return &watchHistoryRepository{pool: pool}
}

const watchHistoryColumns = "wh.id, wh.video_id, wh.channel_id, wh.watch_duration_seconds, " +
	"wh.session_start_date, wh.session_end_date, wh.added_at"

func (r *watchHistoryRepository) Create(ctx context.Context, entry *models.WatchHistory) error {
	query := `
		INSERT INTO watch_history (id, video_id, channel_id, watch_duration_seconds,
		                           session_start_date, session_end_date, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.VideoID,
		entry.ChannelID,
		entry.WatchDurationSeconds,
		entry.SessionStartDate,
		entry.SessionEndDate,
		entry.AddedAt,
	)
	if err != nil {
		return db.WrapError(err, "create watch history")
	}

	return nil
}

func (r *watchHistoryRepository) GetByID(ctx context.Context, id string) (*WatchHistoryEntry, error) {
	query := `
		SELECT ` + watchHistoryColumns + `, ` + channelColumns + `, ` + videoColumns + `
		FROM watch_history wh
		JOIN channels c ON c.id = wh.channel_id
		JOIN videos v ON v.id = wh.video_id
		WHERE wh.id = $1
	`

	entry, err := scanWatchHistoryEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, db.WrapError(err, "get watch history by id")
	}

	return entry, nil
}

func (r *watchHistoryRepository) List(ctx context.Context, filters *WatchHistoryFilters) ([]*WatchHistoryEntry, int64, error) {
	qb := &queryBuilder{}
	eq(qb, "v.id", filters.VideoID)
	eq(qb, "c.id", filters.ChannelID)
	eq(qb, "wh.watch_duration_seconds", filters.WatchDurationSeconds)
	gt(qb, "wh.watch_duration_seconds", filters.MinWatchDurationSeconds)
	lt(qb, "wh.watch_duration_seconds", filters.MaxWatchDurationSeconds)
	eq(qb, "wh.session_start_date", filters.WatchedAt)
	lt(qb, "wh.session_start_date", filters.WatchedBefore)
	gt(qb, "wh.session_start_date", filters.WatchedAfter)
	datePart(qb, "year", "wh.session_start_date", filters.WatchedYear)
	datePart(qb, "month", "wh.session_start_date", filters.WatchedMonth)
	datePart(qb, "day", "wh.session_start_date", filters.WatchedDay)

	query := `SELECT ` + watchHistoryColumns + `, ` + channelColumns + `, ` + videoColumns + `
		FROM watch_history wh
		JOIN channels c ON c.id = wh.channel_id
		JOIN videos v ON v.id = wh.video_id` +
		qb.whereClause() +
		orderClause(filters.SortBy.columnRef(), filters.SortOrder) +
		qb.pageClause(filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, 0, db.WrapError(err, "list watch history")
	}
	defer rows.Close()

	var entries []*WatchHistoryEntry
	for rows.Next() {
		entry, err := scanWatchHistoryEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan watch history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate watch history: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM watch_history`).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count watch history")
	}

	return entries, total, nil
}

func scanWatchHistoryEntry(row pgx.Row) (*WatchHistoryEntry, error) {
	history := &models.WatchHistory{}
	channel := &models.Channel{}
	video := &models.Video{}

	fields := []any{
		&history.ID, &history.VideoID, &history.ChannelID, &history.WatchDurationSeconds,
		&history.SessionStartDate, &history.SessionEndDate, &history.AddedAt,
	}
	fields = append(fields, channelFields(channel)...)
	fields = append(fields, videoFields(video)...)

	if err := row.Scan(fields...); err != nil {
		return nil, err
	}

	return &WatchHistoryEntry{WatchHistory: history, Channel: channel, Video: video}, nil
}
