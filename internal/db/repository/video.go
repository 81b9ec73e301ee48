package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chianti/chianti-go/internal/db"
	"github.com/chianti/chianti-go/internal/db/models"
)

// VideoSortColumn is the closed set of sortable video columns.
type VideoSortColumn string

// VideoSortColumn values. The zero value means no ordering.
const (
	VideoSortUnset           VideoSortColumn = ""
	VideoSortTitle           VideoSortColumn = "title"
	VideoSortWatchCounter    VideoSortColumn = "watch_counter"
	VideoSortDurationSeconds VideoSortColumn = "duration_seconds"
	VideoSortLikesCount      VideoSortColumn = "likes_count"
	VideoSortViewCount       VideoSortColumn = "view_count"
	VideoSortCommentsCount   VideoSortColumn = "comments_count"
	VideoSortPublishedAt     VideoSortColumn = "published_at"
	VideoSortAddedAt         VideoSortColumn = "added_at"
)

// ParseVideoSortColumn maps a sort_by parameter to a VideoSortColumn.
func ParseVideoSortColumn(s string) (VideoSortColumn, error) {
	switch c := VideoSortColumn(s); c {
	case VideoSortUnset, VideoSortTitle, VideoSortWatchCounter, VideoSortDurationSeconds,
		VideoSortLikesCount, VideoSortViewCount, VideoSortCommentsCount,
		VideoSortPublishedAt, VideoSortAddedAt:
		return c, nil
	default:
		return VideoSortUnset, fmt.Errorf("invalid sort_by %q for videos", s)
	}
}

func (c VideoSortColumn) columnRef() string {
	if c == VideoSortUnset {
		return ""
	}
	return "v." + string(c)
}

// VideoFilters holds the optional list parameters for videos. Channel-level
// filters apply through the joined channel row; Tags matches videos having at
// least one of the given tag names. Min/Max bounds are exclusive.
type VideoFilters struct {
	Search              *string
	ChannelID           *string
	IsSubscribed        *bool
	SubscribersCount    *int64
	MinSubscribersCount *int64
	MaxSubscribersCount *int64
	Tags                []string
	WatchCounter        *int64
	MinWatchCounter     *int64
	MaxWatchCounter     *int64
	DurationSeconds     *int64
	MinDurationSeconds  *int64
	MaxDurationSeconds  *int64
	LikesCount          *int64
	MinLikesCount       *int64
	MaxLikesCount       *int64
	ViewCount           *int64
	MinViewCount        *int64
	MaxViewCount        *int64
	CommentsCount       *int64
	MinCommentsCount    *int64
	MaxCommentsCount    *int64
	PublishedAt         *int64
	PublishedBefore     *int64
	PublishedAfter      *int64
	SortBy              VideoSortColumn
	SortOrder           SortOrder
	Limit               *int64
	Offset              *int64
}

// VideoWithChannel pairs a video with its owning channel.
type VideoWithChannel struct {
	Video   *models.Video
	Channel *models.Channel
}

// VideoRepository defines operations for managing videos.
type VideoRepository interface {
	// Upsert creates a video or refreshes the mutable fields of an
	// existing one. ChannelID and AddedAt are never updated.
	Upsert(ctx context.Context, video *models.Video) error

	// GetByID retrieves a single video joined with its channel.
	GetByID(ctx context.Context, videoID string) (*VideoWithChannel, error)

	// List retrieves videos matching the filters joined with their
	// channels, plus the unfiltered total video count. Results are
	// de-duplicated across tag-join matches.
	List(ctx context.Context, filters *VideoFilters) ([]*VideoWithChannel, int64, error)

	// ListByChannelID retrieves all videos of one channel.
	ListByChannelID(ctx context.Context, channelID string) ([]*models.Video, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

const videoColumns = "v.id, v.channel_id, v.url, v.title, v.description, v.watch_counter, " +
	"v.duration_seconds, v.likes_count, v.view_count, v.comments_count, v.published_at, v.added_at"

func (r *videoRepository) Upsert(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, channel_id, url, title, description, watch_counter,
		                    duration_seconds, likes_count, view_count, comments_count,
		                    published_at, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    view_count = EXCLUDED.view_count,
		    likes_count = EXCLUDED.likes_count,
		    comments_count = EXCLUDED.comments_count
	`

	_, err := r.pool.Exec(ctx, query,
		video.ID,
		video.ChannelID,
		video.URL,
		video.Title,
		video.Description,
		video.WatchCounter,
		video.DurationSeconds,
		video.LikesCount,
		video.ViewCount,
		video.CommentsCount,
		video.PublishedAt,
		video.AddedAt,
	)
	if err != nil {
		return db.WrapError(err, "upsert video")
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, videoID string) (*VideoWithChannel, error) {
	query := `
		SELECT ` + videoColumns + `, ` + channelColumns + `
		FROM videos v
		JOIN channels c ON c.id = v.channel_id
		WHERE v.id = $1
	`

	row, err := scanVideoWithChannel(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get video by id")
	}

	return row, nil
}

func (r *videoRepository) List(ctx context.Context, filters *VideoFilters) ([]*VideoWithChannel, int64, error) {
	qb := &queryBuilder{}
	contains(qb, "v.title", filters.Search)
	eq(qb, "c.id", filters.ChannelID)
	eq(qb, "c.is_subscribed", filters.IsSubscribed)
	eq(qb, "c.subscribers_count", filters.SubscribersCount)
	gt(qb, "c.subscribers_count", filters.MinSubscribersCount)
	lt(qb, "c.subscribers_count", filters.MaxSubscribersCount)
	anyOf(qb, "t.name", filters.Tags)
	eq(qb, "v.watch_counter", filters.WatchCounter)
	gt(qb, "v.watch_counter", filters.MinWatchCounter)
	lt(qb, "v.watch_counter", filters.MaxWatchCounter)
	eq(qb, "v.duration_seconds", filters.DurationSeconds)
	gt(qb, "v.duration_seconds", filters.MinDurationSeconds)
	lt(qb, "v.duration_seconds", filters.MaxDurationSeconds)
	eq(qb, "v.likes_count", filters.LikesCount)
	gt(qb, "v.likes_count", filters.MinLikesCount)
	lt(qb, "v.likes_count", filters.MaxLikesCount)
	eq(qb, "v.view_count", filters.ViewCount)
	gt(qb, "v.view_count", filters.MinViewCount)
	lt(qb, "v.view_count", filters.MaxViewCount)
	eq(qb, "v.comments_count", filters.CommentsCount)
	gt(qb, "v.comments_count", filters.MinCommentsCount)
	lt(qb, "v.comments_count", filters.MaxCommentsCount)
	eq(qb, "v.published_at", filters.PublishedAt)
	lt(qb, "v.published_at", filters.PublishedBefore)
	gt(qb, "v.published_at", filters.PublishedAfter)

	// DISTINCT because a video tagged with several of the requested tags
	// would otherwise appear once per matching tag.
	query := `SELECT DISTINCT ` + videoColumns + `, ` + channelColumns + `
		FROM videos v
		JOIN channels c ON c.id = v.channel_id
		LEFT JOIN video_tags vt ON vt.video_id = v.id
		LEFT JOIN tags t ON t.id = vt.tag_id` +
		qb.whereClause() +
		orderClause(filters.SortBy.columnRef(), filters.SortOrder) +
		qb.pageClause(filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, 0, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	var videos []*VideoWithChannel
	for rows.Next() {
		row, err := scanVideoWithChannel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count videos")
	}

	return videos, total, nil
}

func (r *videoRepository) ListByChannelID(ctx context.Context, channelID string) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos v WHERE v.channel_id = $1`

	rows, err := r.pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, db.WrapError(err, "list videos by channel id")
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		video := &models.Video{}
		if err := rows.Scan(videoFields(video)...); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

func videoFields(v *models.Video) []any {
	return []any{
		&v.ID, &v.ChannelID, &v.URL, &v.Title, &v.Description, &v.WatchCounter,
		&v.DurationSeconds, &v.LikesCount, &v.ViewCount, &v.CommentsCount,
		&v.PublishedAt, &v.AddedAt,
	}
}

func channelFields(c *models.Channel) []any {
	return []any{&c.ID, &c.Name, &c.URL, &c.IsSubscribed, &c.SubscribersCount, &c.AddedAt}
}

func scanVideoWithChannel(row pgx.Row) (*VideoWithChannel, error) {
	video := &models.Video{}
	channel := &models.Channel{}
	fields := append(videoFields(video), channelFields(channel)...)
	if err := row.Scan(fields...); err != nil {
		return nil, err
	}
	return &VideoWithChannel{Video: video, Channel: channel}, nil
}
