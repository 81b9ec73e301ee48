package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chianti/chianti-go/internal/db"
	"github.com/chianti/chianti-go/internal/db/models"
)

// ChannelSortColumn is the closed set of sortable channel columns.
type ChannelSortColumn string

// ChannelSortColumn values. The zero value means no ordering.
const (
	ChannelSortUnset            ChannelSortColumn = ""
	ChannelSortName             ChannelSortColumn = "name"
	ChannelSortSubscribersCount ChannelSortColumn = "subscribers_count"
	ChannelSortAddedAt          ChannelSortColumn = "added_at"
)

// ParseChannelSortColumn maps a sort_by parameter to a ChannelSortColumn.
func ParseChannelSortColumn(s string) (ChannelSortColumn, error) {
	switch c := ChannelSortColumn(s); c {
	case ChannelSortUnset, ChannelSortName, ChannelSortSubscribersCount, ChannelSortAddedAt:
		return c, nil
	default:
		return ChannelSortUnset, fmt.Errorf("invalid sort_by %q for channels", s)
	}
}

func (c ChannelSortColumn) columnRef() string {
	switch c {
	case ChannelSortName:
		return "c.name"
	case ChannelSortSubscribersCount:
		return "c.subscribers_count"
	case ChannelSortAddedAt:
		return "c.added_at"
	default:
		return ""
	}
}

// ChannelFilters holds the optional list parameters for channels.
// Min/Max bounds are exclusive.
type ChannelFilters struct {
	Search              *string
	IsSubscribed        *bool
	SubscribersCount    *int64
	MinSubscribersCount *int64
	MaxSubscribersCount *int64
	SortBy              ChannelSortColumn
	SortOrder           SortOrder
	Limit               *int64
	Offset              *int64
}

// ChannelRepository defines operations for managing channels.
type ChannelRepository interface {
	// Upsert creates a channel or refreshes the mutable fields of an
	// existing one. AddedAt, ID and URL are never updated.
	Upsert(ctx context.Context, channel *models.Channel) error

	// GetByID retrieves a single channel by id.
	GetByID(ctx context.Context, channelID string) (*models.Channel, error)

	// List retrieves channels matching the filters, plus the unfiltered
	// total channel count.
	List(ctx context.Context, filters *ChannelFilters) ([]*models.Channel, int64, error)
}

type channelRepository struct {
	pool *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository.
func NewChannelRepository(pool *pgxpool.Pool) ChannelRepository {
	return &channelRepository{pool: pool}
}

const channelColumns = "c.id, c.name, c.url, c.is_subscribed, c.subscribers_count, c.added_at"

func (r *channelRepository) Upsert(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (id, name, url, is_subscribed, subscribers_count, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    is_subscribed = EXCLUDED.is_subscribed,
		    subscribers_count = EXCLUDED.subscribers_count
	`

	_, err := r.pool.Exec(ctx, query,
		channel.ID,
		channel.Name,
		channel.URL,
		channel.IsSubscribed,
		channel.SubscribersCount,
		channel.AddedAt,
	)
	if err != nil {
		return db.WrapError(err, "upsert channel")
	}

	return nil
}

func (r *channelRepository) GetByID(ctx context.Context, channelID string) (*models.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels c WHERE c.id = $1`

	channel := &models.Channel{}
	err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&channel.ID,
		&channel.Name,
		&channel.URL,
		&channel.IsSubscribed,
		&channel.SubscribersCount,
		&channel.AddedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get channel by id")
	}

	return channel, nil
}

func (r *channelRepository) List(ctx context.Context, filters *ChannelFilters) ([]*models.Channel, int64, error) {
	qb := &queryBuilder{}
	contains(qb, "c.name", filters.Search)
	eq(qb, "c.is_subscribed", filters.IsSubscribed)
	eq(qb, "c.subscribers_count", filters.SubscribersCount)
	gt(qb, "c.subscribers_count", filters.MinSubscribersCount)
	lt(qb, "c.subscribers_count", filters.MaxSubscribersCount)

	query := `SELECT ` + channelColumns + ` FROM channels c` +
		qb.whereClause() +
		orderClause(filters.SortBy.columnRef(), filters.SortOrder) +
		qb.pageClause(filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, 0, db.WrapError(err, "list channels")
	}
	defer rows.Close()

	var channels []*models.Channel
	for rows.Next() {
		channel := &models.Channel{}
		err := rows.Scan(
			&channel.ID,
			&channel.Name,
			&channel.URL,
			&channel.IsSubscribed,
			&channel.SubscribersCount,
			&channel.AddedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate channels: %w", err)
	}

	// The reported total is the full table count, not the count of
	// filter matches.
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM channels`).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count channels")
	}

	return channels, total, nil
}
