package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chianti/chianti-go/internal/db"
	"github.com/chianti/chianti-go/internal/db/models"
)

// TagSortColumn is the closed set of sortable tag columns.
type TagSortColumn string

// TagSortColumn values. The zero value means no ordering.
const (
	TagSortUnset   TagSortColumn = ""
	TagSortName    TagSortColumn = "name"
	TagSortAddedAt TagSortColumn = "added_at"
)

// ParseTagSortColumn maps a sort_by parameter to a TagSortColumn.
func ParseTagSortColumn(s string) (TagSortColumn, error) {
	switch c := TagSortColumn(s); c {
	case TagSortUnset, TagSortName, TagSortAddedAt:
		return c, nil
	default:
		return TagSortUnset, fmt.Errorf("invalid sort_by %q for tags", s)
	}
}

func (c TagSortColumn) columnRef() string {
	if c == TagSortUnset {
		return ""
	}
	return "t." + string(c)
}

// TagFilters holds the optional list parameters for tags.
type TagFilters struct {
	Search    *string
	SortBy    TagSortColumn
	SortOrder SortOrder
	Limit     *int64
	Offset    *int64
}

// TagRepository defines operations for managing tags and their video
// associations.
type TagRepository interface {
	// GetOrCreateByName returns the tag with the given name, creating it
	// first if absent. Name is the natural key: at most one tag exists
	// per name.
	GetOrCreateByName(ctx context.Context, name string) (*models.Tag, error)

	// AddVideoTag associates a video with a tag. Re-adding an existing
	// pair is a no-op.
	AddVideoTag(ctx context.Context, videoID, tagID string) error

	// NamesByVideoID returns the tag names attached to a video.
	NamesByVideoID(ctx context.Context, videoID string) ([]string, error)

	// GetByID retrieves a single tag by id.
	GetByID(ctx context.Context, tagID string) (*models.Tag, error)

	// List retrieves tags matching the filters, plus the unfiltered total
	// tag count.
	List(ctx context.Context, filters *TagFilters) ([]*models.Tag, int64, error)
}

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(pool *pgxpool.Pool) TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := r.getByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, db.WrapError(err, "get tag by name")
	}

	created := models.NewTag(name)
	query := `
		INSERT INTO tags (id, name, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`
	commandTag, err := r.pool.Exec(ctx, query, created.ID, created.Name, created.AddedAt)
	if err != nil {
		return nil, db.WrapError(err, "create tag")
	}
	if commandTag.RowsAffected() == 0 {
		// Lost a create race; the winner's row is the one to use.
		tag, err = r.getByName(ctx, name)
		if err != nil {
			return nil, db.WrapError(err, "get tag by name after conflict")
		}
		return tag, nil
	}

	return created, nil
}

func (r *tagRepository) getByName(ctx context.Context, name string) (*models.Tag, error) {
	query := `SELECT t.id, t.name, t.added_at FROM tags t WHERE t.name = $1`

	tag := &models.Tag{}
	err := r.pool.QueryRow(ctx, query, name).Scan(&tag.ID, &tag.Name, &tag.AddedAt)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) AddVideoTag(ctx context.Context, videoID, tagID string) error {
	query := `
		INSERT INTO video_tags (video_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (video_id, tag_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, videoID, tagID); err != nil {
		return db.WrapError(err, "add video tag")
	}
	return nil
}

func (r *tagRepository) NamesByVideoID(ctx context.Context, videoID string) ([]string, error) {
	query := `
		SELECT t.name
		FROM tags t
		JOIN video_tags vt ON vt.tag_id = t.id
		WHERE vt.video_id = $1
	`

	rows, err := r.pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, db.WrapError(err, "get tag names by video id")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag names: %w", err)
	}

	return names, nil
}

func (r *tagRepository) GetByID(ctx context.Context, tagID string) (*models.Tag, error) {
	query := `SELECT t.id, t.name, t.added_at FROM tags t WHERE t.id = $1`

	tag := &models.Tag{}
	err := r.pool.QueryRow(ctx, query, tagID).Scan(&tag.ID, &tag.Name, &tag.AddedAt)
	if err != nil {
		return nil, db.WrapError(err, "get tag by id")
	}

	return tag, nil
}

func (r *tagRepository) List(ctx context.Context, filters *TagFilters) ([]*models.Tag, int64, error) {
	qb := &queryBuilder{}
	contains(qb, "t.name", filters.Search)

	query := `SELECT t.id, t.name, t.added_at FROM tags t` +
		qb.whereClause() +
		orderClause(filters.SortBy.columnRef(), filters.SortOrder) +
		qb.pageClause(filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, qb.args...)
	if err != nil {
		return nil, 0, db.WrapError(err, "list tags")
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.AddedAt); err != nil {
			return nil, 0, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tags: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tags`).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count tags")
	}

	return tags, total, nil
}
