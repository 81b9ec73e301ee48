package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dbmodels "github.com/chianti/chianti-go/internal/db/models"
	"github.com/chianti/chianti-go/internal/db/repository"
	"github.com/chianti/chianti-go/internal/models"
)

// VideoHandler handles video read endpoints.
type VideoHandler struct {
	videos repository.VideoRepository
	tags   repository.TagRepository
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(videos repository.VideoRepository, tags repository.TagRepository) *VideoHandler {
	return &VideoHandler{
		videos: videos,
		tags:   tags,
	}
}

// List returns videos matching the query filters, each joined with its
// channel and tag names.
func (h *VideoHandler) List(c *gin.Context) {
	filters, err := h.parseFilters(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	rows, total, err := h.videos.List(c.Request.Context(), filters)
	if err != nil {
		handleError(c, err)
		return
	}

	data := make([]models.VideoResponse, 0, len(rows))
	for _, row := range rows {
		response, err := h.buildResponse(c, row.Video, row.Channel)
		if err != nil {
			handleError(c, err)
			return
		}
		data = append(data, response)
	}

	c.JSON(http.StatusOK, models.PaginatedResponse[models.VideoResponse]{
		Data:   data,
		Offset: filters.Offset,
		Limit:  filters.Limit,
		Total:  total,
	})
}

// Get returns a single video by id, joined with its channel and tag names.
func (h *VideoHandler) Get(c *gin.Context) {
	row, err := h.videos.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response, err := h.buildResponse(c, row.Video, row.Channel)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *VideoHandler) buildResponse(c *gin.Context, video *dbmodels.Video, channel *dbmodels.Channel) (models.VideoResponse, error) {
	tagNames, err := h.tags.NamesByVideoID(c.Request.Context(), video.ID)
	if err != nil {
		return models.VideoResponse{}, err
	}

	return models.VideoResponse{
		ThumbnailEndpoint: "/api/thumbnails/" + video.ID,
		Video:             video,
		Tags:              tagNames,
		Channel:           channel,
	}, nil
}

func (h *VideoHandler) parseFilters(c *gin.Context) (*repository.VideoFilters, error) {
	filters := &repository.VideoFilters{
		Search:    queryString(c, "search"),
		ChannelID: queryString(c, "channel_id"),
	}

	if tags, ok := c.GetQueryArray("tags"); ok {
		filters.Tags = tags
	}

	var err error
	if filters.IsSubscribed, err = queryBool(c, "is_subscribed"); err != nil {
		return nil, err
	}

	for _, p := range []struct {
		name string
		dest **int64
	}{
		{"subscribers_count", &filters.SubscribersCount},
		{"min_subscribers_count", &filters.MinSubscribersCount},
		{"max_subscribers_count", &filters.MaxSubscribersCount},
		{"watch_counter", &filters.WatchCounter},
		{"min_watch_counter", &filters.MinWatchCounter},
		{"max_watch_counter", &filters.MaxWatchCounter},
		{"duration_seconds", &filters.DurationSeconds},
		{"min_duration_seconds", &filters.MinDurationSeconds},
		{"max_duration_seconds", &filters.MaxDurationSeconds},
		{"likes_count", &filters.LikesCount},
		{"min_likes_count", &filters.MinLikesCount},
		{"max_likes_count", &filters.MaxLikesCount},
		{"view_count", &filters.ViewCount},
		{"min_view_count", &filters.MinViewCount},
		{"max_view_count", &filters.MaxViewCount},
		{"comments_count", &filters.CommentsCount},
		{"min_comments_count", &filters.MinCommentsCount},
		{"max_comments_count", &filters.MaxCommentsCount},
		{"published_at", &filters.PublishedAt},
		{"published_before", &filters.PublishedBefore},
		{"published_after", &filters.PublishedAfter},
		{"limit", &filters.Limit},
		{"offset", &filters.Offset},
	} {
		if *p.dest, err = queryInt64(c, p.name); err != nil {
			return nil, err
		}
	}

	if raw := queryString(c, "sort_by"); raw != nil {
		if filters.SortBy, err = repository.ParseVideoSortColumn(*raw); err != nil {
			return nil, err
		}
	}
	if raw := queryString(c, "sort_order"); raw != nil {
		if filters.SortOrder, err = repository.ParseSortOrder(*raw); err != nil {
			return nil, err
		}
	}

	return filters, nil
}
