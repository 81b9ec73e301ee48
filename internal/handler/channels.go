package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dbmodels "github.com/chianti/chianti-go/internal/db/models"
	"github.com/chianti/chianti-go/internal/db/repository"
	"github.com/chianti/chianti-go/internal/models"
)

// ChannelHandler handles channel read endpoints.
type ChannelHandler struct {
	channels repository.ChannelRepository
	videos   repository.VideoRepository
	tags     repository.TagRepository
}

// NewChannelHandler creates a new ChannelHandler.
func NewChannelHandler(channels repository.ChannelRepository, videos repository.VideoRepository, tags repository.TagRepository) *ChannelHandler {
	return &ChannelHandler{
		channels: channels,
		videos:   videos,
		tags:     tags,
	}
}

// List returns channels matching the query filters, each joined with its
// videos.
func (h *ChannelHandler) List(c *gin.Context) {
	filters, err := h.parseFilters(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	channels, total, err := h.channels.List(c.Request.Context(), filters)
	if err != nil {
		handleError(c, err)
		return
	}

	data := make([]models.ChannelResponse, 0, len(channels))
	for _, channel := range channels {
		response, err := h.buildResponse(c, channel)
		if err != nil {
			handleError(c, err)
			return
		}
		data = append(data, response)
	}

	c.JSON(http.StatusOK, models.PaginatedResponse[models.ChannelResponse]{
		Data:   data,
		Offset: filters.Offset,
		Limit:  filters.Limit,
		Total:  total,
	})
}

// Get returns a single channel by id, joined with its videos.
func (h *ChannelHandler) Get(c *gin.Context) {
	channel, err := h.channels.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response, err := h.buildResponse(c, channel)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChannelHandler) buildResponse(c *gin.Context, channel *dbmodels.Channel) (models.ChannelResponse, error) {
	videos, err := h.videos.ListByChannelID(c.Request.Context(), channel.ID)
	if err != nil {
		return models.ChannelResponse{}, err
	}

	videoResponses := make([]models.VideoResponse, 0, len(videos))
	for _, video := range videos {
		tagNames, err := h.tags.NamesByVideoID(c.Request.Context(), video.ID)
		if err != nil {
			return models.ChannelResponse{}, err
		}

		videoResponses = append(videoResponses, models.VideoResponse{
			ThumbnailEndpoint: "/api/thumbnails/" + video.ID,
			Video:             video,
			Tags:              tagNames,
		})
	}

	return models.ChannelResponse{
		AvatarEndpoint: "/api/avatars/" + channel.ID,
		Channel:        channel,
		Videos:         videoResponses,
	}, nil
}

func (h *ChannelHandler) parseFilters(c *gin.Context) (*repository.ChannelFilters, error) {
	filters := &repository.ChannelFilters{
		Search: queryString(c, "search"),
	}

	var err error
	if filters.IsSubscribed, err = queryBool(c, "is_subscribed"); err != nil {
		return nil, err
	}
	if filters.SubscribersCount, err = queryInt64(c, "subscribers_count"); err != nil {
		return nil, err
	}
	if filters.MinSubscribersCount, err = queryInt64(c, "min_subscribers_count"); err != nil {
		return nil, err
	}
	if filters.MaxSubscribersCount, err = queryInt64(c, "max_subscribers_count"); err != nil {
		return nil, err
	}
	if filters.Limit, err = queryInt64(c, "limit"); err != nil {
		return nil, err
	}
	if filters.Offset, err = queryInt64(c, "offset"); err != nil {
		return nil, err
	}

	if raw := queryString(c, "sort_by"); raw != nil {
		if filters.SortBy, err = repository.ParseChannelSortColumn(*raw); err != nil {
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
