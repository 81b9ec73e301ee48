package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chianti/chianti-go/internal/db/repository"
	"github.com/chianti/chianti-go/internal/models"
	"github.com/chianti/chianti-go/internal/service"
	"github.com/chianti/chianti-go/pkg/logger"
)

// WatchHistoryHandler handles watch-history HTTP requests: batch ingestion
// plus the read endpoints.
type WatchHistoryHandler struct {
	ingest  *service.IngestService
	history repository.WatchHistoryRepository
}

// NewWatchHistoryHandler creates a new WatchHistoryHandler.
func NewWatchHistoryHandler(ingest *service.IngestService, history repository.WatchHistoryRepository) *WatchHistoryHandler {
	return &WatchHistoryHandler{
		ingest:  ingest,
		history: history,
	}
}

// Create ingests a batch of watch-event records.
func (h *WatchHistoryHandler) Create(c *gin.Context) {
	var events []models.WatchEvent

	if err := c.ShouldBindJSON(&events); err != nil {
		logger.Log.Warn("Invalid request payload",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.ingest.IngestBatch(c.Request.Context(), events); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// List returns watch-history entries matching the query filters.
func (h *WatchHistoryHandler) List(c *gin.Context) {
	filters, err := h.parseFilters(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	entries, total, err := h.history.List(c.Request.Context(), filters)
	if err != nil {
		handleError(c, err)
		return
	}

	data := make([]models.WatchHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, models.WatchHistoryResponse{
			WatchHistory: entry.WatchHistory,
			Channel:      entry.Channel,
			Video:        entry.Video,
		})
	}

	c.JSON(http.StatusOK, models.PaginatedResponse[models.WatchHistoryResponse]{
		Data:   data,
		Offset: filters.Offset,
		Limit:  filters.Limit,
		Total:  total,
	})
}

// Get returns a single watch-history entry by id.
func (h *WatchHistoryHandler) Get(c *gin.Context) {
	entry, err := h.history.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.WatchHistoryResponse{
		WatchHistory: entry.WatchHistory,
		Channel:      entry.Channel,
		Video:        entry.Video,
	})
}

func (h *WatchHistoryHandler) parseFilters(c *gin.Context) (*repository.WatchHistoryFilters, error) {
	filters := &repository.WatchHistoryFilters{
		VideoID:   queryString(c, "video_id"),
		ChannelID: queryString(c, "channel_id"),
	}

	var err error
	if filters.WatchDurationSeconds, err = queryInt64(c, "watch_duration_seconds"); err != nil {
		return nil, err
	}
	if filters.MinWatchDurationSeconds, err = queryInt64(c, "min_watch_duration_seconds"); err != nil {
		return nil, err
	}
	if filters.MaxWatchDurationSeconds, err = queryInt64(c, "max_watch_duration_seconds"); err != nil {
		return nil, err
	}
	if filters.WatchedAt, err = queryInt64(c, "watched_at"); err != nil {
		return nil, err
	}
	if filters.WatchedBefore, err = queryInt64(c, "watched_before"); err != nil {
		return nil, err
	}
	if filters.WatchedAfter, err = queryInt64(c, "watched_after"); err != nil {
		return nil, err
	}
	if filters.WatchedYear, err = queryInt(c, "watched_year"); err != nil {
		return nil, err
	}
	if filters.WatchedMonth, err = queryInt(c, "watched_month"); err != nil {
		return nil, err
	}
	if filters.WatchedDay, err = queryInt(c, "watched_day"); err != nil {
		return nil, err
	}
	if filters.Limit, err = queryInt64(c, "limit"); err != nil {
		return nil, err
	}
	if filters.Offset, err = queryInt64(c, "offset"); err != nil {
		return nil, err
	}

	if raw := queryString(c, "sort_by"); raw != nil {
		if filters.SortBy, err = repository.ParseWatchHistorySortColumn(*raw); err != nil {
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
