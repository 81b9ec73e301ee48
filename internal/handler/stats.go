package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chianti/chianti-go/internal/db/repository"
)

// StatsHandler handles the statistics endpoints.
type StatsHandler struct {
	stats repository.StatsRepository
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats repository.StatsRepository) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Overview returns an aggregate snapshot of the whole store.
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
