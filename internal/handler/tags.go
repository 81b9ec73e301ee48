package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dbmodels "github.com/chianti/chianti-go/internal/db/models"
	"github.com/chianti/chianti-go/internal/db/repository"
	"github.com/chianti/chianti-go/internal/models"
)

// TagHandler handles tag read endpoints.
type TagHandler struct {
	tags repository.TagRepository
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tags repository.TagRepository) *TagHandler {
	return &TagHandler{tags: tags}
}

// List returns tags matching the query filters.
func (h *TagHandler) List(c *gin.Context) {
	filters, err := h.parseFilters(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	tags, total, err := h.tags.List(c.Request.Context(), filters)
	if err != nil {
		handleError(c, err)
		return
	}

	if tags == nil {
		tags = []*dbmodels.Tag{}
	}

	c.JSON(http.StatusOK, models.PaginatedResponse[*dbmodels.Tag]{
		Data:   tags,
		Offset: filters.Offset,
		Limit:  filters.Limit,
		Total:  total,
	})
}

// Get returns a single tag by id.
func (h *TagHandler) Get(c *gin.Context) {
	tag, err := h.tags.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) parseFilters(c *gin.Context) (*repository.TagFilters, error) {
	filters := &repository.TagFilters{
		Search: queryString(c, "search"),
	}

	var err error
	if filters.Limit, err = queryInt64(c, "limit"); err != nil {
		return nil, err
	}
	if filters.Offset, err = queryInt64(c, "offset"); err != nil {
		return nil, err
	}

	if raw := queryString(c, "sort_by"); raw != nil {
		if filters.SortBy, err = repository.ParseTagSortColumn(*raw); err != nil {
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
