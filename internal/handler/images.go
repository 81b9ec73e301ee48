package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chianti/chianti-go/internal/imagecache"
	"github.com/chianti/chianti-go/pkg/logger"
)

// ImageHandler serves cached channel avatars and video thumbnails from disk.
type ImageHandler struct {
	cache *imagecache.Cache
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(cache *imagecache.Cache) *ImageHandler {
	return &ImageHandler{cache: cache}
}

// Avatar streams the cached avatar of a channel.
func (h *ImageHandler) Avatar(c *gin.Context) {
	h.serve(c, imagecache.KindChannelAvatar, c.Param("id"))
}

// Thumbnail streams the cached thumbnail of a video.
func (h *ImageHandler) Thumbnail(c *gin.Context) {
	h.serve(c, imagecache.KindVideoThumbnail, c.Param("id"))
}

func (h *ImageHandler) serve(c *gin.Context, kind imagecache.Kind, sourceID string) {
	file, contentType, err := h.cache.Open(kind, sourceID)
	if err != nil {
		if errors.Is(err, imagecache.ErrNotCached) {
			respondError(c, http.StatusNotFound, "Not Found", "Image not found on disk")
			return
		}

		logger.Log.Error("Failed to open cached image",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("sourceId", sourceID),
		)
		respondError(c, http.StatusInternalServerError, "Internal Server Error", "Failed to read image")
		return
	}
	defer file.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, file, nil)
}
