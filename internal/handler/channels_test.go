package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	dbmodels "github.com/chianti/chianti-go/internal/db/models"
	"github.com/chianti/chianti-go/internal/db/repository"
	"github.com/chianti/chianti-go/internal/models"
)

func newChannelRouter(channels repository.ChannelRepository, videos repository.VideoRepository, tags repository.TagRepository) *gin.Engine {
	h := NewChannelHandler(channels, videos, tags)

	router := gin.New()
	router.GET("/api/channels", h.List)
	router.GET("/api/channels/:id", h.Get)
	return router
}

func TestGetChannelWithVideos(t *testing.T) {
	channels := &stubChannelRepo{
		getFn: func(_ context.Context, channelID string) (*dbmodels.Channel, error) {
			return &dbmodels.Channel{ID: channelID, Name: "Chan"}, nil
		},
	}
	videos := &stubVideoRepo{
		listByChannelFn: func(_ context.Context, channelID string) ([]*dbmodels.Video, error) {
			return []*dbmodels.Video{
				{ID: "V1", ChannelID: channelID, Title: "First"},
				{ID: "V2", ChannelID: channelID, Title: "Second"},
			}, nil
		},
	}
	tags := &stubTagRepo{
		namesFn: func(_ context.Context, videoID string) ([]string, error) {
			if videoID == "V1" {
				return []string{"music"}, nil
			}
			return nil, nil
		},
	}

	w := httptest.NewRecorder()
	newChannelRouter(channels, videos, tags).ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/channels/C1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var resp models.ChannelResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if resp.AvatarEndpoint != "/api/avatars/C1" {
		t.Errorf("avatar_endpoint = %q", resp.AvatarEndpoint)
	}
	if resp.Channel == nil || resp.Channel.ID != "C1" {
		t.Errorf("channel = %+v", resp.Channel)
	}
	if len(resp.Videos) != 2 {
		t.Fatalf("videos length = %d, want 2", len(resp.Videos))
	}
	if resp.Videos[0].ThumbnailEndpoint != "/api/thumbnails/V1" {
		t.Errorf("video thumbnail_endpoint = %q", resp.Videos[0].ThumbnailEndpoint)
	}
	if len(resp.Videos[0].Tags) != 1 || resp.Videos[0].Tags[0] != "music" {
		t.Errorf("video tags = %v", resp.Videos[0].Tags)
	}
	// Channel is omitted inside a channel's own video list.
	if resp.Videos[0].Channel != nil {
		t.Errorf("nested video carries channel = %+v", resp.Videos[0].Channel)
	}
}

func TestGetChannelNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	newChannelRouter(&stubChannelRepo{}, &stubVideoRepo{}, &stubTagRepo{}).ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/channels/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestListChannelsFilters(t *testing.T) {
	var captured *repository.ChannelFilters
	channels := &stubChannelRepo{
		listFn: func(_ context.Context, filters *repository.ChannelFilters) ([]*dbmodels.Channel, int64, error) {
			captured = filters
			return nil, 3, nil
		},
	}

	w := httptest.NewRecorder()
	newChannelRouter(channels, &stubVideoRepo{}, &stubTagRepo{}).ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/channels?search=ch&min_subscribers_count=10&max_subscribers_count=100", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if captured.Search == nil || *captured.Search != "ch" {
		t.Errorf("Search = %v, want ch", captured.Search)
	}
	if captured.MinSubscribersCount == nil || *captured.MinSubscribersCount != 10 {
		t.Errorf("MinSubscribersCount = %v, want 10", captured.MinSubscribersCount)
	}
	if captured.MaxSubscribersCount == nil || *captured.MaxSubscribersCount != 100 {
		t.Errorf("MaxSubscribersCount = %v, want 100", captured.MaxSubscribersCount)
	}

	var resp models.PaginatedResponse[models.ChannelResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
}
