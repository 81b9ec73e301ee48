package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	dbmodels "github.com/chianti/chianti-go/internal/db/models"
	"github.com/chianti/chianti-go/internal/db/repository"
	"github.com/chianti/chianti-go/internal/imagecache"
	"github.com/chianti/chianti-go/internal/models"
	"github.com/chianti/chianti-go/internal/service"
	"github.com/chianti/chianti-go/internal/validation"
	"github.com/chianti/chianti-go/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Init("error", "")
}

func newWatchHistoryRouter(t *testing.T, history repository.WatchHistoryRepository) *gin.Engine {
	t.Helper()

	images, err := imagecache.New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("imagecache.New() error = %v", err)
	}

	ingest := service.NewIngestService(
		&stubChannelRepo{},
		&stubVideoRepo{},
		&stubTagRepo{},
		history,
		images,
		validation.New(),
	)
	h := NewWatchHistoryHandler(ingest, history)

	router := gin.New()
	router.POST("/api/watch_history", h.Create)
	router.GET("/api/watch_history", h.List)
	router.GET("/api/watch_history/:id", h.Get)
	return router
}

func TestCreateWatchHistory(t *testing.T) {
	created := 0
	router := newWatchHistoryRouter(t, &stubHistoryRepo{
		createFn: func(_ context.Context, _ *dbmodels.WatchHistory) error {
			created++
			return nil
		},
	})

	body := `[
		{
			"watch_duration_seconds": 120,
			"session_start_date": 1700000000,
			"session_end_date": 1700000120,
			"channel": {"id": "C1", "name": "Chan"},
			"video": {"id": "V1", "title": "Vid", "tags": ["music"]}
		}
	]`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/watch_history", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	if created != 1 {
		t.Errorf("history rows created = %d, want 1", created)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestCreateWatchHistoryInvalidJSON(t *testing.T) {
	router := newWatchHistoryRouter(t, &stubHistoryRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/watch_history", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateWatchHistoryValidationFailure(t *testing.T) {
	created := 0
	router := newWatchHistoryRouter(t, &stubHistoryRepo{
		createFn: func(_ context.Context, _ *dbmodels.WatchHistory) error {
			created++
			return nil
		},
	})

	// Second record is missing the video id: the whole batch must be
	// rejected without touching storage.
	body := `[
		{
			"watch_duration_seconds": 10,
			"channel": {"id": "C1"},
			"video": {"id": "V1"}
		},
		{
			"watch_duration_seconds": 10,
			"channel": {"id": "C2"},
			"video": {"id": ""}
		}
	]`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/watch_history", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if created != 0 {
		t.Errorf("history rows created = %d, want 0", created)
	}

	var errResp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("error body is not the error envelope: %v", err)
	}
	if errResp.Status != http.StatusBadRequest || errResp.Path != "/api/watch_history" {
		t.Errorf("error envelope = %+v", errResp)
	}
}

func TestListWatchHistoryFilters(t *testing.T) {
	var captured *repository.WatchHistoryFilters
	router := newWatchHistoryRouter(t, &stubHistoryRepo{
		listFn: func(_ context.Context, filters *repository.WatchHistoryFilters) ([]*repository.WatchHistoryEntry, int64, error) {
			captured = filters
			return nil, 42, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/watch_history?channel_id=C1&watched_month=3&min_watch_duration_seconds=60&limit=10&offset=20&sort_by=session_start_date&sort_order=desc", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}
	if captured == nil {
		t.Fatal("repository was not called")
	}
	if captured.ChannelID == nil || *captured.ChannelID != "C1" {
		t.Errorf("ChannelID = %v, want C1", captured.ChannelID)
	}
	if captured.WatchedMonth == nil || *captured.WatchedMonth != 3 {
		t.Errorf("WatchedMonth = %v, want 3", captured.WatchedMonth)
	}
	if captured.MinWatchDurationSeconds == nil || *captured.MinWatchDurationSeconds != 60 {
		t.Errorf("MinWatchDurationSeconds = %v, want 60", captured.MinWatchDurationSeconds)
	}
	if captured.Limit == nil || *captured.Limit != 10 {
		t.Errorf("Limit = %v, want 10", captured.Limit)
	}
	if captured.Offset == nil || *captured.Offset != 20 {
		t.Errorf("Offset = %v, want 20", captured.Offset)
	}
	if captured.SortOrder != repository.SortDesc {
		t.Errorf("SortOrder = %q, want desc", captured.SortOrder)
	}

	var resp models.PaginatedResponse[models.WatchHistoryResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Total != 42 {
		t.Errorf("total = %d, want 42", resp.Total)
	}
}

func TestListWatchHistoryAbsentFiltersStayNil(t *testing.T) {
	var captured *repository.WatchHistoryFilters
	router := newWatchHistoryRouter(t, &stubHistoryRepo{
		listFn: func(_ context.Context, filters *repository.WatchHistoryFilters) ([]*repository.WatchHistoryEntry, int64, error) {
			captured = filters
			return nil, 0, nil
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/watch_history", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if captured.VideoID != nil || captured.Limit != nil || captured.Offset != nil || captured.WatchedYear != nil {
		t.Errorf("absent parameters produced filters: %+v", captured)
	}
	if captured.SortBy != "" {
		t.Errorf("SortBy = %q, want unset", captured.SortBy)
	}
}

func TestListWatchHistoryBadParameter(t *testing.T) {
	router := newWatchHistoryRouter(t, &stubHistoryRepo{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/watch_history?limit=ten", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGetWatchHistoryNotFound(t *testing.T) {
	router := newWatchHistoryRouter(t, &stubHistoryRepo{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/watch_history/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
