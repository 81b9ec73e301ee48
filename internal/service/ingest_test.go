package service

import (
	"context"
	"errors"
	"testing"

	dbmodels "github.com/chianti/chianti-go/internal/db/models"
	"github.com/chianti/chianti-go/internal/db/repository"
	"github.com/chianti/chianti-go/internal/imagecache"
	"github.com/chianti/chianti-go/internal/models"
	"github.com/chianti/chianti-go/internal/validation"
)

type mockChannelRepo struct {
	upserted  []*dbmodels.Channel
	upsertErr error
}

func (m *mockChannelRepo) Upsert(ctx context.Context, channel *dbmodels.Channel) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, channel)
	return nil
}

func (m *mockChannelRepo) GetByID(ctx context.Context, channelID string) (*dbmodels.Channel, error) {
	return nil, errors.New("not implemented")
}

func (m *mockChannelRepo) List(ctx context.Context, filters *repository.ChannelFilters) ([]*dbmodels.Channel, int64, error) {
	return nil, 0, errors.New("not implemented")
}

type mockVideoRepo struct {
	upserted  []*dbmodels.Video
	upsertErr error
}

func (m *mockVideoRepo) Upsert(ctx context.Context, video *dbmodels.Video) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, video)
	return nil
}

func (m *mockVideoRepo) GetByID(ctx context.Context, videoID string) (*repository.VideoWithChannel, error) {
	return nil, errors.New("not implemented")
}

func (m *mockVideoRepo) List(ctx context.Context, filters *repository.VideoFilters) ([]*repository.VideoWithChannel, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (m *mockVideoRepo) ListByChannelID(ctx context.Context, channelID string) ([]*dbmodels.Video, error) {
	return nil, errors.New("not implemented")
}

type mockTagRepo struct {
	created   []string
	videoTags [][2]string
}

func (m *mockTagRepo) GetOrCreateByName(ctx context.Context, name string) (*dbmodels.Tag, error) {
	m.created = append(m.created, name)
	return &dbmodels.Tag{ID: "tag-" + name, Name: name}, nil
}

func (m *mockTagRepo) AddVideoTag(ctx context.Context, videoID, tagID string) error {
	m.videoTags = append(m.videoTags, [2]string{videoID, tagID})
	return nil
}

func (m *mockTagRepo) NamesByVideoID(ctx context.Context, videoID string) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTagRepo) GetByID(ctx context.Context, tagID string) (*dbmodels.Tag, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTagRepo) List(ctx context.Context, filters *repository.TagFilters) ([]*dbmodels.Tag, int64, error) {
	return nil, 0, errors.New("not implemented")
}

type mockHistoryRepo struct {
	created   []*dbmodels.WatchHistory
	createErr error
}

func (m *mockHistoryRepo) Create(ctx context.Context, entry *dbmodels.WatchHistory) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, entry)
	return nil
}

func (m *mockHistoryRepo) GetByID(ctx context.Context, id string) (*repository.WatchHistoryEntry, error) {
	return nil, errors.New("not implemented")
}

func (m *mockHistoryRepo) List(ctx context.Context, filters *repository.WatchHistoryFilters) ([]*repository.WatchHistoryEntry, int64, error) {
	return nil, 0, errors.New("not implemented")
}

type ingestFixture struct {
	service  *IngestService
	channels *mockChannelRepo
	videos   *mockVideoRepo
	tags     *mockTagRepo
	history  *mockHistoryRepo
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()

	images, err := imagecache.New(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("imagecache.New() error = %v", err)
	}

	f := &ingestFixture{
		channels: &mockChannelRepo{},
		videos:   &mockVideoRepo{},
		tags:     &mockTagRepo{},
		history:  &mockHistoryRepo{},
	}
	f.service = NewIngestService(f.channels, f.videos, f.tags, f.history, images, validation.New())
	return f
}

// Test events leave the image URLs empty: the cache logs the unusable URL
// and moves on, which keeps these tests off the network.
func testEvent(channelID, videoID string, tags ...string) models.WatchEvent {
	return models.WatchEvent{
		WatchDurationSeconds: 120,
		SessionStartDate:     1700000000,
		SessionEndDate:       1700000120,
		Channel: models.WatchEventChannel{
			ID:               channelID,
			Name:             "Channel " + channelID,
			IsSubscribed:     true,
			SubscribersCount: 1000,
		},
		Video: models.WatchEventVideo{
			ID:       videoID,
			Title:    "Video " + videoID,
			Tags:     tags,
			Duration: 300,
		},
	}
}

func TestIngestBatchHappyPath(t *testing.T) {
	f := newIngestFixture(t)

	err := f.service.IngestBatch(context.Background(), []models.WatchEvent{
		testEvent("C1", "V1", "music", "live"),
	})
	if err != nil {
		t.Fatalf("IngestBatch() error = %v", err)
	}

	if len(f.channels.upserted) != 1 || f.channels.upserted[0].ID != "C1" {
		t.Errorf("channel upserts = %v, want one for C1", f.channels.upserted)
	}

	if len(f.videos.upserted) != 1 {
		t.Fatalf("video upserts = %d, want 1", len(f.videos.upserted))
	}
	video := f.videos.upserted[0]
	if video.ID != "V1" {
		t.Errorf("video id = %q, want V1", video.ID)
	}
	if video.ChannelID != "C1" {
		t.Errorf("video channel id = %q, want C1", video.ChannelID)
	}
	if video.URL != "https://www.youtube.com/watch?v=V1" {
		t.Errorf("video url = %q", video.URL)
	}

	if len(f.tags.created) != 2 || f.tags.created[0] != "music" || f.tags.created[1] != "live" {
		t.Errorf("tags created = %v, want [music live] in order", f.tags.created)
	}
	if len(f.tags.videoTags) != 2 {
		t.Errorf("video tag links = %v, want 2", f.tags.videoTags)
	}

	if len(f.history.created) != 1 {
		t.Fatalf("history rows = %d, want 1", len(f.history.created))
	}
	entry := f.history.created[0]
	if entry.WatchDurationSeconds != 120 {
		t.Errorf("watch duration = %d, want 120", entry.WatchDurationSeconds)
	}
	if entry.VideoID != "V1" || entry.ChannelID != "C1" {
		t.Errorf("history fks = %s/%s, want V1/C1", entry.VideoID, entry.ChannelID)
	}
	if entry.ID == "" {
		t.Error("history id is empty, want generated id")
	}
}

func TestIngestBatchEveryRecordAppendsHistory(t *testing.T) {
	f := newIngestFixture(t)

	events := []models.WatchEvent{
		testEvent("C1", "V1"),
		testEvent("C1", "V1"),
		testEvent("C1", "V1"),
	}
	if err := f.service.IngestBatch(context.Background(), events); err != nil {
		t.Fatalf("IngestBatch() error = %v", err)
	}

	if len(f.history.created) != 3 {
		t.Errorf("history rows = %d, want 3", len(f.history.created))
	}
	if f.history.created[0].ID == f.history.created[1].ID {
		t.Error("history rows share an id, want distinct generated ids")
	}
}

func TestIngestBatchValidatesUpfront(t *testing.T) {
	f := newIngestFixture(t)

	events := []models.WatchEvent{
		testEvent("C1", "V1"),
		testEvent("", "V2"), // invalid: missing channel id
	}
	err := f.service.IngestBatch(context.Background(), events)

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("IngestBatch() error = %v, want *ValidationError", err)
	}

	// Validation runs before any storage work, so even the valid first
	// record must not have been processed.
	if len(f.channels.upserted) != 0 || len(f.history.created) != 0 {
		t.Errorf("storage touched despite validation failure: channels=%d history=%d",
			len(f.channels.upserted), len(f.history.created))
	}
}

func TestIngestBatchStorageErrorIsProcessingError(t *testing.T) {
	f := newIngestFixture(t)
	f.channels.upsertErr = errors.New("connection refused")

	err := f.service.IngestBatch(context.Background(), []models.WatchEvent{testEvent("C1", "V1")})

	var processingErr *ProcessingError
	if !errors.As(err, &processingErr) {
		t.Fatalf("IngestBatch() error = %v, want *ProcessingError", err)
	}
	if len(f.history.created) != 0 {
		t.Error("history created despite channel upsert failure")
	}
}

func TestIngestBatchAbortsMidBatch(t *testing.T) {
	f := newIngestFixture(t)
	f.history.createErr = errors.New("disk full")

	events := []models.WatchEvent{
		testEvent("C1", "V1"),
		testEvent("C2", "V2"),
	}
	err := f.service.IngestBatch(context.Background(), events)
	if err == nil {
		t.Fatal("IngestBatch() error = nil, want error")
	}

	// The batch stops at the first failure; the first record's channel and
	// video work stays applied.
	if len(f.channels.upserted) != 1 {
		t.Errorf("channel upserts = %d, want 1", len(f.channels.upserted))
	}
	if len(f.videos.upserted) != 1 {
		t.Errorf("video upserts = %d, want 1", len(f.videos.upserted))
	}
}
