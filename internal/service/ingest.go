// Package service provides the business logic of the watch-tracking backend.
package service

import (
	"context"

	"go.uber.org/zap"

	dbmodels "github.com/chianti/chianti-go/internal/db/models"
	"github.com/chianti/chianti-go/internal/db/repository"
	"github.com/chianti/chianti-go/internal/imagecache"
	"github.com/chianti/chianti-go/internal/models"
	"github.com/chianti/chianti-go/internal/validation"
	"github.com/chianti/chianti-go/pkg/logger"
)

// IngestService turns watch-event batches into store rows and cached images.
type IngestService struct {
	channels  repository.ChannelRepository
	videos    repository.VideoRepository
	tags      repository.TagRepository
	history   repository.WatchHistoryRepository
	images    *imagecache.Cache
	validator *validation.Validator
}

// NewIngestService creates an IngestService.
func NewIngestService(
	channels repository.ChannelRepository,
	videos repository.VideoRepository,
	tags repository.TagRepository,
	history repository.WatchHistoryRepository,
	images *imagecache.Cache,
	validator *validation.Validator,
) *IngestService {
	return &IngestService{
		channels:  channels,
		videos:    videos,
		tags:      tags,
		history:   history,
		images:    images,
		validator: validator,
	}
}

// IngestBatch processes the records of one ingestion call in order. There is
// no cross-record transaction: a failure aborts the batch at that point and
// the side effects of earlier records stay committed.
func (s *IngestService) IngestBatch(ctx context.Context, events []models.WatchEvent) error {
	for i := range events {
		if err := s.validator.ValidateEvent(&events[i]); err != nil {
			return &ValidationError{Message: err.Error()}
		}
	}

	for i := range events {
		if err := s.ingestOne(ctx, &events[i]); err != nil {
			return err
		}
	}

	logger.Log.Info("ingested watch events", zap.Int("count", len(events)))

	return nil
}

func (s *IngestService) ingestOne(ctx context.Context, event *models.WatchEvent) error {
	// Image caching runs first and is best-effort for fetch problems;
	// only decode/encode failures are fatal.
	err := s.images.EnsureCached(ctx, imagecache.KindChannelAvatar, event.Channel.ID, event.Channel.AvatarURL)
	if err != nil {
		return &ProcessingError{Message: "cache channel avatar", Cause: err}
	}

	err = s.images.EnsureCached(ctx, imagecache.KindVideoThumbnail, event.Video.ID, event.Video.ThumbnailURL)
	if err != nil {
		return &ProcessingError{Message: "cache video thumbnail", Cause: err}
	}

	channel := dbmodels.NewChannel(dbmodels.NewChannelParams{
		ID:               event.Channel.ID,
		Name:             event.Channel.Name,
		URL:              event.Channel.URL,
		IsSubscribed:     event.Channel.IsSubscribed,
		SubscribersCount: event.Channel.SubscribersCount,
	})
	if err := s.channels.Upsert(ctx, channel); err != nil {
		return &ProcessingError{Message: "upsert channel", Cause: err}
	}

	video := dbmodels.NewVideo(dbmodels.NewVideoParams{
		ID:              event.Video.ID,
		ChannelID:       event.Channel.ID,
		Title:           event.Video.Title,
		Description:     event.Video.Description,
		DurationSeconds: event.Video.Duration,
		LikesCount:      event.Video.LikesCount,
		ViewCount:       event.Video.ViewCount,
		CommentsCount:   event.Video.CommentsCount,
		PublishedAt:     event.Video.PublishedAt,
	})
	if err := s.videos.Upsert(ctx, video); err != nil {
		return &ProcessingError{Message: "upsert video", Cause: err}
	}

	for _, tagName := range event.Video.Tags {
		tag, err := s.tags.GetOrCreateByName(ctx, tagName)
		if err != nil {
			return &ProcessingError{Message: "get or create tag", Cause: err}
		}

		if err := s.tags.AddVideoTag(ctx, video.ID, tag.ID); err != nil {
			return &ProcessingError{Message: "add video tag", Cause: err}
		}
	}

	entry := dbmodels.NewWatchHistory(
		video.ID,
		channel.ID,
		event.WatchDurationSeconds,
		event.SessionStartDate,
		event.SessionEndDate,
	)
	if err := s.history.Create(ctx, entry); err != nil {
		return &ProcessingError{Message: "create watch history", Cause: err}
	}

	return nil
}
