package handler

import (
	"context"

	"github.com/chianti/chianti-go/internal/db"
	dbmodels "github.com/chianti/chianti-go/internal/db/models"
	"github.com/chianti/chianti-go/internal/db/repository"
)

// Stub repositories with overridable function fields. Methods without an
// override report not-found so tests only wire what they use.

type stubChannelRepo struct {
	upsertFn func(context.Context, *dbmodels.Channel) error
	getFn    func(context.Context, string) (*dbmodels.Channel, error)
	listFn   func(context.Context, *repository.ChannelFilters) ([]*dbmodels.Channel, int64, error)
}

func (s *stubChannelRepo) Upsert(ctx context.Context, channel *dbmodels.Channel) error {
	if s.upsertFn != nil {
		return s.upsertFn(ctx, channel)
	}
	return nil
}

func (s *stubChannelRepo) GetByID(ctx context.Context, channelID string) (*dbmodels.Channel, error) {
	if s.getFn != nil {
		return s.getFn(ctx, channelID)
	}
	return nil, db.ErrNotFound
}

func (s *stubChannelRepo) List(ctx context.Context, filters *repository.ChannelFilters) ([]*dbmodels.Channel, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filters)
	}
	return nil, 0, nil
}

type stubVideoRepo struct {
	upsertFn        func(context.Context, *dbmodels.Video) error
	getFn           func(context.Context, string) (*repository.VideoWithChannel, error)
	listFn          func(context.Context, *repository.VideoFilters) ([]*repository.VideoWithChannel, int64, error)
	listByChannelFn func(context.Context, string) ([]*dbmodels.Video, error)
}

func (s *stubVideoRepo) Upsert(ctx context.Context, video *dbmodels.Video) error {
	if s.upsertFn != nil {
		return s.upsertFn(ctx, video)
	}
	return nil
}

func (s *stubVideoRepo) GetByID(ctx context.Context, videoID string) (*repository.VideoWithChannel, error) {
	if s.getFn != nil {
		return s.getFn(ctx, videoID)
	}
	return nil, db.ErrNotFound
}

func (s *stubVideoRepo) List(ctx context.Context, filters *repository.VideoFilters) ([]*repository.VideoWithChannel, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filters)
	}
	return nil, 0, nil
}

func (s *stubVideoRepo) ListByChannelID(ctx context.Context, channelID string) ([]*dbmodels.Video, error) {
	if s.listByChannelFn != nil {
		return s.listByChannelFn(ctx, channelID)
	}
	return nil, nil
}

type stubTagRepo struct {
	getOrCreateFn func(context.Context, string) (*dbmodels.Tag, error)
	namesFn       func(context.Context, string) ([]string, error)
	getFn         func(context.Context, string) (*dbmodels.Tag, error)
	listFn        func(context.Context, *repository.TagFilters) ([]*dbmodels.Tag, int64, error)
}

func (s *stubTagRepo) GetOrCreateByName(ctx context.Context, name string) (*dbmodels.Tag, error) {
	if s.getOrCreateFn != nil {
		return s.getOrCreateFn(ctx, name)
	}
	return &dbmodels.Tag{ID: "tag-" + name, Name: name}, nil
}

func (s *stubTagRepo) AddVideoTag(ctx context.Context, videoID, tagID string) error {
	return nil
}

func (s *stubTagRepo) NamesByVideoID(ctx context.Context, videoID string) ([]string, error) {
	if s.namesFn != nil {
		return s.namesFn(ctx, videoID)
	}
	return nil, nil
}

func (s *stubTagRepo) GetByID(ctx context.Context, tagID string) (*dbmodels.Tag, error) {
	if s.getFn != nil {
		return s.getFn(ctx, tagID)
	}
	return nil, db.ErrNotFound
}

func (s *stubTagRepo) List(ctx context.Context, filters *repository.TagFilters) ([]*dbmodels.Tag, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filters)
	}
	return nil, 0, nil
}

type stubHistoryRepo struct {
	createFn func(context.Context, *dbmodels.WatchHistory) error
	getFn    func(context.Context, string) (*repository.WatchHistoryEntry, error)
	listFn   func(context.Context, *repository.WatchHistoryFilters) ([]*repository.WatchHistoryEntry, int64, error)
}

func (s *stubHistoryRepo) Create(ctx context.Context, entry *dbmodels.WatchHistory) error {
	if s.createFn != nil {
		return s.createFn(ctx, entry)
	}
	return nil
}

func (s *stubHistoryRepo) GetByID(ctx context.Context, id string) (*repository.WatchHistoryEntry, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, db.ErrNotFound
}

func (s *stubHistoryRepo) List(ctx context.Context, filters *repository.WatchHistoryFilters) ([]*repository.WatchHistoryEntry, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filters)
	}
	return nil, 0, nil
}
