// Package models contains the request and response DTOs of the HTTP API.
package models

import (
	"time"

	dbmodels "github.com/chianti/chianti-go/internal/db/models"
)

// WatchEventChannel is the channel descriptor of a watch-event record.
type WatchEventChannel struct {
	ID               string `json:"id" binding:"required"`
	Name             string `json:"name"`
	AvatarURL        string `json:"avatar_url"`
	URL              string `json:"url"`
	IsSubscribed     bool   `json:"is_subscribed"`
	SubscribersCount int64  `json:"subscribers_count"`
}

// WatchEventVideo is the video descriptor of a watch-event record.
type WatchEventVideo struct {
	ID            string   `json:"id" binding:"required"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	Tags          []string `json:"tags"`
	LikesCount    int64    `json:"likes_count"`
	ViewCount     int64    `json:"view_count"`
	CommentsCount int64    `json:"comments_count"`
	Duration      int64    `json:"duration"`
	PublishedAt   int64    `json:"published_at"`
}

// WatchEvent is one record of the ingestion batch.
type WatchEvent struct {
	WatchDurationSeconds int64             `json:"watch_duration_seconds"`
	SessionStartDate     int64             `json:"session_start_date"`
	SessionEndDate       int64             `json:"session_end_date"`
	Channel              WatchEventChannel `json:"channel"`
	Video                WatchEventVideo   `json:"video"`
}

// PaginatedResponse is the uniform list envelope. Total is the unfiltered
// count of the resource table, independent of active filters.
type PaginatedResponse[T any] struct {
	Data   []T    `json:"data"`
	Offset *int64 `json:"offset"`
	Limit  *int64 `json:"limit"`
	Total  int64  `json:"total"`
}

// VideoResponse is a video joined with its tag names and, in video-centric
// endpoints, its channel.
type VideoResponse struct {
	ThumbnailEndpoint string             `json:"thumbnail_endpoint"`
	Video             *dbmodels.Video    `json:"video"`
	Tags              []string           `json:"tags"`
	Channel           *dbmodels.Channel  `json:"channel,omitempty"`
}

// ChannelResponse is a channel joined with its videos.
type ChannelResponse struct {
	AvatarEndpoint string           `json:"avatar_endpoint"`
	Channel        *dbmodels.Channel `json:"channel"`
	Videos         []VideoResponse  `json:"videos,omitempty"`
}

// WatchHistoryResponse is a watch-history entry joined with its channel and
// video.
type WatchHistoryResponse struct {
	WatchHistory *dbmodels.WatchHistory `json:"watch_history"`
	Channel      *dbmodels.Channel      `json:"channel"`
	Video        *dbmodels.Video        `json:"video"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}
