package models

import (
	"fmt"
	"time"
)

// Video represents a watched YouTube video. ChannelID is set on first insert
// and never changes afterwards; it is omitted from JSON because API responses
// nest the full channel object alongside the video.
type Video struct {
	ID              string `json:"id"`
	ChannelID       string `json:"-"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	WatchCounter    int64  `json:"watch_counter"`
	DurationSeconds int64  `json:"duration_seconds"`
	LikesCount      int64  `json:"likes_count"`
	ViewCount       int64  `json:"view_count"`
	CommentsCount   int64  `json:"comments_count"`
	PublishedAt     int64  `json:"published_at"`
	AddedAt         int64  `json:"added_at"`
}

// NewVideoParams bundles the video attributes carried by a watch-event payload.
type NewVideoParams struct {
	ID              string
	ChannelID       string
	Title           string
	Description     string
	DurationSeconds int64
	LikesCount      int64
	ViewCount       int64
	CommentsCount   int64
	PublishedAt     int64
}

// NewVideo creates a Video with a derived canonical watch URL, a zero watch
// counter, and AddedAt set to the current Unix time.
func NewVideo(p NewVideoParams) *Video {
	return &Video{
		ID:              p.ID,
		ChannelID:       p.ChannelID,
		URL:             fmt.Sprintf("https://www.youtube.com/watch?v=%s", p.ID),
		Title:           p.Title,
		Description:     p.Description,
		WatchCounter:    0,
		DurationSeconds: p.DurationSeconds,
		LikesCount:      p.LikesCount,
		ViewCount:       p.ViewCount,
		CommentsCount:   p.CommentsCount,
		PublishedAt:     p.PublishedAt,
		AddedAt:         time.Now().Unix(),
	}
}
