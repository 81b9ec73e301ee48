package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchHistory is one recorded watch session. Rows are append-only: no update
// path exists. The video and channel ids are omitted from JSON because API
// responses nest the full objects.
type WatchHistory struct {
	ID                   string `json:"id"`
	VideoID              string `json:"-"`
	ChannelID            string `json:"-"`
	WatchDurationSeconds int64  `json:"watch_duration_seconds"`
	SessionStartDate     int64  `json:"session_start_date"`
	SessionEndDate       int64  `json:"session_end_date"`
	AddedAt              int64  `json:"added_at"`
}

// NewWatchHistory creates a WatchHistory row with a generated id and the
// current Unix time.
func NewWatchHistory(videoID, channelID string, watchDurationSeconds, sessionStartDate, sessionEndDate int64) *WatchHistory {
	return &WatchHistory{
		ID:                   uuid.NewString(),
		VideoID:              videoID,
		ChannelID:            channelID,
		WatchDurationSeconds: watchDurationSeconds,
		SessionStartDate:     sessionStartDate,
		SessionEndDate:       sessionEndDate,
		AddedAt:              time.Now().Unix(),
	}
}
