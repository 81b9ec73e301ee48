package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a video tag. Name is the natural key; at most one row exists per
// distinct name.
type Tag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	AddedAt int64  `json:"added_at"`
}

// NewTag creates a Tag with a generated id and the current Unix time.
func NewTag(name string) *Tag {
	return &Tag{
		ID:      uuid.NewString(),
		Name:    name,
		AddedAt: time.Now().Unix(),
	}
}

// VideoTag links a video to a tag. A pair is inserted at most once.
type VideoTag struct {
	VideoID string `json:"video_id"`
	TagID   string `json:"tag_id"`
}
