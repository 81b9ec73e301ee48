package models

import "time"

// Channel represents a YouTube channel whose videos have been watched.
// The id is the external channel identifier and is stable across re-ingestion.
type Channel struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	URL              string `json:"url"`
	IsSubscribed     bool   `json:"is_subscribed"`
	SubscribersCount int64  `json:"subscribers_count"`
	AddedAt          int64  `json:"added_at"`
}

// NewChannelParams bundles the mutable channel attributes carried by a
// watch-event payload.
type NewChannelParams struct {
	ID               string
	Name             string
	URL              string
	IsSubscribed     bool
	SubscribersCount int64
}

// NewChannel creates a Channel with AddedAt set to the current Unix time.
func NewChannel(p NewChannelParams) *Channel {
	return &Channel{
		ID:               p.ID,
		Name:             p.Name,
		URL:              p.URL,
		IsSubscribed:     p.IsSubscribed,
		SubscribersCount: p.SubscribersCount,
		AddedAt:          time.Now().Unix(),
	}
}
