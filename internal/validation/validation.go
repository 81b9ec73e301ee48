// Package validation checks ingestion payloads before any storage work runs.
package validation

import (
	"fmt"

	"github.com/chianti/chianti-go/internal/models"
)

const maxIDLength = 128

// Validator validates watch-event payloads.
type Validator struct{}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// ValidateEvent checks one watch-event record. Identifiers are opaque
// strings; only presence and a sane length bound are enforced.
func (v *Validator) ValidateEvent(event *models.WatchEvent) error {
	if event.Channel.ID == "" {
		return fmt.Errorf("channel.id is required")
	}
	if len(event.Channel.ID) > maxIDLength {
		return fmt.Errorf("channel.id exceeds %d characters", maxIDLength)
	}

	if event.Video.ID == "" {
		return fmt.Errorf("video.id is required")
	}
	if len(event.Video.ID) > maxIDLength {
		return fmt.Errorf("video.id exceeds %d characters", maxIDLength)
	}

	if event.WatchDurationSeconds < 0 {
		return fmt.Errorf("watch_duration_seconds must not be negative")
	}

	if event.SessionEndDate < event.SessionStartDate {
		return fmt.Errorf("session_end_date precedes session_start_date")
	}

	for _, tag := range event.Video.Tags {
		if tag == "" {
			return fmt.Errorf("video.tags must not contain empty names")
		}
	}

	return nil
}
