package entities

import (
	"time"

	"github.com/google/uuid"
)

// ProfileEventType represents the type of profile change event
type ProfileEventType string

const (
	ProfileEventTypeCreated ProfileEventType = "profile_created"
	ProfileEventTypeUpdated ProfileEventType = "profile_updated"
	ProfileEventTypeDeleted ProfileEventType = "profile_deleted"
)

// ProfileEvent represents a profile change published on the event bus. The
// indexer consumes these to keep the search collection in sync between full
// reindex runs.
type ProfileEvent struct {
	ID        string           `json:"id"`
	ProfileID string           `json:"profile_id"`
	EventType ProfileEventType `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewProfileEvent creates a new profile event
func NewProfileEvent(profileID string, eventType ProfileEventType) *ProfileEvent {
	return &ProfileEvent{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
