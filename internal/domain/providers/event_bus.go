package providers

import (
	"context"

	"github.com/villagehub/directory-backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to profile
// change events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ProfileEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ProfileEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelProfileUpdates is the channel carrying all profile changes; the
// indexer listens here to keep the search collection fresh.
const EventChannelProfileUpdates = "profile:updates"
