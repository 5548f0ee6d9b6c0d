package eventstream

import "context"

// Publisher publishes engagement events to an event stream backend.
type Publisher interface {
	PublishEngagement(ctx context.Context, event *EngagementEvent) error
	Close() error
}
