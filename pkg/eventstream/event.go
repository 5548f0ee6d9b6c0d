// Package eventstream defines transport-neutral engagement events emitted
// by the quotes engine, for downstream analytics backends.
package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeImpression is emitted after an impression is recorded.
	EventTypeImpression = "quotes.engagement.impression"

	// EventTypeLike is emitted after a like mutation that changed state.
	EventTypeLike = "quotes.engagement.like"

	// EventTypeUnlike is emitted after an unlike mutation that changed state.
	EventTypeUnlike = "quotes.engagement.unlike"
)

// EngagementEvent is a transport-neutral payload for one engagement action.
type EngagementEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EmittedAt     time.Time `json:"emitted_at"`

	// QuoteID is the quote the action targeted.
	QuoteID string `json:"quote_id"`

	// ActorID is the acting session user, empty for anonymous impressions.
	ActorID string `json:"actor_id,omitempty"`
}
