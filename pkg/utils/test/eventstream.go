package testutils

import (
	"context"

	"github.com/UladRH/quotes-assignment-task/pkg/eventstream"
)

// MockPublisher records engagement events for assertions.
type MockPublisher struct {
	Events []eventstream.EngagementEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishEngagement(_ context.Context, event *eventstream.EngagementEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	m.Events = append(m.Events, *event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
