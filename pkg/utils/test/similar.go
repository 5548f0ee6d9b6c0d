package testutils

import (
	"context"

	"github.com/UladRH/quotes-assignment-task/pkg/similar"
)

// MockSimilarDriver is a test embedding store with canned neighborhoods.
type MockSimilarDriver struct {
	// Neighbors maps a quote id to its neighbor ids in ascending distance
	// order.
	Neighbors map[string][]string

	// FindErr, when set, makes FindSimilarIDs fail.
	FindErr error
}

func NewMockSimilarDriver() *MockSimilarDriver {
	return &MockSimilarDriver{
		Neighbors: make(map[string][]string),
	}
}

func (m *MockSimilarDriver) Add(_ context.Context, _ []similar.Embedding) error {
	return nil
}

func (m *MockSimilarDriver) FindSimilarIDs(_ context.Context, quoteID string, limit int) ([]string, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}

	if limit <= 0 {
		return []string{}, nil
	}

	neighbors := m.Neighbors[quoteID]
	if len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}

	return neighbors, nil
}

func (m *MockSimilarDriver) Close() error {
	return nil
}
