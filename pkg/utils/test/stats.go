package testutils

import (
	"context"

	"github.com/UladRH/quotes-assignment-task/pkg/stats"
)

// MockStatsDriver is an in-memory stats.Driver for engine tests.
type MockStatsDriver struct {
	// PickResult is what PickHighRatedID returns; "" models an empty pool.
	PickResult string

	// PickErr, when set, makes PickHighRatedID fail.
	PickErr error

	// Likes maps "actor|quote" membership.
	Likes map[string]bool

	// LikesCount and ImpressionsCount are per-quote counters.
	LikesCount       map[string]int64
	ImpressionsCount map[string]int64

	// ImpressionErr, when set, makes RecordImpression fail.
	ImpressionErr error

	// Impressions records every RecordImpression call in order.
	Impressions []string

	// PickExcludes captures the exclusions passed to the last pick.
	PickExcludes []string
}

func NewMockStatsDriver() *MockStatsDriver {
	return &MockStatsDriver{
		Likes:            make(map[string]bool),
		LikesCount:       make(map[string]int64),
		ImpressionsCount: make(map[string]int64),
	}
}

func (m *MockStatsDriver) Like(_ context.Context, actorID, quoteID string) (*stats.MutationResult, error) {
	key := actorID + "|" + quoteID
	changed := !m.Likes[key]
	if changed {
		m.Likes[key] = true
		m.LikesCount[quoteID]++
	}

	return &stats.MutationResult{
		LikesCount:       m.LikesCount[quoteID],
		ImpressionsCount: m.ImpressionsCount[quoteID],
		Changed:          changed,
	}, nil
}

func (m *MockStatsDriver) Unlike(_ context.Context, actorID, quoteID string) (*stats.MutationResult, error) {
	key := actorID + "|" + quoteID
	changed := m.Likes[key]
	if changed {
		delete(m.Likes, key)
		if m.LikesCount[quoteID] > 0 {
			m.LikesCount[quoteID]--
		}
	}

	return &stats.MutationResult{
		LikesCount:       m.LikesCount[quoteID],
		ImpressionsCount: m.ImpressionsCount[quoteID],
		Changed:          changed,
	}, nil
}

func (m *MockStatsDriver) RecordImpression(_ context.Context, quoteID string) error {
	if m.ImpressionErr != nil {
		return m.ImpressionErr
	}

	m.ImpressionsCount[quoteID]++
	m.Impressions = append(m.Impressions, quoteID)
	return nil
}

func (m *MockStatsDriver) PickHighRatedID(_ context.Context, excludeIDs []string) (string, error) {
	m.PickExcludes = excludeIDs

	if m.PickErr != nil {
		return "", m.PickErr
	}

	return m.PickResult, nil
}

func (m *MockStatsDriver) Close() error {
	return nil
}
