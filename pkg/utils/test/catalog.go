package testutils

import (
	"context"
	"fmt"

	"github.com/UladRH/quotes-assignment-task/pkg/catalog"
	"github.com/UladRH/quotes-assignment-task/pkg/quote"
)

// MockCatalog is a test catalog driver backed by a fixed quote set.
type MockCatalog struct {
	// Quotes maps quote id to its body.
	Quotes map[string]quote.Quote

	// RandomIDs is the sequence of ids GetRandom serves, cycled.
	RandomIDs []string

	// FailOn causes GetByID to fail for the given id.
	FailOn string

	// RandomErr, when set, makes GetRandom fail.
	RandomErr error

	// RandomCalls counts GetRandom invocations.
	RandomCalls int

	randomCursor int
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		Quotes: make(map[string]quote.Quote),
	}
}

// AddQuote registers a quote body under its id.
func (m *MockCatalog) AddQuote(id, text, author string) {
	m.Quotes[id] = quote.Quote{QuoteID: id, Text: text, Author: author}
}

func (m *MockCatalog) GetByID(_ context.Context, id string) (*quote.Quote, error) {
	if m.FailOn != "" && id == m.FailOn {
		return nil, fmt.Errorf("mock catalog failure for: %s", id)
	}

	q, ok := m.Quotes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}

	return &q, nil
}

func (m *MockCatalog) GetRandom(_ context.Context) (*quote.Quote, error) {
	m.RandomCalls++

	if m.RandomErr != nil {
		return nil, m.RandomErr
	}

	if len(m.RandomIDs) == 0 {
		return nil, fmt.Errorf("%w: no random quotes configured", catalog.ErrUpstream)
	}

	id := m.RandomIDs[m.randomCursor%len(m.RandomIDs)]
	m.randomCursor++

	q, ok := m.Quotes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}

	return &q, nil
}

func (m *MockCatalog) GetPage(_ context.Context, limit, skip int) (*quote.Page, error) {
	page := &quote.Page{
		Quotes: []quote.Quote{},
		Total:  len(m.Quotes),
		Skip:   skip,
		Limit:  limit,
	}
	return page, nil
}
