// Package quotes implements the quote recommendation and engagement engine:
// the weighted roll selector, similar-quote hydration, and the like ledger
// orchestration.
package quotes

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/UladRH/quotes-assignment-task/pkg/catalog"
	"github.com/UladRH/quotes-assignment-task/pkg/config"
	"github.com/UladRH/quotes-assignment-task/pkg/eventstream"
	"github.com/UladRH/quotes-assignment-task/pkg/quote"
	"github.com/UladRH/quotes-assignment-task/pkg/similar"
	"github.com/UladRH/quotes-assignment-task/pkg/stats"
)

// Options holds the collaborators and tunables for the engine service.
type Options struct {
	// Catalog is the upstream quote catalog.
	Catalog catalog.Driver

	// Stats is the engagement ledger.
	Stats stats.Driver

	// Similar is the embedding store for similar-quote lookups.
	Similar similar.Driver

	// Events is the optional engagement event publisher. Defaults to the
	// nop publisher behavior (no events) when nil.
	Events eventstream.Publisher

	// Engine carries the recommendation tunables.
	Engine config.EngineConfig

	// Rand draws a uniform value in [0, 1). Defaults to math/rand.
	// Injectable for deterministic tests.
	Rand func() float64

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// Service is the quote recommendation and engagement engine.
type Service struct {
	catalog catalog.Driver
	stats   stats.Driver
	similar similar.Driver
	events  eventstream.Publisher
	engine  config.EngineConfig
	rand    func() float64
	logger  *zap.Logger
}

// NewService creates the engine service.
func NewService(o *Options) (*Service, error) {
	if o.Catalog == nil {
		return nil, fmt.Errorf("catalog driver is required")
	}
	if o.Stats == nil {
		return nil, fmt.Errorf("stats driver is required")
	}
	if o.Similar == nil {
		return nil, fmt.Errorf("similar driver is required")
	}
	if o.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	roll := o.Rand
	if roll == nil {
		roll = rand.Float64
	}

	return &Service{
		catalog: o.Catalog,
		stats:   o.Stats,
		similar: o.Similar,
		events:  o.Events,
		engine:  o.Engine,
		rand:    roll,
		logger:  o.Logger,
	}, nil
}

// RollQuote selects one quote for a roll request. A new user (nil or low
// roll count) gets the boosted high-rated chance; the exploit path falls
// back silently to explore on any failure. Exactly one impression is
// recorded for the chosen quote.
func (s *Service) RollQuote(ctx context.Context, excludeIDs []string, rolledCount *int) (*quote.Quote, error) {
	isNewUser := rolledCount == nil || *rolledCount <= s.engine.NewUserRollThreshold

	highRatedChance := s.engine.HighRatedChance
	if isNewUser {
		highRatedChance = s.engine.NewUserHighRatedChance
	}

	var chosen *quote.Quote
	if s.rand() < highRatedChance {
		chosen = s.highRatedQuote(ctx, excludeIDs)
	}

	if chosen == nil {
		var err error
		chosen, err = s.trulyRandomQuote(ctx, excludeIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := s.registerImpression(ctx, chosen.QuoteID); err != nil {
		return nil, err
	}

	return chosen, nil
}

// highRatedQuote attempts the exploit path. Every failure mode returns nil
// so the caller visibly falls back to the explore path: an empty candidate
// pool, a picker error, or a candidate whose body no longer resolves.
func (s *Service) highRatedQuote(ctx context.Context, excludeIDs []string) *quote.Quote {
	candidateID, err := s.stats.PickHighRatedID(ctx, excludeIDs)
	if err != nil {
		s.logger.Debug("high-rated pick failed, falling back to random",
			zap.Error(err),
		)
		return nil
	}
	if candidateID == "" {
		return nil
	}

	q, err := s.catalog.GetByID(ctx, candidateID)
	if err != nil {
		s.logger.Debug("high-rated candidate did not resolve, falling back to random",
			zap.String("quote_id", candidateID),
			zap.Error(err),
		)
		return nil
	}

	return q
}

// trulyRandomQuote is the explore path: up to MaxRerollAttempts random
// fetches, returning the first quote not in the exclusion set. When every
// attempt lands on an excluded id, the last fetched quote is returned
// anyway; de-duplication is best-effort, not a guarantee.
func (s *Service) trulyRandomQuote(ctx context.Context, excludeIDs []string) (*quote.Quote, error) {
	exclusions := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		exclusions[id] = struct{}{}
	}

	var last *quote.Quote
	for attempt := 0; attempt < s.engine.MaxRerollAttempts; attempt++ {
		q, err := s.catalog.GetRandom(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching random quote: %w", err)
		}

		last = q

		if _, excluded := exclusions[q.QuoteID]; !excluded {
			return q, nil
		}
	}

	if last != nil {
		return last, nil
	}

	// Zero attempts configured; degrade to a single unfiltered fetch.
	q, err := s.catalog.GetRandom(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching random quote: %w", err)
	}
	return q, nil
}

// GetQuoteByID fetches one quote by id and records an impression for it.
func (s *Service) GetQuoteByID(ctx context.Context, quoteID string) (*quote.Quote, error) {
	q, err := s.catalog.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if err := s.registerImpression(ctx, q.QuoteID); err != nil {
		return nil, err
	}

	return q, nil
}

// GetPage returns one page of the catalog listing. No impressions are
// recorded for listings.
func (s *Service) GetPage(ctx context.Context, limit, skip int) (*quote.Page, error) {
	return s.catalog.GetPage(ctx, limit, skip)
}

// GetSimilarQuotes returns up to limit quotes nearest to quoteID, hydrated
// from the catalog. Body fetches run concurrently; an id whose fetch fails
// is dropped silently so the batch degrades instead of failing. Impressions
// are recorded only for quotes that resolved.
func (s *Service) GetSimilarQuotes(ctx context.Context, quoteID string, limit int) ([]quote.Quote, error) {
	if limit <= 0 {
		return []quote.Quote{}, nil
	}

	similarIDs, err := s.similar.FindSimilarIDs(ctx, quoteID, limit)
	if err != nil {
		return nil, fmt.Errorf("finding similar quote ids: %w", err)
	}
	if len(similarIDs) == 0 {
		return []quote.Quote{}, nil
	}

	// Gather all outcomes into per-index slots, then keep the successes in
	// their original order. One failing fetch never blocks or fails the rest.
	resolved := make([]*quote.Quote, len(similarIDs))
	var wg sync.WaitGroup
	for i, id := range similarIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()

			q, err := s.catalog.GetByID(ctx, id)
			if err != nil {
				s.logger.Debug("similar quote did not resolve, dropping",
					zap.String("quote_id", id),
					zap.Error(err),
				)
				return
			}
			resolved[i] = q
		}(i, id)
	}
	wg.Wait()

	result := make([]quote.Quote, 0, len(similarIDs))
	for _, q := range resolved {
		if q == nil {
			continue
		}
		if err := s.registerImpression(ctx, q.QuoteID); err != nil {
			return nil, err
		}
		result = append(result, *q)
	}

	return result, nil
}

// Like records that actorID likes quoteID and returns the like summary.
func (s *Service) Like(ctx context.Context, actorID, quoteID string) (*quote.LikeSummary, error) {
	result, err := s.stats.Like(ctx, actorID, quoteID)
	if err != nil {
		return nil, fmt.Errorf("liking quote: %w", err)
	}

	if result.Changed {
		s.publishEngagement(ctx, eventstream.EventTypeLike, quoteID, actorID)
	}

	return &quote.LikeSummary{
		QuoteID:          quoteID,
		LikesCount:       result.LikesCount,
		ImpressionsCount: result.ImpressionsCount,
		IsLiked:          true,
		Changed:          result.Changed,
	}, nil
}

// Unlike removes actorID's like of quoteID and returns the like summary.
func (s *Service) Unlike(ctx context.Context, actorID, quoteID string) (*quote.LikeSummary, error) {
	result, err := s.stats.Unlike(ctx, actorID, quoteID)
	if err != nil {
		return nil, fmt.Errorf("unliking quote: %w", err)
	}

	if result.Changed {
		s.publishEngagement(ctx, eventstream.EventTypeUnlike, quoteID, actorID)
	}

	return &quote.LikeSummary{
		QuoteID:          quoteID,
		LikesCount:       result.LikesCount,
		ImpressionsCount: result.ImpressionsCount,
		IsLiked:          false,
		Changed:          result.Changed,
	}, nil
}

func (s *Service) registerImpression(ctx context.Context, quoteID string) error {
	if err := s.stats.RecordImpression(ctx, quoteID); err != nil {
		return fmt.Errorf("recording impression: %w", err)
	}

	s.publishEngagement(ctx, eventstream.EventTypeImpression, quoteID, "")

	return nil
}

// publishEngagement emits an engagement event. Event delivery is advisory;
// failures are logged, never surfaced to the request.
func (s *Service) publishEngagement(ctx context.Context, eventType, quoteID, actorID string) {
	if s.events == nil {
		return
	}

	event := &eventstream.EngagementEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventType,
		EmittedAt:     time.Now().UTC(),
		QuoteID:       quoteID,
		ActorID:       actorID,
	}

	if err := s.events.PublishEngagement(ctx, event); err != nil {
		s.logger.Warn("failed to publish engagement event",
			zap.String("event_type", eventType),
			zap.String("quote_id", quoteID),
			zap.Error(err),
		)
	}
}
