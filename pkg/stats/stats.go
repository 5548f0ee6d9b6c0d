// Package stats defines the engagement ledger: per-quote like and
// impression counters plus the per-user like membership that feeds them.
package stats

import "context"

// MutationResult reports the counters as read inside the mutating
// transaction, after any mutation, plus whether the mutation changed
// anything.
type MutationResult struct {
	LikesCount       int64
	ImpressionsCount int64

	// Changed is false when the like (or unlike) was a no-op because the
	// membership row already existed (or was already gone).
	Changed bool
}

// Driver persists engagement counters and picks high-rated candidates.
//
// Implementations must perform counter mutations as atomic database-side
// expressions inside a single transaction with the membership check, so
// concurrent likes never lose or double-count an increment.
type Driver interface {
	// Like records that actorID likes quoteID. At most one membership row
	// exists per (actor, quote) pair; a repeat like is a no-op reported via
	// Changed=false.
	Like(ctx context.Context, actorID, quoteID string) (*MutationResult, error)

	// Unlike removes the membership row if present and decrements the like
	// counter, clamped at zero.
	Unlike(ctx context.Context, actorID, quoteID string) (*MutationResult, error)

	// RecordImpression counts one display of the quote, creating the stats
	// row on first sight.
	RecordImpression(ctx context.Context, quoteID string) error

	// PickHighRatedID picks one quote id uniformly at random from the
	// top-scoring candidate pool, skipping ids in excludeIDs. Eligible rows
	// must have at least one like. Returns "" with a nil error when the
	// pool is empty after filtering; that is a caller-side fallback signal,
	// not an error.
	PickHighRatedID(ctx context.Context, excludeIDs []string) (string, error)

	// Close releases any resources held by the driver.
	Close() error
}
