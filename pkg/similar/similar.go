// Package similar defines the embedding store interface behind the
// similar-quotes lookup. Vectors are precomputed offline; the engine only
// ever reads nearest neighbors from them.
package similar

import "context"

// Embedding is one quote's precomputed vector.
type Embedding struct {
	// QuoteID is the quote this vector belongs to.
	QuoteID string

	// Vector is the fixed-length embedding.
	Vector []float32
}

// Driver stores quote embeddings and answers nearest-neighbor queries.
type Driver interface {
	// Add stores embeddings, replacing any existing vector per quote id.
	// Population is an offline concern; the engine never calls Add on the
	// request path.
	Add(ctx context.Context, embeddings []Embedding) error

	// FindSimilarIDs returns up to limit quote ids ordered by ascending L2
	// distance to quoteID's embedding, excluding quoteID itself. A
	// non-positive limit or a quote with no stored embedding yields an
	// empty result without error.
	FindSimilarIDs(ctx context.Context, quoteID string, limit int) ([]string, error)

	// Close releases any resources held by the driver.
	Close() error
}
