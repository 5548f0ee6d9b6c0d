// Package catalog defines the interface to the upstream quote catalog.
// The engine treats the catalog as an external collaborator: it never
// stores quote bodies, only fetches them by id or at random.
package catalog

import (
	"context"

	"github.com/UladRH/quotes-assignment-task/pkg/quote"
)

// Driver fetches quotes from the upstream catalog.
type Driver interface {
	// GetByID retrieves one quote. Returns an error wrapping ErrNotFound
	// when the catalog has no quote with this id.
	GetByID(ctx context.Context, id string) (*quote.Quote, error)

	// GetRandom retrieves one uniformly random catalog quote.
	GetRandom(ctx context.Context) (*quote.Quote, error)

	// GetPage retrieves a paginated listing of the catalog.
	GetPage(ctx context.Context, limit, skip int) (*quote.Page, error)
}
