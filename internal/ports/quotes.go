// Package ports holds the interfaces the application needs from adapters.
// Methods take ctx first and speak domain types and domain errors only.
package ports

import (
	"context"

	"github.com/jsamuelsen/quotebook/internal/domain"
)

// QuoteStore persists quotes partitioned by community.
//
// Every method may fail with domain.ErrUnavailable when the backing store is not
// ready, or with domain.ErrFault when the store rejects the operation.
type QuoteStore interface {
	// Get returns the quote whose name matches name.
	// With caseSensitive false the match ignores case but is otherwise exact.
	// Returns domain.ErrNotFound when nothing matches.
	Get(ctx context.Context, community, name string, caseSensitive bool) (*domain.Quote, error)

	// Create stores q unless a quote with the same name already exists under the
	// given case policy, in which case it returns an already-exists conflict.
	Create(ctx context.Context, community string, q domain.Quote, caseSensitive bool) (*domain.Quote, error)

	// Delete removes the matching quote and reports whether one was removed.
	Delete(ctx context.Context, community, name string, caseSensitive bool) (bool, error)

	// Count returns the number of quotes in the community.
	Count(ctx context.Context, community string) (int, error)

	// ListPage returns the names at [page*perPage, page*perPage+perPage) in
	// ascending name order. Pages past the end are empty.
	ListPage(ctx context.Context, community string, page, perPage int) (*domain.QuotePage, error)

	// MaxPages returns ceil(Count/perPage), never less than 1.
	MaxPages(ctx context.Context, community string, perPage int) (int, error)
}
