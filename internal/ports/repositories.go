// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrValidation, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-catalog/internal/domain"
)

// QuoteRepository is the contract for quote persistence.
//
// Read methods take a visitorID used to annotate each returned quote with
// its favorited state for that visitor; an empty visitorID leaves the
// annotation false. Lists preserve insertion order.
type QuoteRepository interface {
	// Create persists a validated quote, assigning its ID and CreatedAt.
	// Returns the stored quote.
	Create(ctx context.Context, quote *domain.Quote) (*domain.Quote, error)

	// GetByID retrieves one quote.
	// Returns domain.ErrNotFound if the id does not exist.
	GetByID(ctx context.Context, id int64, visitorID string) (*domain.Quote, error)

	// List returns all live quotes in insertion order.
	List(ctx context.Context, visitorID string) ([]domain.Quote, error)

	// ListByCategory returns quotes whose category matches exactly
	// (case-sensitive). An unknown category yields an empty slice, not an
	// error.
	ListByCategory(ctx context.Context, category, visitorID string) ([]domain.Quote, error)

	// ListFavorites returns the quotes the visitor has favorited.
	ListFavorites(ctx context.Context, visitorID string) ([]domain.Quote, error)

	// Categories returns the distinct non-empty categories across live
	// quotes. A category with zero live quotes never appears.
	Categories(ctx context.Context) ([]string, error)

	// Update applies a patch to an existing quote and returns the result.
	// Returns domain.ErrNotFound if the id does not exist.
	Update(ctx context.Context, id int64, patch domain.QuotePatch, visitorID string) (*domain.Quote, error)

	// Delete removes a quote and all favorite edges referencing it.
	// Returns domain.ErrNotFound if the id does not exist.
	Delete(ctx context.Context, id int64) error

	// Exists reports whether a quote id references a live quote.
	Exists(ctx context.Context, id int64) (bool, error)
}

// FavoriteRepository is the contract for the visitor↔quote favorite
// relation. At most one edge exists per (visitor, quote) pair; Set is
// idempotent in both directions.
type FavoriteRepository interface {
	// Set ensures the edge exists (desired true) or is absent (desired
	// false). Repeating the same call is a no-op. Referential validity of
	// quoteID is the caller's concern.
	Set(ctx context.Context, quoteID int64, visitorID string, desired bool) error

	// IsFavorite reports whether the visitor has favorited the quote.
	IsFavorite(ctx context.Context, quoteID int64, visitorID string) (bool, error)
}
