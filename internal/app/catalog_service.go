// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quote-catalog/internal/domain"
	"github.com/jsamuelsen/quote-catalog/internal/platform/logging"
	"github.com/jsamuelsen/quote-catalog/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-catalog/internal/ports"
)

// CatalogService orchestrates quote catalog use cases. It owns no state of
// its own; all quote state lives behind the repository port.
type CatalogService struct {
	quotes ports.QuoteRepository
	logger *slog.Logger
}

// CatalogServiceConfig contains dependencies for the catalog service.
type CatalogServiceConfig struct {
	Quotes ports.QuoteRepository
	Logger *slog.Logger
}

// NewCatalogService creates a catalog service with the provided dependencies.
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{
		quotes: cfg.Quotes,
		logger: logger.With(slog.String("component", "app.CatalogService")),
	}
}

// Create validates and stores a new quote. The store assigns id and
// creation time.
func (s *CatalogService) Create(ctx context.Context, text, author, source, category string) (*domain.Quote, error) {
	quote, err := domain.NewQuote(text, author, source, category)
	if err != nil {
		return nil, fmt.Errorf("validating quote: %w", err)
	}

	stored, err := s.quotes.Create(ctx, quote)
	if err != nil {
		return nil, fmt.Errorf("creating quote: %w", err)
	}

	telemetry.QuotesCreated.WithLabelValues("api").Inc()

	logging.FromContext(ctx).InfoContext(ctx, "quote created",
		slog.Int64("quote_id", stored.ID),
		slog.String("author", stored.Author),
		slog.String("category", stored.Category),
	)

	return stored, nil
}

// Get retrieves one quote annotated for the visitor.
func (s *CatalogService) Get(ctx context.Context, id int64, visitorID string) (*domain.Quote, error) {
	quote, err := s.quotes.GetByID(ctx, id, visitorID)
	if err != nil {
		return nil, fmt.Errorf("getting quote: %w", err)
	}

	return quote, nil
}

// List returns all live quotes in insertion order, annotated for the
// visitor.
func (s *CatalogService) List(ctx context.Context, visitorID string) ([]domain.Quote, error) {
	quotes, err := s.quotes.List(ctx, visitorID)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	return quotes, nil
}

// ListByCategory returns quotes with an exact, case-sensitive category
// match. An unknown category yields an empty list.
func (s *CatalogService) ListByCategory(ctx context.Context, category, visitorID string) ([]domain.Quote, error) {
	quotes, err := s.quotes.ListByCategory(ctx, category, visitorID)
	if err != nil {
		return nil, fmt.Errorf("listing quotes by category: %w", err)
	}

	return quotes, nil
}

// ListFavorites returns the visitor's favorited quotes.
func (s *CatalogService) ListFavorites(ctx context.Context, visitorID string) ([]domain.Quote, error) {
	if visitorID == "" {
		return nil, domain.NewValidationError("user_id", "must not be empty")
	}

	quotes, err := s.quotes.ListFavorites(ctx, visitorID)
	if err != nil {
		return nil, fmt.Errorf("listing favorite quotes: %w", err)
	}

	return quotes, nil
}

// Categories returns the derived category set: every distinct non-empty
// category appearing on at least one live quote.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.quotes.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	return categories, nil
}

// Update applies a partial patch to an existing quote.
func (s *CatalogService) Update(ctx context.Context, id int64, patch domain.QuotePatch, visitorID string) (*domain.Quote, error) {
	quote, err := s.quotes.Update(ctx, id, patch, visitorID)
	if err != nil {
		return nil, fmt.Errorf("updating quote: %w", err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "quote updated",
		slog.Int64("quote_id", id),
	)

	return quote, nil
}

// Delete removes a quote along with every favorite edge referencing it.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.quotes.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting quote: %w", err)
	}

	telemetry.QuotesDeleted.Inc()

	logging.FromContext(ctx).InfoContext(ctx, "quote deleted",
		slog.Int64("quote_id", id),
	)

	return nil
}
