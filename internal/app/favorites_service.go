package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jsamuelsen/quote-catalog/internal/domain"
	"github.com/jsamuelsen/quote-catalog/internal/platform/logging"
	"github.com/jsamuelsen/quote-catalog/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-catalog/internal/ports"
)

// FavoritesService manages per-visitor favorite edges. It enforces the
// referential check the edge store leaves to callers: a favorite may only
// reference a live quote.
type FavoritesService struct {
	quotes    ports.QuoteRepository
	favorites ports.FavoriteRepository
	logger    *slog.Logger
}

// FavoritesServiceConfig contains dependencies for the favorites service.
type FavoritesServiceConfig struct {
	Quotes    ports.QuoteRepository
	Favorites ports.FavoriteRepository
	Logger    *slog.Logger
}

// NewFavoritesService creates a favorites service with the provided
// dependencies.
func NewFavoritesService(cfg FavoritesServiceConfig) *FavoritesService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FavoritesService{
		quotes:    cfg.Quotes,
		favorites: cfg.Favorites,
		logger:    logger.With(slog.String("component", "app.FavoritesService")),
	}
}

// Set drives the visitor's favorite edge for a quote to the desired state.
// The operation is idempotent in both directions and reports the resulting
// state rather than whether anything changed.
func (s *FavoritesService) Set(ctx context.Context, quoteID int64, visitorID string, desired bool) error {
	if visitorID == "" {
		return domain.NewValidationError("user_id", "must not be empty")
	}

	ok, err := s.quotes.Exists(ctx, quoteID)
	if err != nil {
		return fmt.Errorf("checking quote: %w", err)
	}

	if !ok {
		return domain.NewNotFoundError("quote", strconv.FormatInt(quoteID, 10))
	}

	if err := s.favorites.Set(ctx, quoteID, visitorID, desired); err != nil {
		return fmt.Errorf("setting favorite: %w", err)
	}

	state := "off"
	if desired {
		state = "on"
	}

	telemetry.FavoritesSet.WithLabelValues(state).Inc()

	logging.FromContext(ctx).InfoContext(ctx, "favorite set",
		slog.Int64("quote_id", quoteID),
		slog.Bool("favorited", desired),
	)

	return nil
}

// IsFavorite reports whether the visitor has favorited the quote.
func (s *FavoritesService) IsFavorite(ctx context.Context, quoteID int64, visitorID string) (bool, error) {
	if visitorID == "" {
		return false, nil
	}

	fav, err := s.favorites.IsFavorite(ctx, quoteID, visitorID)
	if err != nil {
		return false, fmt.Errorf("checking favorite: %w", err)
	}

	return fav, nil
}
