package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-catalog/internal/domain"
)

func newFavoritesService(t *testing.T) (*FavoritesService, *CatalogService) {
	t.Helper()

	store := newTestStore(t)
	catalog := NewCatalogService(CatalogServiceConfig{Quotes: store})
	favorites := NewFavoritesService(FavoritesServiceConfig{Quotes: store, Favorites: store})

	return favorites, catalog
}

func TestFavoritesService_SetAndCheck(t *testing.T) {
	favorites, catalog := newFavoritesService(t)
	ctx := context.Background()

	quote, err := catalog.Create(ctx, "one", "A", "", "x")
	require.NoError(t, err)

	fav, err := favorites.IsFavorite(ctx, quote.ID, "v1")
	require.NoError(t, err)
	assert.False(t, fav)

	require.NoError(t, favorites.Set(ctx, quote.ID, "v1", true))

	fav, err = favorites.IsFavorite(ctx, quote.ID, "v1")
	require.NoError(t, err)
	assert.True(t, fav)

	// Idempotent both ways.
	require.NoError(t, favorites.Set(ctx, quote.ID, "v1", true))
	require.NoError(t, favorites.Set(ctx, quote.ID, "v1", false))
	require.NoError(t, favorites.Set(ctx, quote.ID, "v1", false))

	fav, err = favorites.IsFavorite(ctx, quote.ID, "v1")
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestFavoritesService_Set_UnknownQuote(t *testing.T) {
	favorites, _ := newFavoritesService(t)

	err := favorites.Set(context.Background(), 999, "v1", true)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	// Unfavoriting an unknown quote is also a not found, not a silent no-op.
	err = favorites.Set(context.Background(), 999, "v1", false)
	assert.True(t, domain.IsNotFound(err))
}

func TestFavoritesService_Set_RequiresVisitor(t *testing.T) {
	favorites, catalog := newFavoritesService(t)
	ctx := context.Background()

	quote, err := catalog.Create(ctx, "one", "A", "", "x")
	require.NoError(t, err)

	err = favorites.Set(ctx, quote.ID, "", true)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestFavoritesService_IsFavorite_EmptyVisitor(t *testing.T) {
	favorites, _ := newFavoritesService(t)

	fav, err := favorites.IsFavorite(context.Background(), 1, "")
	require.NoError(t, err)
	assert.False(t, fav)
}
