package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-catalog/internal/app"
)

// FavoriteHandler handles per-visitor favorite endpoints.
type FavoriteHandler struct {
	favorites *app.FavoritesService
	catalog   *app.CatalogService
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(favorites *app.FavoritesService, catalog *app.CatalogService) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		catalog:   catalog,
	}
}

// FavoriteRequest is the request body for favoriting a quote.
type FavoriteRequest struct {
	UserID string `json:"user_id" validate:"required,notempty"`
}

// FavoriteResponse reports the resulting state of the favorite edge.
// The toggle is idempotent, so repeating a request returns the same body.
type FavoriteResponse struct {
	QuoteID    int64  `json:"quote_id"`
	UserID     string `json:"user_id"`
	IsFavorite bool   `json:"is_favorite"`
}

// Favorite handles POST /api/quotes/:id/favorite.
func (h *FavoriteHandler) Favorite(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req FavoriteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		handleBindError(c, err)
		return
	}

	if err := h.favorites.Set(c.Request.Context(), id, req.UserID, true); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, FavoriteResponse{QuoteID: id, UserID: req.UserID, IsFavorite: true})
}

// Unfavorite handles DELETE /api/quotes/:id/favorite.
func (h *FavoriteHandler) Unfavorite(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	visitorID := c.Query("user_id")

	if err := h.favorites.Set(c.Request.Context(), id, visitorID, false); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, FavoriteResponse{QuoteID: id, UserID: visitorID, IsFavorite: false})
}

// ListFavorites handles GET /api/favorites.
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	var page dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &page); err != nil {
		handleBindError(c, err)
		return
	}

	visitorID := c.Query("user_id")

	quotes, err := h.catalog.ListFavorites(c.Request.Context(), visitorID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(toQuoteResponses(quotes, true), &page))
}

// RegisterFavoriteRoutes registers favorite routes.
func (h *FavoriteHandler) RegisterFavoriteRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes/:id/favorite", h.Favorite)
	rg.DELETE("/quotes/:id/favorite", h.Unfavorite)
	rg.GET("/favorites", h.ListFavorites)
}
