package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-catalog/internal/app"
	"github.com/jsamuelsen/quote-catalog/internal/domain"
)

// QuoteHandler handles quote catalog HTTP endpoints.
type QuoteHandler struct {
	catalog *app.CatalogService
	imports *app.ImportService
}

// NewQuoteHandler creates a new quote handler. The import service powers the
// direct batch-create endpoint.
func NewQuoteHandler(catalog *app.CatalogService, imports *app.ImportService) *QuoteHandler {
	return &QuoteHandler{
		catalog: catalog,
		imports: imports,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
// Source serializes as null when absent. IsFavorite is present only when
// the request carried a visitor id.
type QuoteResponse struct {
	ID         int64   `json:"id"`
	Text       string  `json:"text"`
	Author     string  `json:"author"`
	Source     *string `json:"source"`
	Category   string  `json:"category"`
	CreatedAt  string  `json:"created_at"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q *domain.Quote, withFavorite bool) *QuoteResponse {
	resp := &QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Author:    q.Author,
		Category:  q.Category,
		CreatedAt: q.CreatedAt.UTC().Format(time.RFC3339),
	}

	if q.Source != "" {
		source := q.Source
		resp.Source = &source
	}

	if withFavorite {
		fav := q.IsFavorite
		resp.IsFavorite = &fav
	}

	return resp
}

// toQuoteResponses converts a slice of quotes.
func toQuoteResponses(quotes []domain.Quote, withFavorite bool) []*QuoteResponse {
	out := make([]*QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, toQuoteResponse(&quotes[i], withFavorite))
	}

	return out
}

// CreateQuoteRequest is the request body for creating a quote.
type CreateQuoteRequest struct {
	Text     string `json:"text"     validate:"required,notempty"`
	Author   string `json:"author"   validate:"required,notempty"`
	Source   string `json:"source"`
	Category string `json:"category" validate:"required,notempty"`
}

// UpdateQuoteRequest is the request body for partially updating a quote.
// Absent fields keep their current values.
type UpdateQuoteRequest struct {
	Text     *string `json:"text"`
	Author   *string `json:"author"`
	Source   *string `json:"source"`
	Category *string `json:"category"`
}

// BatchCreateRequest is the request body for creating several quotes in one
// call. Records are validated individually inside the pipeline so one bad
// record cannot sink the rest.
type BatchCreateRequest struct {
	Quotes []BatchQuoteRequest `json:"quotes" validate:"required,min=1"`
}

// BatchQuoteRequest is one record in a batch create.
type BatchQuoteRequest struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

// CreateQuote handles POST /api/quotes.
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		handleBindError(c, err)
		return
	}

	quote, err := h.catalog.Create(c.Request.Context(), req.Text, req.Author, req.Source, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toQuoteResponse(quote, false))
}

// GetQuote handles GET /api/quotes/:id.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	visitorID := c.Query("user_id")

	quote, err := h.catalog.Get(c.Request.Context(), id, visitorID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote, visitorID != ""))
}

// ListQuotes handles GET /api/quotes.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var page dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &page); err != nil {
		handleBindError(c, err)
		return
	}

	visitorID := c.Query("user_id")

	quotes, err := h.catalog.List(c.Request.Context(), visitorID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(toQuoteResponses(quotes, visitorID != ""), &page))
}

// ListQuotesByCategory handles GET /api/quotes/category/:category.
func (h *QuoteHandler) ListQuotesByCategory(c *gin.Context) {
	var page dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &page); err != nil {
		handleBindError(c, err)
		return
	}

	visitorID := c.Query("user_id")

	quotes, err := h.catalog.ListByCategory(c.Request.Context(), c.Param("category"), visitorID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(toQuoteResponses(quotes, visitorID != ""), &page))
}

// ListCategories handles GET /api/categories.
func (h *QuoteHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// UpdateQuote handles PUT /api/quotes/:id.
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req UpdateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		handleBindError(c, err)
		return
	}

	patch := domain.QuotePatch{
		Text:     req.Text,
		Author:   req.Author,
		Source:   req.Source,
		Category: req.Category,
	}

	quote, err := h.catalog.Update(c.Request.Context(), id, patch, c.Query("user_id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote, c.Query("user_id") != ""))
}

// DeleteQuote handles DELETE /api/quotes/:id.
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BatchCreateQuotes handles POST /api/quotes/batch. Records run through the
// same sequential partial-success pipeline as a staged import submit.
func (h *QuoteHandler) BatchCreateQuotes(c *gin.Context) {
	var req BatchCreateRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		handleBindError(c, err)
		return
	}

	records := make([]domain.ImportCandidate, 0, len(req.Quotes))
	for _, q := range req.Quotes {
		records = append(records, domain.ImportCandidate{
			Text:     q.Text,
			Author:   q.Author,
			Source:   q.Source,
			Category: q.Category,
		})
	}

	report, err := h.imports.SubmitRecords(c.Request.Context(), records)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toImportReportResponse(report))
}

// RegisterQuoteRoutes registers quote routes. Mutating routes go through the
// gate middleware.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/category/:category", h.ListQuotesByCategory)
	quotes.GET("/:id", h.GetQuote)

	quotes.POST("", gate, h.CreateQuote)
	quotes.POST("/batch", gate, h.BatchCreateQuotes)
	quotes.PUT("/:id", gate, h.UpdateQuote)
	quotes.DELETE("/:id", gate, h.DeleteQuote)

	rg.GET("/categories", h.ListCategories)
}

// quoteID parses the :id path parameter, responding with a 400 on garbage.
func quoteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "quote id must be an integer")
		return 0, false
	}

	return id, true
}

// handleBindError turns binding and request-validation failures into the
// error envelope.
func handleBindError(c *gin.Context, err error) {
	if dto.IsValidationError(err) {
		dto.HandleValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
}
