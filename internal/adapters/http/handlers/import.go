package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-catalog/internal/app"
	"github.com/jsamuelsen/quote-catalog/internal/domain"
)

// ImportHandler handles the bulk-import pipeline endpoints.
type ImportHandler struct {
	imports *app.ImportService
	maxRows int
}

// NewImportHandler creates a new import handler. maxRows caps data rows per
// upload; zero disables the cap.
func NewImportHandler(imports *app.ImportService, maxRows int) *ImportHandler {
	return &ImportHandler{
		imports: imports,
		maxRows: maxRows,
	}
}

// ImportTableRequest is the JSON request body for staging an import. CSV
// uploads (Content-Type text/csv) carry the same table as raw rows instead.
type ImportTableRequest struct {
	Header []string   `json:"header" validate:"required,min=1"`
	Rows   [][]string `json:"rows"`
}

// CandidateRequest is the request body for adding or replacing a staged row.
type CandidateRequest struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

// CandidateResponse is one staged row in batch views.
type CandidateResponse struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Source   string `json:"source,omitempty"`
	Category string `json:"category"`

	// Valid reports whether the row would pass validation at submit.
	Valid bool `json:"valid"`
}

// BatchResponse is the staged batch view.
type BatchResponse struct {
	BatchID    string              `json:"batch_id"`
	CreatedAt  string              `json:"created_at"`
	Candidates []CandidateResponse `json:"candidates"`
}

// ImportReportResponse is the submit outcome.
type ImportReportResponse struct {
	Total     int                    `json:"total"`
	Succeeded int                    `json:"succeeded"`
	Failed    int                    `json:"failed"`
	LastError string                 `json:"last_error,omitempty"`
	Results   []ImportResultResponse `json:"results"`
}

// ImportResultResponse is one per-record submit outcome.
type ImportResultResponse struct {
	Index   int    `json:"index"`
	QuoteID int64  `json:"quote_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func toBatchResponse(batch *app.StagedBatch) *BatchResponse {
	resp := &BatchResponse{
		BatchID:    batch.ID,
		CreatedAt:  batch.CreatedAt.UTC().Format(time.RFC3339),
		Candidates: make([]CandidateResponse, 0, len(batch.Candidates)),
	}

	for i, cand := range batch.Candidates {
		resp.Candidates = append(resp.Candidates, CandidateResponse{
			Index:    i,
			Text:     cand.Text,
			Author:   cand.Author,
			Source:   cand.Source,
			Category: cand.Category,
			Valid:    cand.Validate() == nil,
		})
	}

	return resp
}

func toImportReportResponse(report *domain.ImportReport) *ImportReportResponse {
	resp := &ImportReportResponse{
		Total:     report.Total,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		LastError: report.LastError,
		Results:   make([]ImportResultResponse, 0, len(report.Results)),
	}

	for _, r := range report.Results {
		result := ImportResultResponse{Index: r.Index, QuoteID: r.QuoteID}
		if r.Err != nil {
			result.Error = r.Err.Error()
		}

		resp.Results = append(resp.Results, result)
	}

	return resp
}

// Stage handles POST /api/import. The table arrives either as JSON
// {header, rows} or as a text/csv body whose first record is the header.
func (h *ImportHandler) Stage(c *gin.Context) {
	table, ok := h.bindTable(c)
	if !ok {
		return
	}

	if h.maxRows > 0 && len(table.Rows) > h.maxRows {
		dto.HandleErrorCode(c, dto.ErrorCodeValidation,
			"import exceeds the maximum of "+strconv.Itoa(h.maxRows)+" rows")
		return
	}

	batch, err := h.imports.Stage(c.Request.Context(), table)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBatchResponse(batch))
}

// GetBatch handles GET /api/import/:batch.
func (h *ImportHandler) GetBatch(c *gin.Context) {
	batch, err := h.imports.Batch(c.Request.Context(), c.Param("batch"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBatchResponse(batch))
}

// AppendRow handles POST /api/import/:batch/rows.
func (h *ImportHandler) AppendRow(c *gin.Context) {
	var req CandidateRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		handleBindError(c, err)
		return
	}

	index, err := h.imports.AppendRow(c.Request.Context(), c.Param("batch"), candidateFromRequest(req))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"index": index})
}

// UpdateRow handles PUT /api/import/:batch/rows/:index.
func (h *ImportHandler) UpdateRow(c *gin.Context) {
	index, ok := rowIndex(c)
	if !ok {
		return
	}

	var req CandidateRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		handleBindError(c, err)
		return
	}

	if err := h.imports.UpdateRow(c.Request.Context(), c.Param("batch"), index, candidateFromRequest(req)); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveRow handles DELETE /api/import/:batch/rows/:index.
func (h *ImportHandler) RemoveRow(c *gin.Context) {
	index, ok := rowIndex(c)
	if !ok {
		return
	}

	if err := h.imports.RemoveRow(c.Request.Context(), c.Param("batch"), index); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Discard handles DELETE /api/import/:batch.
func (h *ImportHandler) Discard(c *gin.Context) {
	if err := h.imports.Discard(c.Request.Context(), c.Param("batch")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Submit handles POST /api/import/:batch/submit.
func (h *ImportHandler) Submit(c *gin.Context) {
	report, err := h.imports.Submit(c.Request.Context(), c.Param("batch"))
	if err != nil {
		// A pipeline-level abort still carries the partial tally.
		if report != nil {
			status, errResp := dto.MapDomainError(err)
			c.JSON(status, gin.H{
				"error":  errResp.Error,
				"report": toImportReportResponse(report),
			})

			return
		}

		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, toImportReportResponse(report))
}

// RegisterImportRoutes registers import routes behind the gate middleware.
func (h *ImportHandler) RegisterImportRoutes(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	imports := rg.Group("/import", gate)
	imports.POST("", h.Stage)
	imports.GET("/:batch", h.GetBatch)
	imports.DELETE("/:batch", h.Discard)
	imports.POST("/:batch/rows", h.AppendRow)
	imports.PUT("/:batch/rows/:index", h.UpdateRow)
	imports.DELETE("/:batch/rows/:index", h.RemoveRow)
	imports.POST("/:batch/submit", h.Submit)
}

// bindTable reads the import table from the request in either encoding.
func (h *ImportHandler) bindTable(c *gin.Context) (domain.ImportTable, bool) {
	if strings.HasPrefix(c.ContentType(), "text/csv") {
		reader := csv.NewReader(c.Request.Body)
		// Spreadsheet exports routinely produce ragged rows.
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil {
			dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "malformed csv: "+err.Error())
			return domain.ImportTable{}, false
		}

		if len(records) == 0 {
			dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "csv body is empty")
			return domain.ImportTable{}, false
		}

		return domain.ImportTable{Header: records[0], Rows: records[1:]}, true
	}

	var req ImportTableRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		handleBindError(c, err)
		return domain.ImportTable{}, false
	}

	return domain.ImportTable{Header: req.Header, Rows: req.Rows}, true
}

func candidateFromRequest(req CandidateRequest) domain.ImportCandidate {
	return domain.ImportCandidate{
		Text:     strings.TrimSpace(req.Text),
		Author:   strings.TrimSpace(req.Author),
		Source:   strings.TrimSpace(req.Source),
		Category: strings.TrimSpace(req.Category),
	}
}

// rowIndex parses the :index path parameter.
func rowIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "row index must be an integer")
		return 0, false
	}

	return index, true
}
