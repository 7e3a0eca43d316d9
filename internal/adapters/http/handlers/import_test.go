package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageBatch(t *testing.T, router *gin.Engine, body any) BatchResponse {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/import", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.BatchID)

	return resp
}

func TestImportStage(t *testing.T) {
	router := newTestRouter(t)

	t.Run("stages a JSON table", func(t *testing.T) {
		batch := stageBatch(t, router, gin.H{
			"header": []string{"text", "author", "category"},
			"rows": [][]string{
				{"Imported quote", "Importer", "history"},
				{"Another import", "Importer", "history"},
			},
		})

		require.Len(t, batch.Candidates, 2)
		assert.Equal(t, "Imported quote", batch.Candidates[0].Text)
		assert.True(t, batch.Candidates[0].Valid)
	})

	t.Run("stages a CSV body", func(t *testing.T) {
		csvBody := "text,author,category\nCSV quote,Writer,letters\n"

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(csvBody))
		req.Header.Set("Content-Type", "text/csv")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp BatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Candidates, 1)
		assert.Equal(t, "CSV quote", resp.Candidates[0].Text)
	})

	t.Run("missing required column is a schema error", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/import", gin.H{
			"header": []string{"text", "category"},
			"rows":   [][]string{{"No author column", "misc"}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "SCHEMA_ERROR")
	})

	t.Run("row cap enforced", func(t *testing.T) {
		rows := make([][]string, 101)
		for i := range rows {
			rows[i] = []string{"text", "author", "cat"}
		}

		w := doJSON(t, router, http.MethodPost, "/api/import", gin.H{
			"header": []string{"text", "author", "category"},
			"rows":   rows,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("malformed csv rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(`"unterminated`))
		req.Header.Set("Content-Type", "text/csv")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestImportRowEditing(t *testing.T) {
	router := newTestRouter(t)
	batch := stageBatch(t, router, gin.H{
		"header": []string{"text", "author", "category"},
		"rows":   [][]string{{"Row zero", "Author", "misc"}},
	})

	base := "/api/import/" + batch.BatchID

	t.Run("append row", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, base+"/rows", gin.H{
			"text": "Appended", "author": "Author", "category": "misc",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Index int `json:"index"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Index)
	})

	t.Run("update row", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, base+"/rows/0", gin.H{
			"text": "Rewritten", "author": "Author", "category": "misc",
		})
		assert.Equal(t, http.StatusNoContent, w.Code)

		got := doJSON(t, router, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, got.Code)

		var view BatchResponse
		require.NoError(t, json.Unmarshal(got.Body.Bytes(), &view))
		assert.Equal(t, "Rewritten", view.Candidates[0].Text)
	})

	t.Run("remove row", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, base+"/rows/1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		got := doJSON(t, router, http.MethodGet, base, nil)
		var view BatchResponse
		require.NoError(t, json.Unmarshal(got.Body.Bytes(), &view))
		assert.Len(t, view.Candidates, 1)
	})

	t.Run("out-of-range index is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, base+"/rows/42", gin.H{
			"text": "Nope", "author": "Author", "category": "misc",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-integer index is 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, base+"/rows/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown batch is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/import/no-such-batch", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestImportSubmit(t *testing.T) {
	router := newTestRouter(t)
	batch := stageBatch(t, router, gin.H{
		"header": []string{"text", "author", "source", "category"},
		"rows": [][]string{
			{"Submit me", "Author", "", "misc"},
			{"Missing author", "", "", "misc"},
		},
	})

	w := doJSON(t, router, http.MethodPost, "/api/import/"+batch.BatchID+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report ImportReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.NotEmpty(t, report.LastError)

	// Quotes from the successful record are queryable.
	list := doJSON(t, router, http.MethodGet, "/api/quotes", nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Submit me")

	// The batch survives submit for inspection and retry.
	got := doJSON(t, router, http.MethodGet, "/api/import/"+batch.BatchID, nil)
	assert.Equal(t, http.StatusOK, got.Code)
}

func TestImportDiscard(t *testing.T) {
	router := newTestRouter(t)
	batch := stageBatch(t, router, gin.H{
		"header": []string{"text", "author", "category"},
		"rows":   [][]string{{"Ephemeral", "Author", "misc"}},
	})

	w := doJSON(t, router, http.MethodDelete, "/api/import/"+batch.BatchID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	got := doJSON(t, router, http.MethodGet, "/api/import/"+batch.BatchID, nil)
	assert.Equal(t, http.StatusNotFound, got.Code)
}
