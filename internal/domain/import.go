package domain

import (
	"strings"
)

// Import column names. Header matching is case-insensitive; text, author,
// and category are required, source is optional.
const (
	ImportColumnText     = "text"
	ImportColumnAuthor   = "author"
	ImportColumnSource   = "source"
	ImportColumnCategory = "category"
)

// ImportTable is a raw tabular import source: a header row followed by one
// candidate record per row. Rows may be ragged; missing cells read as empty.
type ImportTable struct {
	Header []string
	Rows   [][]string
}

// ImportCandidate is one staged quote record parsed from an import source.
// Candidates are deliberately permissive: only an empty text cell drops a
// row at parse time, so the operator can repair author/category before
// submission.
type ImportCandidate struct {
	Text     string
	Author   string
	Source   string
	Category string
}

// Validate reports whether the candidate is ready to submit. Same rules as
// Quote.Validate.
func (c ImportCandidate) Validate() error {
	q := Quote{Text: c.Text, Author: c.Author, Source: c.Source, Category: c.Category}
	return q.Validate()
}

// ParseImportTable resolves column positions from the header row and
// converts data rows into candidates. A missing required column yields a
// SchemaError. Rows whose text cell is empty after trimming are skipped;
// spreadsheet exports routinely carry blank trailing rows.
func ParseImportTable(table ImportTable) ([]ImportCandidate, error) {
	cols, err := resolveImportColumns(table.Header)
	if err != nil {
		return nil, err
	}

	candidates := make([]ImportCandidate, 0, len(table.Rows))

	for _, row := range table.Rows {
		text := strings.TrimSpace(cell(row, cols.text))
		if text == "" {
			continue
		}

		candidates = append(candidates, ImportCandidate{
			Text:     text,
			Author:   strings.TrimSpace(cell(row, cols.author)),
			Source:   strings.TrimSpace(cell(row, cols.source)),
			Category: strings.TrimSpace(cell(row, cols.category)),
		})
	}

	return candidates, nil
}

// importColumns holds resolved column indices. -1 means absent.
type importColumns struct {
	text     int
	author   int
	source   int
	category int
}

func resolveImportColumns(header []string) (importColumns, error) {
	cols := importColumns{text: -1, author: -1, source: -1, category: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ImportColumnText:
			cols.text = i
		case ImportColumnAuthor:
			cols.author = i
		case ImportColumnSource:
			cols.source = i
		case ImportColumnCategory:
			cols.category = i
		}
	}

	switch {
	case cols.text < 0:
		return cols, NewSchemaError(ImportColumnText)
	case cols.author < 0:
		return cols, NewSchemaError(ImportColumnAuthor)
	case cols.category < 0:
		return cols, NewSchemaError(ImportColumnCategory)
	}

	return cols, nil
}

// cell returns the idx-th cell of a possibly short row, or "" when the row
// has no such cell or the column is absent.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return row[idx]
}

// ImportRecordResult is the outcome of submitting one staged record.
type ImportRecordResult struct {
	// Index is the record's position in the staged sequence.
	Index int

	// QuoteID is set when the record was created successfully.
	QuoteID int64

	// Err holds the per-record failure, nil on success.
	Err error
}

// ImportReport aggregates a submit run. Per-record failures are tallied,
// never propagated; a run over a batch with some bad rows still commits the
// good ones.
type ImportReport struct {
	Total     int
	Succeeded int
	Failed    int

	// LastError is the message of the most recent per-record failure.
	LastError string

	Results []ImportRecordResult
}

// Record appends one outcome to the report and updates the tallies.
func (r *ImportReport) Record(result ImportRecordResult) {
	r.Results = append(r.Results, result)

	if result.Err != nil {
		r.Failed++
		r.LastError = result.Err.Error()

		return
	}

	r.Succeeded++
}
