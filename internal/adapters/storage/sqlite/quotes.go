package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jsamuelsen/quote-catalog/internal/domain"
)

// quoteColumns selects the quote fields plus the is_favorite annotation for
// the bound visitor. An empty visitor id matches no favorite rows, so the
// annotation falls out false without a separate query path.
const quoteColumns = `
	q.id, q.text, q.author, q.source, q.category, q.created_at,
	EXISTS(SELECT 1 FROM favorites f WHERE f.quote_id = q.id AND f.user_id = ?) AS is_favorite`

// Create persists a validated quote, assigning its id and creation time.
func (s *Store) Create(ctx context.Context, quote *domain.Quote) (*domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO quotes (text, author, source, category, created_at) VALUES (?, ?, ?, ?, ?)",
		quote.Text, quote.Author, nullable(quote.Source), quote.Category, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, storeErr("inserting quote", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, storeErr("reading inserted quote id", err)
	}

	stored := *quote
	stored.ID = id
	stored.CreatedAt = createdAt
	stored.IsFavorite = false

	return &stored, nil
}

// GetByID retrieves one quote, annotated for the visitor.
func (s *Store) GetByID(ctx context.Context, id int64, visitorID string) (*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.guard(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+quoteColumns+" FROM quotes q WHERE q.id = ?",
		visitorID, id,
	)

	quote, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("quote", strconv.FormatInt(id, 10))
	}

	if err != nil {
		return nil, storeErr("selecting quote", err)
	}

	return quote, nil
}

// List returns all live quotes in insertion order.
func (s *Store) List(ctx context.Context, visitorID string) ([]domain.Quote, error) {
	return s.queryQuotes(ctx,
		"SELECT "+quoteColumns+" FROM quotes q ORDER BY q.id",
		visitorID,
	)
}

// ListByCategory returns quotes with an exact category match.
func (s *Store) ListByCategory(ctx context.Context, category, visitorID string) ([]domain.Quote, error) {
	return s.queryQuotes(ctx,
		"SELECT "+quoteColumns+" FROM quotes q WHERE q.category = ? ORDER BY q.id",
		visitorID, category,
	)
}

// ListFavorites returns the quotes the visitor has favorited.
func (s *Store) ListFavorites(ctx context.Context, visitorID string) ([]domain.Quote, error) {
	return s.queryQuotes(ctx,
		"SELECT "+quoteColumns+` FROM quotes q
		 JOIN favorites fav ON fav.quote_id = q.id AND fav.user_id = ?
		 ORDER BY q.id`,
		visitorID, visitorID,
	)
}

// Categories returns the distinct non-empty categories of live quotes.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.guard(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM quotes WHERE category != '' ORDER BY category",
	)
	if err != nil {
		return nil, storeErr("selecting categories", err)
	}
	defer rows.Close()

	var categories []string

	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, storeErr("scanning category", err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating categories", err)
	}

	return categories, nil
}

// Update applies a patch to an existing quote.
func (s *Store) Update(ctx context.Context, id int64, patch domain.QuotePatch, visitorID string) (*domain.Quote, error) {
	if patch.IsEmpty() {
		return nil, domain.NewValidationError("", "no fields to update")
	}

	current, err := s.GetByID(ctx, id, visitorID)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(current); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE quotes SET text = ?, author = ?, source = ?, category = ? WHERE id = ?",
		current.Text, current.Author, nullable(current.Source), current.Category, id,
	)
	if err != nil {
		return nil, storeErr("updating quote", err)
	}

	return current, nil
}

// Delete removes a quote and, through the schema's cascade, its favorite
// edges.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM quotes WHERE id = ?", id)
	if err != nil {
		return storeErr("deleting quote", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("checking deleted quote", err)
	}

	if affected == 0 {
		return domain.NewNotFoundError("quote", strconv.FormatInt(id, 10))
	}

	return nil
}

// Exists reports whether a quote id references a live quote.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.guard(); err != nil {
		return false, err
	}

	var one int

	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM quotes WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, storeErr("checking quote exists", err)
	}

	return true, nil
}

// queryQuotes runs a quote list query and scans the result set.
func (s *Store) queryQuotes(ctx context.Context, query string, args ...any) ([]domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.guard(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("selecting quotes", err)
	}
	defer rows.Close()

	quotes := make([]domain.Quote, 0)

	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, storeErr("scanning quote", err)
		}

		quotes = append(quotes, *quote)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating quotes", err)
	}

	return quotes, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(row scanner) (*domain.Quote, error) {
	var (
		quote      domain.Quote
		source     sql.NullString
		createdAt  string
		isFavorite bool
	)

	err := row.Scan(&quote.ID, &quote.Text, &quote.Author, &source, &quote.Category, &createdAt, &isFavorite)
	if err != nil {
		return nil, err
	}

	quote.Source = source.String
	quote.IsFavorite = isFavorite

	quote.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, err
	}

	return &quote, nil
}

// nullable maps an empty optional string to NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
