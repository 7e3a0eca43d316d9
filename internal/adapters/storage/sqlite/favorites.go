package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Set ensures the favorite edge exists or is absent. Both directions are
// idempotent: INSERT OR IGNORE rides the UNIQUE(quote_id, user_id)
// constraint, and deleting an absent edge affects zero rows.
func (s *Store) Set(ctx context.Context, quoteID int64, visitorID string, desired bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}

	var err error

	if desired {
		_, err = s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO favorites (quote_id, user_id, created_at) VALUES (?, ?, ?)",
			quoteID, visitorID, time.Now().UTC().Format(time.RFC3339Nano),
		)
	} else {
		_, err = s.db.ExecContext(ctx,
			"DELETE FROM favorites WHERE quote_id = ? AND user_id = ?",
			quoteID, visitorID,
		)
	}

	if err != nil {
		return storeErr("setting favorite", err)
	}

	return nil
}

// IsFavorite reports whether the visitor has favorited the quote.
func (s *Store) IsFavorite(ctx context.Context, quoteID int64, visitorID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.guard(); err != nil {
		return false, err
	}

	var one int

	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM favorites WHERE quote_id = ? AND user_id = ?",
		quoteID, visitorID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, storeErr("checking favorite", err)
	}

	return true, nil
}
