// Package sqlite implements the catalog's persistence ports on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/jsamuelsen/quote-catalog/internal/domain"
)

// Store implements ports.QuoteRepository and ports.FavoriteRepository on a
// single SQLite database. It also implements ports.HealthChecker.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// New opens (creating if necessary) the catalog database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing catalog database: %w", err)
	}

	return store, nil
}

// NewInMemory creates an in-memory store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	// A pooled connection would see its own empty :memory: database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing in-memory database: %w", err)
	}

	return store, nil
}

// initialize creates the tables and indexes.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS quotes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			author TEXT NOT NULL,
			source TEXT,
			category TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS favorites (
			quote_id INTEGER NOT NULL,
			user_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(quote_id, user_id),
			FOREIGN KEY (quote_id) REFERENCES quotes (id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_quotes_category ON quotes(category);
		CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "sqlite"
}

// Check implements ports.HealthChecker by pinging the database.
func (s *Store) Check(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.NewUnavailableError("sqlite", "store closed")
	}

	return s.db.PingContext(ctx)
}

// Close closes the store. Further calls fail with an unavailable error.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	return s.db.Close()
}

// guard returns an unavailable error when the store is closed. Callers must
// hold at least a read lock.
func (s *Store) guard() error {
	if s.closed {
		return domain.NewUnavailableError("sqlite", "store closed")
	}

	return nil
}

// storeErr wraps unexpected driver failures as unavailable so callers can
// distinguish a broken store from bad input.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, domain.NewUnavailableError("sqlite", err.Error()))
}
