package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-catalog/internal/domain"
	"github.com/jsamuelsen/quote-catalog/internal/platform/logging"
	"github.com/jsamuelsen/quote-catalog/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-catalog/internal/ports"
)

// DefaultBatchTTL bounds how long an unsubmitted staging batch is kept.
const DefaultBatchTTL = 30 * time.Minute

// StagedBatch holds parsed import candidates awaiting review and submission.
// Candidates are mutable until submit; the operator can repair rows that
// failed permissive parsing.
type StagedBatch struct {
	ID         string
	CreatedAt  time.Time
	Candidates []domain.ImportCandidate
}

// ImportService runs the bulk-import pipeline: parse a tabular source,
// stage the candidates, let the operator edit them, then submit each record
// through the same create path as single-quote creation.
//
// Batches live in memory only. A restart discards staged work, which is
// acceptable for an operator-driven flow.
type ImportService struct {
	quotes ports.QuoteRepository
	logger *slog.Logger
	ttl    time.Duration

	mu      sync.Mutex
	batches map[string]*StagedBatch
}

// ImportServiceConfig contains dependencies for the import service.
type ImportServiceConfig struct {
	Quotes ports.QuoteRepository
	Logger *slog.Logger

	// BatchTTL overrides DefaultBatchTTL when positive.
	BatchTTL time.Duration
}

// NewImportService creates an import service with the provided dependencies.
func NewImportService(cfg ImportServiceConfig) *ImportService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ttl := cfg.BatchTTL
	if ttl <= 0 {
		ttl = DefaultBatchTTL
	}

	return &ImportService{
		quotes:  cfg.Quotes,
		logger:  logger.With(slog.String("component", "app.ImportService")),
		ttl:     ttl,
		batches: make(map[string]*StagedBatch),
	}
}

// Stage parses a tabular source and stores the resulting candidates as a
// new batch. Rows with an empty text cell are dropped during parsing;
// everything else is staged as-is, invalid or not.
func (s *ImportService) Stage(ctx context.Context, table domain.ImportTable) (*StagedBatch, error) {
	candidates, err := domain.ParseImportTable(table)
	if err != nil {
		return nil, fmt.Errorf("parsing import source: %w", err)
	}

	batch := &StagedBatch{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Candidates: candidates,
	}

	s.mu.Lock()
	s.expireLocked()
	s.batches[batch.ID] = batch
	s.mu.Unlock()

	logging.FromContext(ctx).InfoContext(ctx, "import batch staged",
		slog.String("batch_id", batch.ID),
		slog.Int("candidates", len(candidates)),
	)

	return batch, nil
}

// Batch retrieves a staged batch by id.
func (s *ImportService) Batch(_ context.Context, batchID string) (*StagedBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.batchLocked(batchID)
}

// UpdateRow replaces one staged candidate. The replacement is accepted even
// if invalid; validation happens at submit.
func (s *ImportService) UpdateRow(_ context.Context, batchID string, index int, candidate domain.ImportCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := s.batchLocked(batchID)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(batch.Candidates) {
		return domain.NewNotFoundError("import row", fmt.Sprintf("%s/%d", batchID, index))
	}

	batch.Candidates[index] = candidate

	return nil
}

// AppendRow adds a candidate to the end of a staged batch.
func (s *ImportService) AppendRow(_ context.Context, batchID string, candidate domain.ImportCandidate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := s.batchLocked(batchID)
	if err != nil {
		return 0, err
	}

	batch.Candidates = append(batch.Candidates, candidate)

	return len(batch.Candidates) - 1, nil
}

// RemoveRow deletes one staged candidate, shifting later rows down.
func (s *ImportService) RemoveRow(_ context.Context, batchID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := s.batchLocked(batchID)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(batch.Candidates) {
		return domain.NewNotFoundError("import row", fmt.Sprintf("%s/%d", batchID, index))
	}

	batch.Candidates = append(batch.Candidates[:index], batch.Candidates[index+1:]...)

	return nil
}

// Discard drops a staged batch without submitting it.
func (s *ImportService) Discard(_ context.Context, batchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.batchLocked(batchID); err != nil {
		return err
	}

	delete(s.batches, batchID)

	return nil
}

// Submit runs the staged batch through SubmitRecords. The batch stays
// staged afterwards; resubmitting creates duplicates.
func (s *ImportService) Submit(ctx context.Context, batchID string) (*domain.ImportReport, error) {
	s.mu.Lock()
	batch, err := s.batchLocked(batchID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	records := make([]domain.ImportCandidate, len(batch.Candidates))
	copy(records, batch.Candidates)
	s.mu.Unlock()

	return s.SubmitRecords(ctx, records)
}

// SubmitRecords creates a quote per candidate, sequentially and outside any
// transaction. A record that fails validation or creation is tallied and
// the run continues; records committed before a failure stay committed.
// Two failures abort the run as a whole: context cancellation and a store
// reporting itself unavailable. Both return the partial report alongside
// the error.
func (s *ImportService) SubmitRecords(ctx context.Context, records []domain.ImportCandidate) (*domain.ImportReport, error) {
	report := &domain.ImportReport{Total: len(records)}

	for i, candidate := range records {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("import interrupted: %w", err)
		}

		quote, err := domain.NewQuote(candidate.Text, candidate.Author, candidate.Source, candidate.Category)
		if err != nil {
			report.Record(domain.ImportRecordResult{Index: i, Err: err})
			telemetry.ImportRecords.WithLabelValues("failure").Inc()

			continue
		}

		stored, err := s.quotes.Create(ctx, quote)
		if err != nil {
			if domain.IsUnavailable(err) {
				return report, fmt.Errorf("import aborted at record %d: %w", i, err)
			}

			report.Record(domain.ImportRecordResult{Index: i, Err: err})
			telemetry.ImportRecords.WithLabelValues("failure").Inc()

			continue
		}

		report.Record(domain.ImportRecordResult{Index: i, QuoteID: stored.ID})
		telemetry.QuotesCreated.WithLabelValues("import").Inc()
		telemetry.ImportRecords.WithLabelValues("success").Inc()
	}

	logging.FromContext(ctx).InfoContext(ctx, "import submitted",
		slog.Int("total", report.Total),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
	)

	return report, nil
}

// batchLocked looks up a live batch. Callers must hold s.mu.
func (s *ImportService) batchLocked(batchID string) (*StagedBatch, error) {
	s.expireLocked()

	batch, ok := s.batches[batchID]
	if !ok {
		return nil, domain.NewNotFoundError("import batch", batchID)
	}

	return batch, nil
}

// expireLocked drops batches past their TTL. Callers must hold s.mu.
func (s *ImportService) expireLocked() {
	cutoff := time.Now().UTC().Add(-s.ttl)

	for id, batch := range s.batches {
		if batch.CreatedAt.Before(cutoff) {
			delete(s.batches, id)
		}
	}
}
