package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/lexharvest/dedup-core/internal/core/domain"
	"github.com/lexharvest/dedup-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.BatchStore = (*BatchStore)(nil)

// BatchStore implements driven.BatchStore using PostgreSQL.
// Staged documents travel as a single JSONB column; batches are small
// enough (thousands of documents) that row-per-document storage would
// only add joins.
type BatchStore struct {
	db *DB
}

// NewBatchStore creates a new BatchStore
func NewBatchStore(db *DB) *BatchStore {
	return &BatchStore{db: db}
}

// Save stores a new pending batch with its documents
func (s *BatchStore) Save(ctx context.Context, batch *domain.Batch) error {
	docs, err := json.Marshal(batch.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}

	query := `
		INSERT INTO batches (id, status, documents, error, created_at, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.ExecContext(ctx, query,
		batch.ID,
		string(batch.Status),
		docs,
		batch.Error,
		batch.CreatedAt,
		NullTime(batch.StartedAt),
		NullTime(batch.CompletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// Get retrieves a batch with its staged documents
func (s *BatchStore) Get(ctx context.Context, id string) (*domain.Batch, error) {
	query := `
		SELECT id, status, documents, error, created_at, started_at, completed_at
		FROM batches
		WHERE id = $1
	`

	var batch domain.Batch
	var docs []byte
	var startedAt, completedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&batch.ID,
		&batch.Status,
		&docs,
		&batch.Error,
		&batch.CreatedAt,
		&startedAt,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select batch: %w", err)
	}

	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &batch.Documents); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
	}
	batch.StartedAt = TimePtr(startedAt)
	batch.CompletedAt = TimePtr(completedAt)

	return &batch, nil
}

// ListPending returns IDs of batches awaiting reconciliation, oldest first
func (s *BatchStore) ListPending(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT id
		FROM batches
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, domain.BatchStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("select pending batches: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan batch id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkProcessing transitions a pending batch to processing
func (s *BatchStore) MarkProcessing(ctx context.Context, id string) error {
	query := `
		UPDATE batches
		SET status = $1, started_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.BatchStatusProcessing, time.Now(), id, domain.BatchStatusPending)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish missing from wrong-state
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM batches WHERE id = $1)", id).Scan(&exists); err != nil {
			return fmt.Errorf("check batch: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrBatchNotPending
	}
	return nil
}

// Complete stores the surviving documents and marks the batch completed
func (s *BatchStore) Complete(ctx context.Context, id string, survivors []domain.Document) error {
	docs, err := json.Marshal(survivors)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}

	query := `
		UPDATE batches
		SET status = $1, documents = $2, error = '', completed_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.BatchStatusCompleted, docs, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return requireRow(result)
}

// Fail marks the batch failed with a reason
func (s *BatchStore) Fail(ctx context.Context, id string, reason string) error {
	query := `
		UPDATE batches
		SET status = $1, error = $2, completed_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.BatchStatusFailed, reason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// isUniqueViolation reports the PostgreSQL unique constraint error (23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
