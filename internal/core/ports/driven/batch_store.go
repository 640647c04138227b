package driven

import (
	"context"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// BatchStore handles persistence of staged document batches (PostgreSQL).
// Upstream ingestion stages batches; the worker claims and resolves them.
type BatchStore interface {
	// Get retrieves a batch with its staged documents
	Get(ctx context.Context, id string) (*domain.Batch, error)

	// Save stores a new pending batch with its documents
	Save(ctx context.Context, batch *domain.Batch) error

	// ListPending returns IDs of batches awaiting reconciliation, oldest first
	ListPending(ctx context.Context, limit int) ([]string, error)

	// MarkProcessing transitions a pending batch to processing.
	// Returns domain.ErrBatchNotPending if the batch is in any other state.
	MarkProcessing(ctx context.Context, id string) error

	// Complete stores the surviving documents and marks the batch completed
	Complete(ctx context.Context, id string, survivors []domain.Document) error

	// Fail marks the batch failed with a reason
	Fail(ctx context.Context, id string, reason string) error
}
