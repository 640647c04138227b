package driven

import (
	"context"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// ReportStore persists duplicate-group reports for observability (PostgreSQL).
// Reports are never read back by the engine itself.
type ReportStore interface {
	// Save stores a report
	Save(ctx context.Context, report *domain.DuplicateReport) error

	// Get retrieves a report by ID
	Get(ctx context.Context, id string) (*domain.DuplicateReport, error)

	// GetByBatch retrieves the report for a batch
	GetByBatch(ctx context.Context, batchID string) (*domain.DuplicateReport, error)

	// List retrieves recent reports, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.DuplicateReport, error)
}
