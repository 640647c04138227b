package driving

import (
	"context"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// DedupService collapses a batch of harvested documents into canonical
// representatives. This is the single operation the core exposes to the
// surrounding ingestion/workflow layer.
type DedupService interface {
	// Deduplicate identifies which entries refer to the same underlying
	// document and collapses them. A nil opts uses the defaults. The call is
	// pure and synchronous; concurrent calls are safe.
	Deduplicate(ctx context.Context, docs []domain.Document, opts *domain.DedupOptions) (*domain.DedupResult, error)
}
