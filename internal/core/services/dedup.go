package services

import (
	"context"

	"github.com/lexharvest/dedup-core/internal/core/domain"
	"github.com/lexharvest/dedup-core/internal/core/ports/driving"
)

// Ensure dedupService implements DedupService
var _ driving.DedupService = (*dedupService)(nil)

// dedupService drives the deduplication pipeline:
// normalize all → resolve identity → optionally detect similarity →
// strip the derived comparison keys → return survivors plus the group report.
//
// The service holds no cross-call state; concurrent batches are safe.
type dedupService struct {
	normalizer *Normalizer
	identity   *IdentityResolver
	similarity *SimilarityDetector
}

// NewDedupService creates a DedupService with the built-in source
// precedence table.
func NewDedupService() driving.DedupService {
	return NewDedupServiceWithPolicy(domain.DefaultAuthorityPolicy())
}

// NewDedupServiceWithPolicy creates a DedupService with a caller-supplied
// precedence table for merge tie-breaks.
func NewDedupServiceWithPolicy(policy domain.AuthorityPolicy) driving.DedupService {
	merger := NewMergeResolverWithPolicy(policy)
	return &dedupService{
		normalizer: NewNormalizer(),
		identity:   NewIdentityResolver(merger),
		similarity: NewSimilarityDetector(merger),
	}
}

// Deduplicate collapses duplicates within one batch. A nil opts uses the
// defaults (match by URL and stable ID, keep-first, no similarity stage).
func (s *dedupService) Deduplicate(_ context.Context, docs []domain.Document, opts *domain.DedupOptions) (*domain.DedupResult, error) {
	if len(docs) == 0 {
		return &domain.DedupResult{Documents: []domain.Document{}}, nil
	}

	options := domain.DefaultDedupOptions()
	if opts != nil {
		options = opts.Normalize()
	}

	normalized := s.normalizer.NormalizeBatch(docs)

	reps, groups := s.identity.Resolve(normalized, options)

	if options.UseSimilarityHeuristics {
		var similarGroups map[string][]domain.Document
		reps, similarGroups = s.similarity.DetectSimilar(reps, options)
		for key, members := range similarGroups {
			groups[key] = members
		}
	}

	out := make([]domain.Document, len(reps))
	for i := range reps {
		// Document carries no derived keys, so taking it strips
		// normalizedUrl, normalizedTitle and stableId in one move.
		out[i] = reps[i].Document
	}

	result := &domain.DedupResult{
		Documents:         out,
		DuplicatesRemoved: len(docs) - len(out),
	}
	if len(groups) > 0 {
		result.DuplicateGroups = groups
	}
	return result, nil
}
