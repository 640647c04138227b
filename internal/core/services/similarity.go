package services

import (
	"fmt"
	"strings"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// SimilarityDetector catches near-duplicates that exact identity signals
// missed, using token-set Jaccard similarity over titles and content. It only
// runs over documents identity resolution left distinct, and is O(n²) in the
// worst case; callers with large batches should pre-shard upstream.
type SimilarityDetector struct {
	merger *MergeResolver
}

// NewSimilarityDetector creates a SimilarityDetector.
func NewSimilarityDetector(merger *MergeResolver) *SimilarityDetector {
	return &SimilarityDetector{merger: merger}
}

// DetectSimilar scans the remaining representatives pairwise. Matched
// documents form a group reduced under the configured strategy, exactly as in
// identity resolution; merge folds group members left to right. Each
// processed index is never reconsidered as a new cluster seed.
func (s *SimilarityDetector) DetectSimilar(reps []domain.NormalizedDocument, opts domain.DedupOptions) ([]domain.NormalizedDocument, map[string][]domain.Document) {
	if len(reps) < 2 {
		return reps, nil
	}

	processed := make([]bool, len(reps))
	absorbed := make([]bool, len(reps))
	reduced := make(map[int]domain.NormalizedDocument)
	groups := make(map[string][]domain.Document)

	for i := range reps {
		if processed[i] {
			continue
		}
		processed[i] = true

		var members []int
		for j := i + 1; j < len(reps); j++ {
			if processed[j] {
				continue
			}
			// Exact signals already had their chance; a shared one here
			// means an option gated it off, not a fresh near-duplicate.
			if sharesExactSignal(&reps[i], &reps[j]) {
				continue
			}
			if !s.pairMatches(&reps[i], &reps[j], opts.SimilarityThresholds) {
				continue
			}
			processed[j] = true
			absorbed[j] = true
			members = append(members, j)
		}

		if len(members) == 0 {
			continue
		}

		key := fmt.Sprintf("similarity:%d-%d", i, members[0])
		groups[key] = append(groups[key], reps[i].Document)
		for _, j := range members {
			groups[key] = append(groups[key], reps[j].Document)
		}

		reduced[i] = s.reduceGroup(reps, i, members, opts.Strategy)
	}

	out := make([]domain.NormalizedDocument, 0, len(reps))
	for i := range reps {
		if absorbed[i] {
			continue
		}
		if doc, ok := reduced[i]; ok {
			out = append(out, doc)
			continue
		}
		out = append(out, reps[i])
	}

	if len(groups) == 0 {
		groups = nil
	}
	return out, groups
}

// pairMatches applies the two-tier gate: the title threshold admits a
// candidate pair, then content similarity confirms it. Without content on
// both sides the title alone must clear the stricter bar, to avoid false
// merges on look-alike titles.
func (s *SimilarityDetector) pairMatches(a, b *domain.NormalizedDocument, thresholds domain.SimilarityThresholds) bool {
	titleSim := JaccardSimilarity(a.NormalizedTitle, b.NormalizedTitle)
	if titleSim < thresholds.Title {
		return false
	}

	contentA := extractContent(&a.Document)
	contentB := extractContent(&b.Document)
	if contentA != "" && contentB != "" {
		return JaccardSimilarity(contentA, contentB) >= thresholds.Content
	}
	return titleSim >= domain.TitleOnlySimilarityBar
}

// reduceGroup collapses a similarity group into its representative slot.
func (s *SimilarityDetector) reduceGroup(reps []domain.NormalizedDocument, seed int, members []int, strategy domain.DuplicateStrategy) domain.NormalizedDocument {
	switch strategy {
	case domain.StrategyKeepLast:
		return reps[members[len(members)-1]]
	case domain.StrategyMerge:
		acc := reps[seed]
		for _, j := range members {
			acc = s.merger.Merge(acc, reps[j])
		}
		return acc
	default:
		return reps[seed]
	}
}

// sharesExactSignal reports whether two documents already share a non-empty
// fingerprint, stable ID or normalized URL.
func sharesExactSignal(a, b *domain.NormalizedDocument) bool {
	if a.ContentFingerprint != "" && a.ContentFingerprint == b.ContentFingerprint {
		return true
	}
	if a.StableID != "" && a.StableID == b.StableID {
		return true
	}
	if a.NormalizedURL != "" && a.NormalizedURL == b.NormalizedURL {
		return true
	}
	return false
}

// extractContent picks the best available text for content comparison:
// full text, then the source summary (Dutch registries use "samenvatting"),
// then the enrichment summary.
func extractContent(d *domain.Document) string {
	if strings.TrimSpace(d.FullText) != "" {
		return d.FullText
	}
	for _, key := range []string{domain.MetaSamenvatting, domain.MetaSummary} {
		if s, ok := d.SourceMetadata[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	if s, ok := d.EnrichmentMetadata[domain.MetaSummary].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return ""
}

// JaccardSimilarity computes |A∩B| / |A∪B| over whitespace-delimited,
// case-insensitive token sets. Identical normalized strings score 1.0; an
// empty token set on either side scores 0.0.
func JaccardSimilarity(a, b string) float64 {
	na := strings.Join(strings.Fields(strings.ToLower(a)), " ")
	nb := strings.Join(strings.Fields(strings.ToLower(b)), " ")
	if na == nb && na != "" {
		return 1.0
	}

	tokensA := tokenSet(na)
	tokensB := tokenSet(nb)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range tokensA {
		if _, ok := tokensB[tok]; ok {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
