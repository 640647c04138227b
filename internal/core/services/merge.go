package services

import (
	"time"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// MergeResolver blends two documents judged to be the same underlying
// document into one representative. Merge is a left fold over a group: it
// must be well-defined for any ordered pair, and merging a document with
// itself yields an equivalent document.
type MergeResolver struct {
	policy domain.AuthorityPolicy
}

// NewMergeResolver creates a MergeResolver with the built-in source
// precedence table.
func NewMergeResolver() *MergeResolver {
	return NewMergeResolverWithPolicy(domain.DefaultAuthorityPolicy())
}

// NewMergeResolverWithPolicy creates a MergeResolver with a caller-supplied
// precedence table.
func NewMergeResolverWithPolicy(policy domain.AuthorityPolicy) *MergeResolver {
	return &MergeResolver{policy: policy}
}

// Merge combines a (the current representative) and b (the newly absorbed
// document). The document with the higher authority score is the base: its
// values win wherever no field-specific rule applies.
func (m *MergeResolver) Merge(a, b domain.NormalizedDocument) domain.NormalizedDocument {
	base, other := &a, &b
	if b.AuthorityScore() > a.AuthorityScore() {
		base, other = &b, &a
	}

	out := domain.NormalizedDocument{Document: *base.Document.Clone()}

	out.ID = firstNonEmpty(base.ID, other.ID)
	out.CanonicalURL = m.mergeURL(&a, &b)
	out.SourceID = m.preferRegistryValue(&a, &b, func(d *domain.NormalizedDocument) string { return d.SourceID })
	out.DocumentType = m.preferRegistryValue(&a, &b, func(d *domain.NormalizedDocument) string { return d.DocumentType })
	out.Title = longerString(a.Title, b.Title)
	out.FullText = longerString(a.FullText, b.FullText)
	out.DocumentFamily = firstNonEmpty(base.DocumentFamily, other.DocumentFamily)
	out.PublisherAuthority = firstNonEmpty(base.PublisherAuthority, other.PublisherAuthority)
	out.ContentFingerprint = firstNonEmpty(base.ContentFingerprint, other.ContentFingerprint)
	out.Dates.PublishedAt = mergeDates(a.Dates.PublishedAt, b.Dates.PublishedAt)
	out.ArtifactRefs = mergeArtifactRefs(a.ArtifactRefs, b.ArtifactRefs)
	out.SourceMetadata = shallowMerge(other.SourceMetadata, base.SourceMetadata)
	out.EnrichmentMetadata = shallowMerge(other.EnrichmentMetadata, base.EnrichmentMetadata)

	// Computed enrichment fields override whatever the shallow merge
	// produced. Keys neither side carried stay absent so self-merge does not
	// grow the map.
	if hasMetaKey(a.EnrichmentMetadata, domain.MetaAuthorityScore) || hasMetaKey(b.EnrichmentMetadata, domain.MetaAuthorityScore) {
		out.EnrichmentMetadata = setMetaKey(out.EnrichmentMetadata, domain.MetaAuthorityScore, maxScore(a.AuthorityScore(), b.AuthorityScore()))
	}
	if hasMetaKey(a.EnrichmentMetadata, domain.MetaMatchSignals) || hasMetaKey(b.EnrichmentMetadata, domain.MetaMatchSignals) {
		out.EnrichmentMetadata = setMetaKey(out.EnrichmentMetadata, domain.MetaMatchSignals, a.Document.MatchSignals().Max(b.Document.MatchSignals()))
	}

	// Re-derive the comparison keys from the merged fields so the merged
	// representative indexes consistently.
	out.NormalizedURL = NormalizeURL(out.CanonicalURL)
	out.NormalizedTitle = NormalizeTitle(out.Title)
	out.StableID = stableID(out.Source, out.NormalizedURL, out.NormalizedTitle)

	return out
}

// mergeURL prefers a URL published by a primary legal source (rulings,
// legislation) over one from a lower-authority origin, falling back to
// whichever side has a URL at all.
func (m *MergeResolver) mergeURL(a, b *domain.NormalizedDocument) string {
	for _, d := range []*domain.NormalizedDocument{a, b} {
		if d.CanonicalURL != "" && m.policy.IsPrimaryLegal(d.Source) {
			return d.CanonicalURL
		}
	}
	return firstNonEmpty(a.CanonicalURL, b.CanonicalURL)
}

// preferRegistryValue picks the field from the canonical registry source when
// it has one, otherwise the first non-empty value.
func (m *MergeResolver) preferRegistryValue(a, b *domain.NormalizedDocument, get func(*domain.NormalizedDocument) string) string {
	for _, d := range []*domain.NormalizedDocument{a, b} {
		if d.Source == m.policy.CanonicalRegistry && get(d) != "" {
			return get(d)
		}
	}
	return firstNonEmpty(get(a), get(b))
}

// mergeDates prefers the chronologically later valid date. A missing date is
// never a reason to fail; the other side just wins.
func mergeDates(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return copyTime(b)
	case b == nil:
		return copyTime(a)
	case b.After(*a):
		return copyTime(b)
	default:
		return copyTime(a)
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// mergeArtifactRefs concatenates both lists and drops repeats of the same
// (sha256, storageKey) pair, preserving first-seen order.
func mergeArtifactRefs(a, b []domain.ArtifactRef) []domain.ArtifactRef {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	type refKey struct{ sha, key string }
	seen := make(map[refKey]bool, len(a)+len(b))
	out := make([]domain.ArtifactRef, 0, len(a)+len(b))
	for _, ref := range append(append([]domain.ArtifactRef{}, a...), b...) {
		k := refKey{ref.SHA256, ref.StorageKey}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ref)
	}
	return out
}

// shallowMerge overlays the winner's keys on top of the loser's. Either side
// may be nil.
func shallowMerge(loser, winner map[string]any) map[string]any {
	if loser == nil && winner == nil {
		return nil
	}
	out := make(map[string]any, len(loser)+len(winner))
	for k, v := range loser {
		out[k] = v
	}
	for k, v := range winner {
		out[k] = v
	}
	return out
}

func longerString(a, b string) string {
	if len(b) > len(a) {
		return b
	}
	return a
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func hasMetaKey(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	_, ok := m[key]
	return ok
}

func setMetaKey(m map[string]any, key string, value any) map[string]any {
	if m == nil {
		m = make(map[string]any, 1)
	}
	m[key] = value
	return m
}

func maxScore(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
