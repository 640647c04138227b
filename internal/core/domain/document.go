package domain

import "time"

// Source identifies the origin system a document was harvested from.
type Source string

const (
	// SourceRechtspraak is the national case-law registry.
	SourceRechtspraak Source = "rechtspraak"

	// SourceOfficielePublicaties is the official legislation gazette.
	SourceOfficielePublicaties Source = "officiele-publicaties"

	// SourceWettenbank is the consolidated legislation registry.
	SourceWettenbank Source = "wettenbank"

	// SourceRegistry is the canonical document registry.
	SourceRegistry Source = "registry"

	// SourceWebCrawl is an untargeted web crawl.
	SourceWebCrawl Source = "web-crawl"

	// SourceGovernmentAPI is a generic government open-data API.
	SourceGovernmentAPI Source = "government-api"
)

// ArtifactRef points at a stored binary artifact of a document.
// An artifact is unique by the (SHA256, StorageKey) pair.
type ArtifactRef struct {
	SHA256     string `json:"sha256"`
	StorageKey string `json:"storage_key"`
	MimeType   string `json:"mime_type,omitempty"`
}

// DocumentDates groups the date fields carried by a document.
type DocumentDates struct {
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// MatchSignals holds the numeric sub-scores produced by upstream enrichment.
type MatchSignals struct {
	Keyword  float64 `json:"keyword"`
	Semantic float64 `json:"semantic"`
	Metadata float64 `json:"metadata"`
}

// Max returns the element-wise maximum of two signal sets.
func (m MatchSignals) Max(other MatchSignals) MatchSignals {
	return MatchSignals{
		Keyword:  maxFloat(m.Keyword, other.Keyword),
		Semantic: maxFloat(m.Semantic, other.Semantic),
		Metadata: maxFloat(m.Metadata, other.Metadata),
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Enrichment metadata keys the engine recognises. All other keys are opaque
// provenance data that merges shallowly.
const (
	MetaAuthorityScore = "authorityScore"
	MetaMatchSignals   = "matchSignals"
	MetaSummary        = "summary"
	MetaSamenvatting   = "samenvatting"
)

// Document is a harvested document as supplied by upstream ingestion.
// Fingerprints, hashes and enrichment scores are computed upstream; this
// package only reads them.
type Document struct {
	ID                 string         `json:"id"`
	SourceID           string         `json:"source_id"`
	Source             Source         `json:"source"`
	Title              string         `json:"title"`
	FullText           string         `json:"full_text,omitempty"`
	CanonicalURL       string         `json:"canonical_url,omitempty"`
	ContentFingerprint string         `json:"content_fingerprint,omitempty"`
	DocumentType       string         `json:"document_type,omitempty"`
	DocumentFamily     string         `json:"document_family,omitempty"`
	PublisherAuthority string         `json:"publisher_authority,omitempty"`
	Dates              DocumentDates  `json:"dates"`
	ArtifactRefs       []ArtifactRef  `json:"artifact_refs,omitempty"`
	SourceMetadata     map[string]any `json:"source_metadata,omitempty"`
	EnrichmentMetadata map[string]any `json:"enrichment_metadata,omitempty"`
}

// AuthorityScore returns the numeric authority score attached by enrichment,
// or 0 when absent or non-numeric.
func (d *Document) AuthorityScore() float64 {
	if d.EnrichmentMetadata == nil {
		return 0
	}
	return numericValue(d.EnrichmentMetadata[MetaAuthorityScore])
}

// MatchSignals returns the enrichment sub-scores, zero-valued when absent.
func (d *Document) MatchSignals() MatchSignals {
	if d.EnrichmentMetadata == nil {
		return MatchSignals{}
	}
	switch v := d.EnrichmentMetadata[MetaMatchSignals].(type) {
	case MatchSignals:
		return v
	case map[string]any:
		return MatchSignals{
			Keyword:  numericValue(v["keyword"]),
			Semantic: numericValue(v["semantic"]),
			Metadata: numericValue(v["metadata"]),
		}
	}
	return MatchSignals{}
}

// numericValue coerces the value shapes that survive a JSON round trip.
// Anything else counts as absent.
func numericValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Clone returns a copy of the document with slices and the open metadata
// maps copied one level deep, so merging never mutates its inputs.
func (d *Document) Clone() *Document {
	out := *d
	if d.Dates.PublishedAt != nil {
		t := *d.Dates.PublishedAt
		out.Dates.PublishedAt = &t
	}
	if d.ArtifactRefs != nil {
		out.ArtifactRefs = make([]ArtifactRef, len(d.ArtifactRefs))
		copy(out.ArtifactRefs, d.ArtifactRefs)
	}
	out.SourceMetadata = cloneMap(d.SourceMetadata)
	out.EnrichmentMetadata = cloneMap(d.EnrichmentMetadata)
	return &out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
