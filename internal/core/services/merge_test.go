package services

import (
	"testing"
	"time"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

func normalized(doc domain.Document) domain.NormalizedDocument {
	return NewNormalizer().Normalize(doc)
}

func TestMergeHigherAuthorityIsBase(t *testing.T) {
	a := normalized(domain.Document{
		ID:     "a",
		Source: domain.SourceWebCrawl,
		Title:  "Titel",
		SourceMetadata: map[string]any{
			"shared": "from-a",
			"only_a": true,
		},
		EnrichmentMetadata: map[string]any{domain.MetaAuthorityScore: 0.9},
	})
	b := normalized(domain.Document{
		ID:     "b",
		Source: domain.SourceGovernmentAPI,
		Title:  "Titel",
		SourceMetadata: map[string]any{
			"shared": "from-b",
			"only_b": true,
		},
		EnrichmentMetadata: map[string]any{domain.MetaAuthorityScore: 0.3},
	})

	got := NewMergeResolver().Merge(a, b)

	if got.SourceMetadata["shared"] != "from-a" {
		t.Errorf("shared key = %v, want the higher-authority side", got.SourceMetadata["shared"])
	}
	if got.SourceMetadata["only_a"] != true || got.SourceMetadata["only_b"] != true {
		t.Error("one-sided keys should survive the shallow merge")
	}
	if got.AuthorityScore() != 0.9 {
		t.Errorf("authorityScore = %v, want 0.9", got.AuthorityScore())
	}

	// Order must not matter for the base choice
	flipped := NewMergeResolver().Merge(b, a)
	if flipped.SourceMetadata["shared"] != "from-a" {
		t.Errorf("shared key after flip = %v, want the higher-authority side", flipped.SourceMetadata["shared"])
	}
}

func TestMergeURLPrefersPrimaryLegalSource(t *testing.T) {
	a := normalized(domain.Document{
		ID:           "a",
		Source:       domain.SourceRegistry,
		CanonicalURL: "https://registry.example/doc/1",
	})
	b := normalized(domain.Document{
		ID:           "b",
		Source:       domain.SourceRechtspraak,
		CanonicalURL: "https://rechtspraak.nl/uitspraak/1",
	})

	got := NewMergeResolver().Merge(a, b)
	if got.CanonicalURL != "https://rechtspraak.nl/uitspraak/1" {
		t.Errorf("CanonicalURL = %q, want the primary legal source's URL", got.CanonicalURL)
	}

	// Without a primary legal side, the first non-empty URL wins
	c := normalized(domain.Document{ID: "c", Source: domain.SourceWebCrawl})
	d := normalized(domain.Document{ID: "d", Source: domain.SourceGovernmentAPI, CanonicalURL: "https://api.example/doc"})
	got = NewMergeResolver().Merge(c, d)
	if got.CanonicalURL != "https://api.example/doc" {
		t.Errorf("CanonicalURL = %q, want the only non-empty URL", got.CanonicalURL)
	}
}

func TestMergePrefersRegistryIdentifiers(t *testing.T) {
	a := normalized(domain.Document{
		ID:           "a",
		Source:       domain.SourceWebCrawl,
		SourceID:     "crawl-123",
		DocumentType: "webpage",
	})
	b := normalized(domain.Document{
		ID:           "b",
		Source:       domain.SourceRegistry,
		SourceID:     "reg-456",
		DocumentType: "besluit",
	})

	got := NewMergeResolver().Merge(a, b)
	if got.SourceID != "reg-456" {
		t.Errorf("SourceID = %q, want the registry value", got.SourceID)
	}
	if got.DocumentType != "besluit" {
		t.Errorf("DocumentType = %q, want the registry value", got.DocumentType)
	}
}

func TestMergePrefersLongerTitleAndText(t *testing.T) {
	a := normalized(domain.Document{ID: "a", Title: "Besluit", FullText: "korte tekst"})
	b := normalized(domain.Document{ID: "b", Title: "Besluit omgevingsplan gemeente Utrecht", FullText: "een aanzienlijk langere volledige tekst"})

	got := NewMergeResolver().Merge(a, b)
	if got.Title != b.Title {
		t.Errorf("Title = %q, want the longer title", got.Title)
	}
	if got.FullText != b.FullText {
		t.Errorf("FullText = %q, want the longer text", got.FullText)
	}
}

func TestMergePrefersLaterDate(t *testing.T) {
	early := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	a := normalized(domain.Document{ID: "a", Dates: domain.DocumentDates{PublishedAt: &early}})
	b := normalized(domain.Document{ID: "b", Dates: domain.DocumentDates{PublishedAt: &late}})

	got := NewMergeResolver().Merge(a, b)
	if got.Dates.PublishedAt == nil || !got.Dates.PublishedAt.Equal(late) {
		t.Errorf("PublishedAt = %v, want the later date", got.Dates.PublishedAt)
	}

	// Missing on one side: the other side wins
	c := normalized(domain.Document{ID: "c"})
	got = NewMergeResolver().Merge(c, a)
	if got.Dates.PublishedAt == nil || !got.Dates.PublishedAt.Equal(early) {
		t.Errorf("PublishedAt = %v, want the only date present", got.Dates.PublishedAt)
	}
}

func TestMergeArtifactRefsDeduplicated(t *testing.T) {
	shared := domain.ArtifactRef{SHA256: "aaa", StorageKey: "s3://bucket/aaa"}
	a := normalized(domain.Document{
		ID:           "a",
		ArtifactRefs: []domain.ArtifactRef{shared, {SHA256: "bbb", StorageKey: "s3://bucket/bbb"}},
	})
	b := normalized(domain.Document{
		ID:           "b",
		ArtifactRefs: []domain.ArtifactRef{shared, {SHA256: "ccc", StorageKey: "s3://bucket/ccc"}},
	})

	got := NewMergeResolver().Merge(a, b)
	if len(got.ArtifactRefs) != 3 {
		t.Fatalf("got %d artifact refs, want 3", len(got.ArtifactRefs))
	}
	count := 0
	for _, ref := range got.ArtifactRefs {
		if ref.SHA256 == shared.SHA256 && ref.StorageKey == shared.StorageKey {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared artifact appears %d times, want 1", count)
	}
	if got.ArtifactRefs[0] != shared {
		t.Error("first-seen order should be preserved")
	}
}

func TestMergeMatchSignalsElementWiseMax(t *testing.T) {
	a := normalized(domain.Document{
		ID: "a",
		EnrichmentMetadata: map[string]any{
			domain.MetaMatchSignals: map[string]any{"keyword": 0.8, "semantic": 0.2, "metadata": 0.5},
		},
	})
	b := normalized(domain.Document{
		ID: "b",
		EnrichmentMetadata: map[string]any{
			domain.MetaMatchSignals: map[string]any{"keyword": 0.3, "semantic": 0.9, "metadata": 0.5},
		},
	})

	got := NewMergeResolver().Merge(a, b)
	signals := got.Document.MatchSignals()
	want := domain.MatchSignals{Keyword: 0.8, Semantic: 0.9, Metadata: 0.5}
	if signals != want {
		t.Errorf("matchSignals = %+v, want %+v", signals, want)
	}
}

func TestMergeSelfIsIdempotent(t *testing.T) {
	published := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	doc := normalized(domain.Document{
		ID:                 "a",
		Source:             domain.SourceRechtspraak,
		SourceID:           "ECLI:NL:HR:2023:1",
		Title:              "Uitspraak Hoge Raad",
		FullText:           "volledige tekst van de uitspraak",
		CanonicalURL:       "https://rechtspraak.nl/uitspraak/1",
		ContentFingerprint: "abc",
		Dates:              domain.DocumentDates{PublishedAt: &published},
		ArtifactRefs:       []domain.ArtifactRef{{SHA256: "aaa", StorageKey: "s3://b/aaa"}},
		SourceMetadata:     map[string]any{"court": "Hoge Raad"},
		EnrichmentMetadata: map[string]any{domain.MetaAuthorityScore: 0.9},
	})

	got := NewMergeResolver().Merge(doc, doc)

	if got.ID != doc.ID || got.SourceID != doc.SourceID || got.Title != doc.Title ||
		got.FullText != doc.FullText || got.CanonicalURL != doc.CanonicalURL ||
		got.ContentFingerprint != doc.ContentFingerprint {
		t.Errorf("merge(d, d) changed scalar fields: %+v", got.Document)
	}
	if len(got.ArtifactRefs) != 1 {
		t.Errorf("merge(d, d) has %d artifact refs, want 1", len(got.ArtifactRefs))
	}
	if !got.Dates.PublishedAt.Equal(published) {
		t.Errorf("merge(d, d) changed the published date")
	}
	if len(got.SourceMetadata) != len(doc.SourceMetadata) {
		t.Errorf("merge(d, d) changed sourceMetadata: %v", got.SourceMetadata)
	}
	if len(got.EnrichmentMetadata) != len(doc.EnrichmentMetadata) {
		t.Errorf("merge(d, d) grew enrichmentMetadata: %v", got.EnrichmentMetadata)
	}
	if got.AuthorityScore() != 0.9 {
		t.Errorf("merge(d, d) authorityScore = %v, want 0.9", got.AuthorityScore())
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	a := normalized(domain.Document{
		ID:             "a",
		SourceMetadata: map[string]any{"key": "a-value"},
		ArtifactRefs:   []domain.ArtifactRef{{SHA256: "aaa", StorageKey: "k1"}},
	})
	b := normalized(domain.Document{
		ID:             "b",
		SourceMetadata: map[string]any{"key": "b-value"},
		ArtifactRefs:   []domain.ArtifactRef{{SHA256: "bbb", StorageKey: "k2"}},
	})

	_ = NewMergeResolver().Merge(a, b)

	if a.SourceMetadata["key"] != "a-value" || b.SourceMetadata["key"] != "b-value" {
		t.Error("Merge() mutated an input's metadata")
	}
	if len(a.ArtifactRefs) != 1 || len(b.ArtifactRefs) != 1 {
		t.Error("Merge() mutated an input's artifact refs")
	}
}

func TestMergeRederivesComparisonKeys(t *testing.T) {
	a := normalized(domain.Document{
		ID:           "a",
		Source:       domain.SourceRegistry,
		Title:        "Kort",
		CanonicalURL: "https://registry.example/doc",
	})
	b := normalized(domain.Document{
		ID:           "b",
		Source:       domain.SourceRechtspraak,
		Title:        "Een langere titel dan kort",
		CanonicalURL: "https://rechtspraak.nl/doc",
	})

	got := NewMergeResolver().Merge(a, b)
	if got.NormalizedURL != NormalizeURL(got.CanonicalURL) {
		t.Errorf("NormalizedURL = %q not derived from merged URL %q", got.NormalizedURL, got.CanonicalURL)
	}
	if got.NormalizedTitle != NormalizeTitle(got.Title) {
		t.Errorf("NormalizedTitle = %q not derived from merged title %q", got.NormalizedTitle, got.Title)
	}
}
