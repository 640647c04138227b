package services

import (
	"testing"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases scheme and host", "HTTPS://Rechtspraak.NL/uitspraak", "https://rechtspraak.nl/uitspraak"},
		{"drops default http port", "http://example.org:80/doc", "http://example.org/doc"},
		{"drops default https port", "https://example.org:443/doc", "https://example.org/doc"},
		{"keeps non-default port", "https://example.org:8443/doc", "https://example.org:8443/doc"},
		{"strips fragment", "https://example.org/doc#section-2", "https://example.org/doc"},
		{"strips trailing slash", "https://example.org/doc/", "https://example.org/doc"},
		{"sorts query parameters", "https://example.org/doc?b=2&a=1", "https://example.org/doc?a=1&b=2"},
		{"no host falls back to lowercase", "Not A URL", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLEquivalence(t *testing.T) {
	a := NormalizeURL("https://wetten.overheid.nl/BWBR0001854?query=x&sort=date")
	b := NormalizeURL("HTTPS://wetten.overheid.nl:443/BWBR0001854/?sort=date&query=x#top")
	if a != b {
		t.Errorf("equivalent URLs normalize differently: %q vs %q", a, b)
	}
}

func TestNormalizeTitle(t *testing.T) {
	got := NormalizeTitle("  Besluit   Omgevingsplan \t 2023 ")
	if got != "besluit omgevingsplan 2023" {
		t.Errorf("NormalizeTitle() = %q", got)
	}
	if NormalizeTitle("") != "" {
		t.Error("NormalizeTitle(\"\") should be empty")
	}
}

func TestNormalizeDerivesStableID(t *testing.T) {
	n := NewNormalizer()

	withURL := n.Normalize(domain.Document{
		Source:       domain.SourceRechtspraak,
		Title:        "Uitspraak",
		CanonicalURL: "https://rechtspraak.nl/uitspraak/1",
	})
	if withURL.StableID == "" {
		t.Fatal("StableID should be derived when a URL is present")
	}

	// Same source and URL, different title: URL keys the identity
	sameURL := n.Normalize(domain.Document{
		Source:       domain.SourceRechtspraak,
		Title:        "Andere titel",
		CanonicalURL: "https://rechtspraak.nl/uitspraak/1",
	})
	if sameURL.StableID != withURL.StableID {
		t.Error("same source and URL should produce the same stable ID")
	}

	// Title-only fallback
	titleOnly := n.Normalize(domain.Document{
		Source: domain.SourceRechtspraak,
		Title:  "Uitspraak",
	})
	if titleOnly.StableID == "" {
		t.Fatal("StableID should fall back to the title")
	}
	if titleOnly.StableID == withURL.StableID {
		t.Error("URL-keyed and title-keyed IDs must not collide")
	}

	// Different source, same title: distinct IDs
	otherSource := n.Normalize(domain.Document{
		Source: domain.SourceWebCrawl,
		Title:  "Uitspraak",
	})
	if otherSource.StableID == titleOnly.StableID {
		t.Error("stable IDs must be scoped by source")
	}

	// Nothing to key on
	empty := n.Normalize(domain.Document{Source: domain.SourceWebCrawl})
	if empty.StableID != "" {
		t.Errorf("StableID = %q, want empty for a document with no URL and no title", empty.StableID)
	}
}

func TestNormalizeBatchPreservesOrder(t *testing.T) {
	n := NewNormalizer()
	docs := []domain.Document{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
		{ID: "c", Title: "Third"},
	}

	out := n.NormalizeBatch(docs)
	if len(out) != 3 {
		t.Fatalf("got %d documents, want 3", len(out))
	}
	for i, doc := range docs {
		if out[i].ID != doc.ID {
			t.Errorf("position %d: got %s, want %s", i, out[i].ID, doc.ID)
		}
	}
}
