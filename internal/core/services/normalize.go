package services

import (
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// Normalizer derives the comparison keys used by identity resolution.
// It is a pure function holder: no state, safe for concurrent use.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize derives the normalized URL, normalized title and stable ID for a
// document. Missing inputs yield empty keys; empty keys never match each
// other downstream.
func (n *Normalizer) Normalize(doc domain.Document) domain.NormalizedDocument {
	out := domain.NormalizedDocument{Document: doc}
	out.NormalizedURL = NormalizeURL(doc.CanonicalURL)
	out.NormalizedTitle = NormalizeTitle(doc.Title)
	out.StableID = stableID(doc.Source, out.NormalizedURL, out.NormalizedTitle)
	return out
}

// NormalizeBatch normalizes every document, preserving input order.
func (n *Normalizer) NormalizeBatch(docs []domain.Document) []domain.NormalizedDocument {
	out := make([]domain.NormalizedDocument, len(docs))
	for i, doc := range docs {
		out[i] = n.Normalize(doc)
	}
	return out
}

// NormalizeURL produces a canonical comparison form of a URL: lower-cased
// scheme and host, default ports dropped, query parameters sorted, fragment
// and trailing slash removed. Unparsable URLs fall back to a trimmed
// lower-case string so they still compare deterministically.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	// Drop default ports
	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	// Sort query parameters so parameter order never distinguishes URLs
	if u.RawQuery != "" {
		q := u.Query()
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			vals := q[k]
			sort.Strings(vals)
			for _, v := range vals {
				if b.Len() > 0 {
					b.WriteByte('&')
				}
				b.WriteString(url.QueryEscape(k))
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(v))
			}
		}
		u.RawQuery = b.String()
	}

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

// NormalizeTitle lower-cases a title and collapses all whitespace runs to
// single spaces.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// stableID derives a synthetic identity key from the source plus the
// strongest normalized field available. Deterministic: same input, same ID.
// Returns empty when the document carries nothing to key on.
func stableID(source domain.Source, normalizedURL, normalizedTitle string) string {
	var key string
	switch {
	case normalizedURL != "":
		key = string(source) + "|url|" + normalizedURL
	case normalizedTitle != "":
		key = string(source) + "|title|" + normalizedTitle
	default:
		return ""
	}
	sum := blake2b.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}
