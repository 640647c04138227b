package domain

// DuplicateStrategy controls what happens when two documents are judged to be
// the same underlying document.
type DuplicateStrategy string

const (
	// StrategyKeepFirst keeps the earliest document by input order.
	StrategyKeepFirst DuplicateStrategy = "keepFirst"

	// StrategyKeepLast replaces the representative with the newest document.
	StrategyKeepLast DuplicateStrategy = "keepLast"

	// StrategyMerge blends both documents field by field.
	StrategyMerge DuplicateStrategy = "merge"
)

// Valid reports whether the strategy is one of the known values.
func (s DuplicateStrategy) Valid() bool {
	switch s {
	case StrategyKeepFirst, StrategyKeepLast, StrategyMerge:
		return true
	}
	return false
}

// SimilarityThresholds gates the optional near-duplicate detection stage.
type SimilarityThresholds struct {
	// Title is the minimum Jaccard similarity between normalized titles.
	Title float64 `json:"title_similarity"`

	// Content is the minimum Jaccard similarity between extracted contents.
	Content float64 `json:"content_similarity"`
}

// DedupOptions configures a single deduplication call.
type DedupOptions struct {
	// ByURL enables matching on the normalized canonical URL.
	ByURL bool `json:"by_url"`

	// ByStableID enables matching on the derived stable ID.
	// Fingerprint matching is always on; it is the ground-truth signal.
	ByStableID bool `json:"by_stable_id"`

	// UseSimilarityHeuristics enables the pairwise near-duplicate stage.
	UseSimilarityHeuristics bool `json:"use_similarity_heuristics"`

	SimilarityThresholds SimilarityThresholds `json:"similarity_thresholds"`

	Strategy DuplicateStrategy `json:"duplicate_strategy"`
}

// Default thresholds for the similarity stage. TitleOnlyBar applies when
// neither side has extractable content.
const (
	DefaultTitleSimilarity   = 0.8
	DefaultContentSimilarity = 0.7
	TitleOnlySimilarityBar   = 0.9
)

// DefaultDedupOptions returns the options used when the caller passes none.
func DefaultDedupOptions() DedupOptions {
	return DedupOptions{
		ByURL:      true,
		ByStableID: true,
		SimilarityThresholds: SimilarityThresholds{
			Title:   DefaultTitleSimilarity,
			Content: DefaultContentSimilarity,
		},
		Strategy: StrategyKeepFirst,
	}
}

// Normalize fills in defaults for zero-valued fields. The boolean gates are
// handled by DefaultDedupOptions at the call boundary; here only thresholds
// and the strategy are defaulted.
func (o DedupOptions) Normalize() DedupOptions {
	if o.SimilarityThresholds.Title <= 0 {
		o.SimilarityThresholds.Title = DefaultTitleSimilarity
	}
	if o.SimilarityThresholds.Content <= 0 {
		o.SimilarityThresholds.Content = DefaultContentSimilarity
	}
	if !o.Strategy.Valid() {
		o.Strategy = StrategyKeepFirst
	}
	return o
}

// NormalizedDocument is a document plus the derived comparison keys. The
// derived fields exist only inside a deduplication call and are stripped
// before results are returned.
type NormalizedDocument struct {
	Document

	NormalizedURL   string `json:"-"`
	NormalizedTitle string `json:"-"`
	StableID        string `json:"-"`
}

// DedupResult is the outcome of one deduplication call.
type DedupResult struct {
	// Documents are the surviving representatives, in input order.
	Documents []Document `json:"documents"`

	// DuplicatesRemoved is len(input) - len(Documents).
	DuplicatesRemoved int `json:"duplicates_removed"`

	// DuplicateGroups maps a group key (e.g. "fingerprint:<hash>") to the
	// documents absorbed under it. Nil when no duplicates were found; kept
	// for observability only.
	DuplicateGroups map[string][]Document `json:"duplicate_groups,omitempty"`
}
