package domain

import "testing"

func TestDuplicateStrategyValid(t *testing.T) {
	for _, s := range []DuplicateStrategy{StrategyKeepFirst, StrategyKeepLast, StrategyMerge} {
		if !s.Valid() {
			t.Errorf("Valid() = false for %s", s)
		}
	}
	if DuplicateStrategy("keepBest").Valid() {
		t.Error("Valid() = true for unknown strategy")
	}
	if DuplicateStrategy("").Valid() {
		t.Error("Valid() = true for empty strategy")
	}
}

func TestDefaultDedupOptions(t *testing.T) {
	opts := DefaultDedupOptions()

	if !opts.ByURL || !opts.ByStableID {
		t.Error("URL and stable ID matching should be on by default")
	}
	if opts.UseSimilarityHeuristics {
		t.Error("similarity heuristics should be off by default")
	}
	if opts.SimilarityThresholds.Title != DefaultTitleSimilarity {
		t.Errorf("Title threshold = %v, want %v", opts.SimilarityThresholds.Title, DefaultTitleSimilarity)
	}
	if opts.SimilarityThresholds.Content != DefaultContentSimilarity {
		t.Errorf("Content threshold = %v, want %v", opts.SimilarityThresholds.Content, DefaultContentSimilarity)
	}
	if opts.Strategy != StrategyKeepFirst {
		t.Errorf("Strategy = %s, want %s", opts.Strategy, StrategyKeepFirst)
	}
}

func TestDedupOptionsNormalize(t *testing.T) {
	opts := DedupOptions{
		Strategy: DuplicateStrategy("bogus"),
	}.Normalize()

	if opts.Strategy != StrategyKeepFirst {
		t.Errorf("Strategy = %s, want fallback to %s", opts.Strategy, StrategyKeepFirst)
	}
	if opts.SimilarityThresholds.Title != DefaultTitleSimilarity {
		t.Errorf("Title threshold = %v, want default", opts.SimilarityThresholds.Title)
	}
	if opts.SimilarityThresholds.Content != DefaultContentSimilarity {
		t.Errorf("Content threshold = %v, want default", opts.SimilarityThresholds.Content)
	}

	// Explicit thresholds survive
	custom := DedupOptions{
		SimilarityThresholds: SimilarityThresholds{Title: 0.95, Content: 0.5},
		Strategy:             StrategyMerge,
	}.Normalize()
	if custom.SimilarityThresholds.Title != 0.95 || custom.SimilarityThresholds.Content != 0.5 {
		t.Errorf("Normalize() overwrote explicit thresholds: %+v", custom.SimilarityThresholds)
	}
	if custom.Strategy != StrategyMerge {
		t.Errorf("Strategy = %s, want %s", custom.Strategy, StrategyMerge)
	}
}
