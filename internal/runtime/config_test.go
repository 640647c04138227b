package runtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	opts := cfg.Options()
	assert.True(t, opts.ByURL)
	assert.True(t, opts.ByStableID)
	assert.False(t, opts.UseSimilarityHeuristics)
	assert.Equal(t, domain.StrategyKeepFirst, opts.Strategy)

	policy := cfg.Policy()
	assert.True(t, policy.IsPrimaryLegal(domain.SourceRechtspraak))
	assert.Equal(t, domain.SourceRegistry, policy.CanonicalRegistry)
}

func TestSetOptionsNormalizes(t *testing.T) {
	cfg := NewConfig()

	cfg.SetOptions(domain.DedupOptions{
		Strategy: domain.DuplicateStrategy("bogus"),
	})

	opts := cfg.Options()
	assert.Equal(t, domain.StrategyKeepFirst, opts.Strategy)
	assert.Equal(t, domain.DefaultTitleSimilarity, opts.SimilarityThresholds.Title)
	assert.Equal(t, domain.DefaultContentSimilarity, opts.SimilarityThresholds.Content)
}

func TestSetPolicy(t *testing.T) {
	cfg := NewConfig()

	custom := domain.AuthorityPolicy{
		PrimaryLegal:      map[domain.Source]bool{domain.SourceGovernmentAPI: true},
		CanonicalRegistry: domain.SourceGovernmentAPI,
	}
	cfg.SetPolicy(custom)

	policy := cfg.Policy()
	require.True(t, policy.IsPrimaryLegal(domain.SourceGovernmentAPI))
	assert.False(t, policy.IsPrimaryLegal(domain.SourceRechtspraak))
}

func TestConfigConcurrentAccess(t *testing.T) {
	cfg := NewConfig()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cfg.SetOptions(domain.DedupOptions{Strategy: domain.StrategyMerge})
		}()
		go func() {
			defer wg.Done()
			_ = cfg.Options()
		}()
	}
	wg.Wait()

	assert.Equal(t, domain.StrategyMerge, cfg.Options().Strategy)
}
