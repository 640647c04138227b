package runtime

import (
	"sync"

	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// Config holds the runtime-adjustable reconciliation settings: the default
// dedup options applied to batches and the source-authority precedence
// table. Thread-safe for concurrent access; the worker reads it per batch,
// operators may update it between batches.
type Config struct {
	mu sync.RWMutex

	options domain.DedupOptions
	policy  domain.AuthorityPolicy
}

// NewConfig creates a Config with the built-in defaults.
func NewConfig() *Config {
	return &Config{
		options: domain.DefaultDedupOptions(),
		policy:  domain.DefaultAuthorityPolicy(),
	}
}

// Options returns the current default dedup options.
func (c *Config) Options() domain.DedupOptions {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.options
}

// SetOptions replaces the default dedup options. Zero-valued thresholds and
// an unknown strategy fall back to the defaults.
func (c *Config) SetOptions(opts domain.DedupOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options = opts.Normalize()
}

// Policy returns the current source-authority precedence table.
func (c *Config) Policy() domain.AuthorityPolicy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy
}

// SetPolicy replaces the precedence table.
func (c *Config) SetPolicy(policy domain.AuthorityPolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = policy
}
