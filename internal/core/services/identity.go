package services

import (
	"github.com/lexharvest/dedup-core/internal/core/domain"
)

// identitySignal is one link in the identity priority chain. Signals are
// tried in order; the first one present on a document decides its identity.
type identitySignal struct {
	name    string
	enabled func(domain.DedupOptions) bool
	extract func(*domain.NormalizedDocument) string
	index   map[string]int // signal value -> representative slot
}

// IdentityResolver collapses exact duplicates in a single pass over a batch.
// The priority chain is fingerprint, then stable ID, then normalized URL.
// A resolver is local to one deduplication call and is discarded afterwards.
type IdentityResolver struct {
	merger *MergeResolver
}

// NewIdentityResolver creates an IdentityResolver.
func NewIdentityResolver(merger *MergeResolver) *IdentityResolver {
	return &IdentityResolver{merger: merger}
}

// newSignalChain builds fresh per-call indices. Fingerprint matching is never
// gated: it is the ground-truth signal.
func newSignalChain() []identitySignal {
	return []identitySignal{
		{
			name:    "fingerprint",
			enabled: func(domain.DedupOptions) bool { return true },
			extract: func(d *domain.NormalizedDocument) string { return d.ContentFingerprint },
			index:   make(map[string]int),
		},
		{
			name:    "stableId",
			enabled: func(o domain.DedupOptions) bool { return o.ByStableID },
			extract: func(d *domain.NormalizedDocument) string { return d.StableID },
			index:   make(map[string]int),
		},
		{
			name:    "url",
			enabled: func(o domain.DedupOptions) bool { return o.ByURL },
			extract: func(d *domain.NormalizedDocument) string { return d.NormalizedURL },
			index:   make(map[string]int),
		},
	}
}

// Resolve walks the batch once, in input order. Each document either joins an
// existing representative (under the configured strategy) or becomes a new
// one, registered under every signal it carries so that later documents
// entering through any signal are still caught.
//
// The returned group map is keyed "<signal>:<value>" and lists the original
// input documents collapsed under that key, representative first.
func (r *IdentityResolver) Resolve(docs []domain.NormalizedDocument, opts domain.DedupOptions) ([]domain.NormalizedDocument, map[string][]domain.Document) {
	chain := newSignalChain()
	reps := make([]domain.NormalizedDocument, 0, len(docs))
	originals := make([]domain.Document, 0, len(docs)) // original input per slot
	groups := make(map[string][]domain.Document)

	for i := range docs {
		doc := docs[i]

		matched := false
		for si := range chain {
			sig := &chain[si]
			if !sig.enabled(opts) {
				continue
			}
			value := sig.extract(&doc)
			if value == "" {
				continue
			}

			slot, seen := sig.index[value]
			if seen {
				key := sig.name + ":" + value
				if len(groups[key]) == 0 {
					groups[key] = append(groups[key], originals[slot])
				}
				groups[key] = append(groups[key], doc.Document)

				r.absorb(chain, reps, slot, doc, opts)
			} else {
				reps = append(reps, doc)
				originals = append(originals, doc.Document)
				registerSignals(chain, &reps[len(reps)-1], len(reps)-1, opts)
			}

			// Strict priority: the first present signal decides.
			matched = true
			break
		}

		if !matched {
			// No usable identity signal: always unique, passed through.
			reps = append(reps, doc)
			originals = append(originals, doc.Document)
		}
	}

	return reps, groups
}

// absorb folds a duplicate into the representative at slot according to the
// configured strategy, then re-registers the (possibly changed) representative
// so its current signals keep pointing at the slot.
func (r *IdentityResolver) absorb(chain []identitySignal, reps []domain.NormalizedDocument, slot int, doc domain.NormalizedDocument, opts domain.DedupOptions) {
	switch opts.Strategy {
	case domain.StrategyKeepLast:
		reps[slot] = doc
	case domain.StrategyMerge:
		reps[slot] = r.merger.Merge(reps[slot], doc)
	default:
		// keepFirst: representative unchanged, duplicate discarded.
		return
	}
	registerSignals(chain, &reps[slot], slot, opts)
}

// registerSignals indexes every enabled, non-empty signal of a representative
// at its slot. Existing entries are left alone so the earliest holder of a
// key keeps winning keep-first order.
func registerSignals(chain []identitySignal, doc *domain.NormalizedDocument, slot int, opts domain.DedupOptions) {
	for si := range chain {
		sig := &chain[si]
		if !sig.enabled(opts) {
			continue
		}
		value := sig.extract(doc)
		if value == "" {
			continue
		}
		if _, exists := sig.index[value]; !exists {
			sig.index[value] = slot
		}
	}
}
