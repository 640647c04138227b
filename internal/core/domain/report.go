package domain

import "time"

// DuplicateReport records what a reconciliation run collapsed, keyed by the
// identity signal that caught each group. Persisted for observability; the
// dedup contract itself never depends on it.
type DuplicateReport struct {
	ID                string                `json:"id"`
	BatchID           string                `json:"batch_id"`
	DocumentsIn       int                   `json:"documents_in"`
	DocumentsOut      int                   `json:"documents_out"`
	DuplicatesRemoved int                   `json:"duplicates_removed"`
	Groups            map[string][]Document `json:"groups,omitempty"`

	// CrossBatchRepeats lists fingerprints that were already seen by an
	// earlier batch, flagged via the fingerprint index.
	CrossBatchRepeats []string `json:"cross_batch_repeats,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewDuplicateReport builds a report from a dedup result.
func NewDuplicateReport(batchID string, in int, result *DedupResult) *DuplicateReport {
	return &DuplicateReport{
		ID:                GenerateID(),
		BatchID:           batchID,
		DocumentsIn:       in,
		DocumentsOut:      len(result.Documents),
		DuplicatesRemoved: result.DuplicatesRemoved,
		Groups:            result.DuplicateGroups,
		CreatedAt:         time.Now(),
	}
}
